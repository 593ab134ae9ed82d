package main

// playbackStatus is the MPRIS PlaybackStatus string for a player state.
func playbackStatus(st AudioStatus) string {
	switch {
	case !st.Playing:
		return "Stopped"
	case st.Muted:
		return "Paused"
	}
	return "Playing"
}
