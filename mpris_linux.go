//go:build linux
// +build linux

package main

import (
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	mprisPath   = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisRoot   = "org.mpris.MediaPlayer2"
	mprisPlayer = "org.mpris.MediaPlayer2.Player"
	mprisName   = "org.mpris.MediaPlayer2.thinkviz"
)

// MediaSession exposes the player on the session bus so desktop media keys
// can reach it. Calls are turned into shell messages; nothing here touches
// the audio stream directly.
type MediaSession struct {
	conn  *dbus.Conn
	props *prop.Properties
	send  atomic.Pointer[func(tea.Msg)]
}

type mprisRootObject struct{}

func (mprisRootObject) Raise() *dbus.Error { return nil }
func (mprisRootObject) Quit() *dbus.Error  { return nil }

type mprisPlayerObject struct {
	session *MediaSession
}

func (o mprisPlayerObject) Play() *dbus.Error      { return o.session.post(MediaPlay) }
func (o mprisPlayerObject) Pause() *dbus.Error     { return o.session.post(MediaPause) }
func (o mprisPlayerObject) Stop() *dbus.Error      { return o.session.post(MediaPause) }
func (o mprisPlayerObject) PlayPause() *dbus.Error { return o.session.post(MediaPlayPause) }
func (o mprisPlayerObject) Next() *dbus.Error      { return nil }
func (o mprisPlayerObject) Previous() *dbus.Error  { return nil }

func NewMediaSession() (*MediaSession, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	s := &MediaSession{conn: conn}

	if err := conn.Export(mprisRootObject{}, mprisPath, mprisRoot); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export %s: %w", mprisRoot, err)
	}
	player := mprisPlayerObject{session: s}
	if err := conn.Export(player, mprisPath, mprisPlayer); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export %s: %w", mprisPlayer, err)
	}

	props, err := prop.Export(conn, mprisPath, prop.Map{
		mprisRoot: {
			"Identity":            {Value: "Thinking Visualizer", Emit: prop.EmitTrue},
			"CanQuit":             {Value: false, Emit: prop.EmitTrue},
			"CanRaise":            {Value: false, Emit: prop.EmitTrue},
			"HasTrackList":        {Value: false, Emit: prop.EmitTrue},
			"SupportedUriSchemes": {Value: []string{}, Emit: prop.EmitTrue},
			"SupportedMimeTypes":  {Value: []string{"audio/mpeg"}, Emit: prop.EmitTrue},
		},
		mprisPlayer: {
			"PlaybackStatus": {Value: "Stopped", Emit: prop.EmitTrue},
			"Metadata": {Value: map[string]dbus.Variant{
				"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/org/mpris/MediaPlayer2/track/0")),
				"xesam:title":   dbus.MakeVariant("Thinking Mode"),
				"xesam:artist":  dbus.MakeVariant([]string{"AI Data Sculptures"}),
			}, Emit: prop.EmitTrue},
			"CanPlay":       {Value: true, Emit: prop.EmitTrue},
			"CanPause":      {Value: true, Emit: prop.EmitTrue},
			"CanControl":    {Value: true, Emit: prop.EmitTrue},
			"CanGoNext":     {Value: false, Emit: prop.EmitTrue},
			"CanGoPrevious": {Value: false, Emit: prop.EmitTrue},
			"CanSeek":       {Value: false, Emit: prop.EmitTrue},
		},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("export properties: %w", err)
	}
	s.props = props

	node := &introspect.Node{
		Name: string(mprisPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       mprisRoot,
				Methods:    introspect.Methods(mprisRootObject{}),
				Properties: props.Introspection(mprisRoot),
			},
			{
				Name:       mprisPlayer,
				Methods:    introspect.Methods(player),
				Properties: props.Introspection(mprisPlayer),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), mprisPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(mprisName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("request name %s: %w", mprisName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("name %s already taken", mprisName)
	}

	return s, nil
}

// Attach sets where media commands go. Commands arriving earlier are
// dropped.
func (s *MediaSession) Attach(send func(tea.Msg)) {
	s.send.Store(&send)
}

func (s *MediaSession) post(cmd MediaCommand) *dbus.Error {
	if send := s.send.Load(); send != nil {
		(*send)(mediaMsg(cmd))
	}
	return nil
}

// PublishStatus maps playback state onto PlaybackStatus. Muted playback is
// reported as Paused.
func (s *MediaSession) PublishStatus(st AudioStatus) {
	if s == nil || s.props == nil {
		return
	}
	s.props.SetMust(mprisPlayer, "PlaybackStatus", playbackStatus(st))
}

func (s *MediaSession) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	s.conn.ReleaseName(mprisName)
	return s.conn.Close()
}
