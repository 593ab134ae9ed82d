package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gordonklaus/portaudio"
)

// logOutputDevices records what PortAudio can see. It is informational only;
// playback opens the default device regardless.
func logOutputDevices() {
	if err := portaudio.Initialize(); err != nil {
		LogWarn("audio: portaudio unavailable: %v", err)
		return
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		LogWarn("audio: failed to enumerate devices: %v", err)
		return
	}

	outputs := 0
	for _, device := range devices {
		if device.MaxOutputChannels == 0 {
			continue // input-only
		}
		outputs++
		LogDebug("audio: output device %q (%.0f Hz)", device.Name, device.DefaultSampleRate)
	}
	if outputs == 0 {
		LogWarn("audio: no output devices detected, the track will stay silent")
	}
}

func buildAnimator(cfg Config) (*SceneAnimator, error) {
	field, err := NewNoiseField(cfg.Noise, cfg.Seed)
	if err != nil {
		return nil, err
	}
	surface, err := NewSurface(field, cfg.Intensity)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	mesh := NewIcosphere(cfg.Radius, cfg.Detail)
	LogInfo("Surface ready: %s noise, intensity %.2f, radius %.2f, detail %d, %d vertices, %d triangles",
		cfg.Noise, surface.Intensity(), cfg.Radius, cfg.Detail, len(mesh.Points), mesh.TriangleCount())
	return NewSceneAnimator(surface, mesh), nil
}

func metricsSeed(cfg Config) uint64 {
	if cfg.Seed != 0 {
		return uint64(cfg.Seed)
	}
	return uint64(time.Now().UnixNano())
}

func run(cfg Config) error {
	animator, err := buildAnimator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := NewMetricsSimulator(cfg.CounterInterval, cfg.SignatureInterval, metricsSeed(cfg)).Start(ctx)

	logOutputDevices()
	player := NewPortAudioPlayer(cfg.Volume)
	defer func() {
		if err := player.Close(); err != nil {
			LogError("audio: close: %v", err)
		}
	}()
	if err := player.Load(cfg.Track); err != nil {
		// the visualization runs without sound
		LogWarn("Continuing without audio: %v", err)
	}
	levels := RunMeter(ctx, player.SampleRate(), player.Taps())

	if cfg.WaveformPNG != "" {
		go func() {
			if err := renderWaveform(cfg.Track, cfg.WaveformPNG); err != nil {
				LogError("waveform: %v", err)
				return
			}
			LogInfo("waveform: wrote %s", cfg.WaveformPNG)
		}()
	}

	deps := shellDeps{
		animator: animator,
		audio:    player,
		metrics:  metrics,
		levels:   levels,
		cfg:      cfg,
	}

	var session *MediaSession
	if cfg.MPRIS {
		session, err = NewMediaSession()
		if err != nil {
			LogWarn("MPRIS disabled: %v", err)
		} else {
			deps.publisher = session
			defer session.Close()
		}
	}

	p := tea.NewProgram(initialModel(deps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if session != nil {
		session.Attach(p.Send)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	cancel()
	// drain so the timer goroutines can finish
	for range metrics {
	}
	return nil
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	if err := InitLogger(cfg.LogFile, cfg.Debug); err != nil {
		log.Printf("Warning: logging disabled: %v", err)
	}
	defer CloseLogger()

	defer func() {
		if r := recover(); r != nil {
			LogPanic(r, "main")
			CloseLogger()
			fmt.Fprintf(os.Stderr, "thinking visualizer crashed: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := run(cfg); err != nil {
		LogError("%v", err)
		CloseLogger()
		log.Fatal(err)
	}
}
