package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenLanding screen = iota
	screenVisualizing
)

// MediaCommand is an intent posted by desktop media controls.
type MediaCommand int

const (
	MediaPlay MediaCommand = iota
	MediaPause
	MediaPlayPause
)

// StatusPublisher mirrors playback state to an outside observer.
type StatusPublisher interface {
	PublishStatus(AudioStatus)
}

type (
	frameMsg   time.Time
	enterMsg   struct{}
	metricMsg  MetricUpdate
	levelsMsg  AudioLevels
	mediaMsg   MediaCommand
	metricsEnd struct{}
)

type model struct {
	width  int
	height int
	ready  bool
	screen screen

	frameInterval time.Duration
	modelName     string

	animator *SceneAnimator
	raster   *Rasterizer
	frame    Frame

	// rasterized once per frame or resize, View only composes it
	canvas           string
	canvasW, canvasH int

	metrics     MetricsSnapshot
	metricsChan <-chan MetricUpdate

	audio       AudioPlayer
	audioStatus AudioStatus
	levels      AudioLevels
	levelsChan  <-chan AudioLevels
	publisher   StatusPublisher

	skipLanding bool
}

type shellDeps struct {
	animator  *SceneAnimator
	audio     AudioPlayer
	metrics   <-chan MetricUpdate
	levels    <-chan AudioLevels
	publisher StatusPublisher
	cfg       Config
}

func initialModel(deps shellDeps) model {
	LogInfo("Creating initial TUI model")

	m := model{
		screen:        screenLanding,
		frameInterval: deps.cfg.FrameInterval(),
		modelName:     deps.cfg.ModelName,
		animator:      deps.animator,
		raster:        NewRasterizer(),
		metrics:       InitialMetrics(),
		metricsChan:   deps.metrics,
		audio:         deps.audio,
		levelsChan:    deps.levels,
		publisher:     deps.publisher,
	}
	if deps.audio != nil {
		m.audioStatus = deps.audio.Status()
	}
	m.skipLanding = deps.cfg.SkipLanding
	return m
}

func (m model) Init() tea.Cmd {
	LogInfo("TUI Init() called")
	cmds := []tea.Cmd{
		waitForMetrics(m.metricsChan),
		waitForLevels(m.levelsChan),
	}
	if m.skipLanding {
		cmds = append(cmds, func() tea.Msg { return enterMsg{} })
	}
	return tea.Batch(cmds...)
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func waitForMetrics(ch <-chan MetricUpdate) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return metricsEnd{}
		}
		return metricMsg(u)
	}
}

func waitForLevels(ch <-chan AudioLevels) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		l, ok := <-ch
		if !ok {
			return nil
		}
		return levelsMsg(l)
	}
}

// startVisualization is the first user gesture: playback starts and the
// frame chain begins.
func (m *model) startVisualization() tea.Cmd {
	m.screen = screenVisualizing
	LogInfo("Entering visualization")

	if m.audio != nil {
		if err := m.audio.Play(); err != nil {
			LogError("Playback unavailable: %v", err)
		}
		m.syncAudio()
	}
	return frameCmd(m.frameInterval)
}

func (m *model) toggleMute() {
	if m.audio == nil {
		return
	}
	m.audio.SetMuted(!m.audioStatus.Muted)
	m.syncAudio()
	LogDebug("Muted: %v", m.audioStatus.Muted)
}

func (m *model) syncAudio() {
	m.audioStatus = m.audio.Status()
	if m.publisher != nil {
		m.publisher.PublishStatus(m.audioStatus)
	}
}

func (m model) handleMedia(cmd MediaCommand) (model, tea.Cmd) {
	if m.screen == screenLanding {
		if cmd == MediaPause {
			return m, nil
		}
		return m, m.startVisualization()
	}

	switch cmd {
	case MediaPlay:
		if m.audioStatus.Muted {
			m.toggleMute()
		}
	case MediaPause:
		if !m.audioStatus.Muted {
			m.toggleMute()
		}
	case MediaPlayPause:
		m.toggleMute()
	}
	return m, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			LogInfo("User requested quit via key: %s", msg.String())
			return m, tea.Quit
		case "enter", " ":
			if m.screen == screenLanding {
				return m, m.startVisualization()
			}
		case "m":
			if m.screen == screenVisualizing {
				m.toggleMute()
			}
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.screen == screenLanding {
			return m, m.startVisualization()
		}
		// the mute control sits in the bottom right corner
		if msg.Y >= m.height-3 && msg.X >= m.width-sideColumn {
			m.toggleMute()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = msg.Width > 0 && msg.Height > 0
		LogInfo("Window resized: %dx%d", m.width, m.height)
		m.rasterize()

	case enterMsg:
		if m.screen == screenLanding {
			return m, m.startVisualization()
		}

	case frameMsg:
		if m.screen != screenVisualizing {
			return m, nil
		}
		if m.animator != nil {
			m.frame = m.animator.Tick()
		}
		m.rasterize()
		return m, frameCmd(m.frameInterval)

	case metricMsg:
		m.metrics = m.metrics.Apply(MetricUpdate(msg))
		return m, waitForMetrics(m.metricsChan)

	case metricsEnd:
		LogInfo("Metrics stream closed")

	case levelsMsg:
		m.levels = AudioLevels(msg)
		return m, waitForLevels(m.levelsChan)

	case mediaMsg:
		return m.handleMedia(MediaCommand(msg))
	}

	return m, nil
}

type shellLayout struct {
	title, footer string
	side          int
	canvasWidth   int
	bodyHeight    int
}

func (m model) layout() shellLayout {
	l := shellLayout{
		title:  renderTitle(m.width),
		footer: renderFooter(m.width, renderMuteControl(m.audioStatus, m.levels)),
		side:   sideColumn,
	}
	l.bodyHeight = max(m.height-lipgloss.Height(l.title)-lipgloss.Height(l.footer), 0)
	if m.width < l.side*2+20 {
		l.side = 0
	}
	l.canvasWidth = m.width - l.side*2
	return l
}

// rasterize redraws the cached canvas from the current frame.
func (m *model) rasterize() {
	if !m.ready || m.screen != screenVisualizing {
		return
	}
	l := m.layout()
	m.canvas = m.raster.Render(m.frame, l.canvasWidth, l.bodyHeight)
	m.canvasW, m.canvasH = l.canvasWidth, l.bodyHeight
}

func (m model) View() string {
	if !m.ready {
		return "Initializing visualizer..."
	}
	if m.screen == screenLanding {
		return RenderLanding(m.width, m.height)
	}

	l := m.layout()
	title, footer, side := l.title, l.footer, l.side
	bodyHeight := l.bodyHeight

	// nothing rendered yet, or the footer changed height since the last frame
	canvas := m.canvas
	if canvas == "" || m.canvasW != l.canvasWidth || m.canvasH != l.bodyHeight {
		canvas = blankCanvas(l.canvasWidth, l.bodyHeight)
	}

	body := canvas
	if side > 0 {
		r := Readouts(m.modelName, m.metrics)
		left := placeColumn(side, bodyHeight, []placement{
			{top: 0.15, block: renderInfoBox(r[0], false, side)},
			{top: 0.60, block: renderInfoBox(r[1], false, side)},
		})
		right := placeColumn(side, bodyHeight, []placement{
			{top: 0.10, block: renderInfoBox(r[2], true, side)},
			{top: 0.35, block: renderInfoBox(r[3], true, side)},
			{top: 0.60, block: renderInfoBox(r[4], true, side)},
			{top: 0.80, block: renderInfoBox(r[5], true, side)},
		})
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, canvas, right)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}
