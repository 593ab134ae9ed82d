package main

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const maxCachedStyles = 20000

// frameBuffer is a colour + depth target of w*h pixels, row major.
type frameBuffer struct {
	w, h  int
	color []colorful.Color
	depth []float64
}

func (fb *frameBuffer) reset(w, h int, clear func(y int) colorful.Color) {
	n := w * h
	if cap(fb.color) < n {
		fb.color = make([]colorful.Color, n)
		fb.depth = make([]float64, n)
	}
	fb.w, fb.h = w, h
	fb.color = fb.color[:n]
	fb.depth = fb.depth[:n]

	for y := 0; y < h; y++ {
		bg := clear(y)
		row := y * w
		for x := 0; x < w; x++ {
			fb.color[row+x] = bg
			fb.depth[row+x] = math.Inf(1)
		}
	}
}

// PerformanceCache pools per-frame allocations and memoizes lipgloss styles.
type PerformanceCache struct {
	bufferPool  sync.Pool
	builderPool sync.Pool
	styleCache  map[string]lipgloss.Style
	styleMu     sync.RWMutex
}

func NewPerformanceCache() *PerformanceCache {
	return &PerformanceCache{
		styleCache: make(map[string]lipgloss.Style, 3000),
		bufferPool: sync.Pool{
			New: func() interface{} {
				return new(frameBuffer)
			},
		},
		builderPool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			},
		},
	}
}

func (pc *PerformanceCache) GetBuffer() *frameBuffer {
	return pc.bufferPool.Get().(*frameBuffer)
}

func (pc *PerformanceCache) ReturnBuffer(fb *frameBuffer) {
	pc.bufferPool.Put(fb)
}

func (pc *PerformanceCache) GetStyleFGBG(fg, bg lipgloss.Color) lipgloss.Style {
	key := string(fg) + "," + string(bg)
	pc.styleMu.RLock()
	style, ok := pc.styleCache[key]
	pc.styleMu.RUnlock()
	if ok {
		return style
	}

	pc.styleMu.Lock()
	defer pc.styleMu.Unlock()
	if style, ok = pc.styleCache[key]; ok {
		return style
	}
	if len(pc.styleCache) >= maxCachedStyles {
		// the animated palette keeps minting colours
		clear(pc.styleCache)
	}
	style = lipgloss.NewStyle().Foreground(fg).Background(bg)
	pc.styleCache[key] = style
	return style
}

func (pc *PerformanceCache) GetBuilder() *strings.Builder {
	sb := pc.builderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

func (pc *PerformanceCache) ReturnBuilder(sb *strings.Builder) {
	pc.builderPool.Put(sb)
}

// toTerminal quantizes a shaded colour to a lipgloss hex colour.
func toTerminal(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}
