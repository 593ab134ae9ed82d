package main

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultIntensity = 0.3
	DisplaceOctaves  = 4

	displaceFrequency = 2.5
	displaceTimeRate  = 0.1 // distinct from glowTimeRate
	colorBands        = 10.0
	colorTimeRate     = 0.2

	glowFrequency = 30.0
	glowTimeRate  = 0.2
	glowPulseRate = 3.0
	glowPulseX    = 5.0
	glowEdgeLow   = 0.8
	glowEdgeHigh  = 0.85
	glowStrength  = 0.6
)

var (
	lightDir  = r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1})
	glowColor = colorful.Color{R: 1, G: 1, B: 0.9}

	paletteA = r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	paletteB = r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	paletteC = r3.Vec{X: 1, Y: 1, Z: 1}
	paletteD = r3.Vec{X: 0, Y: 0.1, Z: 0.2}
)

// DisplacementSample is the transient result of one noise evaluation.
type DisplacementSample struct {
	OffsetMagnitude float64
	ColorPhase      float64
}

// ShadedVertex is one vertex of a displaced, coloured frame.
type ShadedVertex struct {
	Position r3.Vec
	Color    colorful.Color
}

// Surface evaluates the displacement shader on the CPU.
type Surface struct {
	field     NoiseField
	intensity float64
	octaves   int
	workers   int
}

// NewSurface validates its parameters and shades one test point. Any error
// here means the surface can never produce a frame.
func NewSurface(field NoiseField, intensity float64) (*Surface, error) {
	if field == nil {
		return nil, errors.New("surface: nil noise field")
	}
	if math.IsNaN(intensity) || math.IsInf(intensity, 0) || intensity < 0 {
		return nil, fmt.Errorf("surface: invalid intensity %v", intensity)
	}

	s := &Surface{
		field:     field,
		intensity: intensity,
		octaves:   DisplaceOctaves,
		workers:   runtime.NumCPU(),
	}

	trial := s.Shade(SurfacePoint{
		Position: r3.Vec{X: 1},
		Normal:   r3.Vec{X: 1},
	}, 0)
	if !finiteVec(trial.Position) || !finiteColor(trial.Color) {
		return nil, fmt.Errorf("surface: non-finite output %+v", trial)
	}

	return s, nil
}

func (s *Surface) Intensity() float64 { return s.intensity }

// Sample computes displacement and colour phase for a point at time t.
func (s *Surface) Sample(p r3.Vec, t float64) DisplacementSample {
	offset := r3.Vec{X: t * displaceTimeRate, Y: t * displaceTimeRate, Z: t * displaceTimeRate}
	d := FBM3(s.field, r3.Add(r3.Scale(displaceFrequency, p), offset), s.octaves)

	return DisplacementSample{
		OffsetMagnitude: d,
		ColorPhase:      fract(((d+0.5)*0.5)*colorBands + t*colorTimeRate),
	}
}

// Displace moves a point along its normal.
func (s *Surface) Displace(sp SurfacePoint, sample DisplacementSample) r3.Vec {
	return r3.Add(sp.Position, r3.Scale(sample.OffsetMagnitude*s.intensity, sp.Normal))
}

// Shade runs both shading stages for one vertex.
func (s *Surface) Shade(sp SurfacePoint, t float64) ShadedVertex {
	sample := s.Sample(sp.Position, t)

	diffuse := clamp01(r3.Dot(sp.Normal, lightDir))*0.7 + 0.3
	base := scaleColor(Palette(sample.ColorPhase), diffuse)

	glow := scaleColor(glowColor, s.GlowMask(sp.Position, t)*glowStrength)

	return ShadedVertex{
		Position: s.Displace(sp, sample),
		Color:    addColor(base, glow),
	}
}

// GlowMask is the sparse particle term: high frequency noise gated by a
// travelling pulse.
func (s *Surface) GlowMask(p r3.Vec, t float64) float64 {
	offset := r3.Vec{X: t * glowTimeRate, Y: t * glowTimeRate, Z: t * glowTimeRate}
	particle := s.field.Noise3(r3.Add(r3.Scale(glowFrequency, p), offset))
	pulse := (math.Sin(t*glowPulseRate+p.X*glowPulseX) + 1) * 0.5
	return glowThreshold(particle * pulse)
}

func glowThreshold(v float64) float64 {
	return smoothstep(glowEdgeLow, glowEdgeHigh, v)
}

// Evaluate shades every vertex of the mesh into out, which must have the
// same length as mesh.Points. Work is split into contiguous chunks.
func (s *Surface) Evaluate(mesh *Mesh, t float64, out []ShadedVertex) {
	total := len(mesh.Points)
	workers := s.workers
	if workers < 1 {
		workers = 1
	}
	chunk := (total + workers - 1) / workers
	if chunk < 1024 {
		chunk = 1024
	}

	var wg sync.WaitGroup
	for start := 0; start < total; start += chunk {
		end := min(start+chunk, total)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = s.Shade(mesh.Points[i], t)
			}
		}(start, end)
	}
	wg.Wait()
}

// Palette is the cosine gradient a + b*cos(2π(c*phase + d)); period 1.
func Palette(phase float64) colorful.Color {
	channel := func(a, b, c, d float64) float64 {
		return a + b*math.Cos(2*math.Pi*(c*phase+d))
	}
	return colorful.Color{
		R: channel(paletteA.X, paletteB.X, paletteC.X, paletteD.X),
		G: channel(paletteA.Y, paletteB.Y, paletteC.Y, paletteD.Y),
		B: channel(paletteA.Z, paletteB.Z, paletteC.Z, paletteD.Z),
	}
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func scaleColor(c colorful.Color, f float64) colorful.Color {
	return colorful.Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

func addColor(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B}
}

func finiteVec(v r3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}

func finiteColor(c colorful.Color) bool {
	return !math.IsNaN(c.R+c.G+c.B) && !math.IsInf(c.R+c.G+c.B, 0)
}
