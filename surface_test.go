package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestSurface(t *testing.T, intensity float64) *Surface {
	t.Helper()
	s, err := NewSurface(NewSimplexField(1), intensity)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if got := s.Intensity(); got != intensity {
		t.Fatalf("Intensity() = %v, want %v", got, intensity)
	}
	return s
}

func TestNewSurfaceRejectsInvalid(t *testing.T) {
	field := NewSimplexField(1)
	for _, intensity := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if _, err := NewSurface(field, intensity); err == nil {
			t.Fatalf("intensity %v accepted", intensity)
		}
	}
	if _, err := NewSurface(nil, 0.3); err == nil {
		t.Fatal("nil field accepted")
	}
}

func TestZeroIntensityKeepsPositions(t *testing.T) {
	s := newTestSurface(t, 0)
	mesh := NewIcosphere(2.8, 4)
	out := make([]ShadedVertex, len(mesh.Points))
	s.Evaluate(mesh, 12.5, out)
	for i, v := range out {
		if v.Position != mesh.Points[i].Position {
			t.Fatalf("vertex %d moved: %v -> %v", i, mesh.Points[i].Position, v.Position)
		}
	}
}

func TestEvaluateMatchesShade(t *testing.T) {
	s := newTestSurface(t, DefaultIntensity)
	mesh := NewIcosphere(1, 12)
	out := make([]ShadedVertex, len(mesh.Points))
	s.Evaluate(mesh, 3.25, out)
	for i, p := range mesh.Points {
		if want := s.Shade(p, 3.25); out[i] != want {
			t.Fatalf("vertex %d: got %+v, want %+v", i, out[i], want)
		}
	}
}

func TestPalettePeriodic(t *testing.T) {
	for _, phase := range []float64{-2.3, 0, 0.125, 0.5, 0.99, 7.7} {
		a, b := Palette(phase), Palette(phase+1)
		if math.Abs(a.R-b.R) > 1e-9 || math.Abs(a.G-b.G) > 1e-9 || math.Abs(a.B-b.B) > 1e-9 {
			t.Fatalf("Palette(%v) = %v, Palette(%v) = %v", phase, a, phase+1, b)
		}
	}
	c := Palette(0)
	if math.Abs(c.R-1) > 1e-12 {
		t.Fatalf("Palette(0).R = %v, want 1", c.R)
	}
}

func TestGlowThresholdEdges(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0.5, 0},
		{0.8, 0},
		{0.825, 0.5},
		{0.85, 1},
		{0.95, 1},
	}
	for _, tt := range tests {
		if got := glowThreshold(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("glowThreshold(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSingleVertexEndToEnd(t *testing.T) {
	field := NewSimplexField(1)
	s := newTestSurface(t, 0.3)
	sp := SurfacePoint{Position: r3.Vec{X: 1}, Normal: r3.Vec{X: 1}}

	got := s.Shade(sp, 0)

	p := r3.Vec{X: 2.5}
	want := 0.5*field.Noise3(p) +
		0.25*field.Noise3(r3.Scale(2, p)) +
		0.125*field.Noise3(r3.Scale(4, p)) +
		0.0625*field.Noise3(r3.Scale(8, p))
	if d := s.Sample(sp.Position, 0).OffsetMagnitude; math.Abs(d-want) > 1e-12 {
		t.Fatalf("displacement = %v, want %v", d, want)
	}
	if math.Abs(got.Position.X-(1+want*0.3)) > 1e-12 || got.Position.Y != 0 || got.Position.Z != 0 {
		t.Fatalf("position = %v, want (%v,0,0)", got.Position, 1+want*0.3)
	}
	if r3.Norm(got.Position) > 1.3 {
		t.Fatalf("|position| = %v exceeds envelope", r3.Norm(got.Position))
	}

	phase := fract(((want+0.5)*0.5)*10 + 0)
	diffuse := clamp01(r3.Dot(sp.Normal, lightDir))*0.7 + 0.3
	base := scaleColor(Palette(phase), diffuse)
	glow := s.GlowMask(sp.Position, 0) * 0.6
	if math.Abs(got.Color.R-(base.R+glow)) > 1e-12 || math.Abs(got.Color.B-(base.B+glow*0.9)) > 1e-12 {
		t.Fatalf("color = %v, want base %v + glow %v", got.Color, base, glow)
	}
}

func TestDisplacementEnvelope(t *testing.T) {
	s := newTestSurface(t, DefaultIntensity)
	mesh := NewIcosphere(1, 10)
	out := make([]ShadedVertex, len(mesh.Points))
	for _, tm := range []float64{0, 1.5, 60, 3600} {
		s.Evaluate(mesh, tm, out)
		for i, v := range out {
			if r := r3.Norm(v.Position); r > 1+DefaultIntensity || r < 1-DefaultIntensity {
				t.Fatalf("t=%v vertex %d radius %v outside envelope", tm, i, r)
			}
		}
	}
}
