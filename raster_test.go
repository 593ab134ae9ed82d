package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRenderNoSurface(t *testing.T) {
	r := NewRasterizer()
	clock := &fakeClock{}
	f := newTestAnimator(t, clock).Tick()
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		if out := r.Render(f, size[0], size[1]); out != "" {
			t.Fatalf("Render with %v returned %q", size, out)
		}
	}
	if out := r.Render(Frame{}, 10, 10); out != "" {
		t.Fatalf("Render of empty frame returned %q", out)
	}
}

func TestRenderDimensions(t *testing.T) {
	r := NewRasterizer()
	clock := &fakeClock{now: time.Second}
	f := newTestAnimator(t, clock).Tick()

	out := r.Render(f, 40, 12)
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("%d rows, want 12", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 40 {
			t.Fatalf("row %d is %d cells wide, want 40", i, w)
		}
	}
}

func TestDrawTriangleDepthTest(t *testing.T) {
	fb := &frameBuffer{}
	fb.reset(8, 8, func(int) colorful.Color { return colorful.Color{} })

	red := colorful.Color{R: 1}
	blue := colorful.Color{B: 1}
	tri := func(depth float64, c colorful.Color) (projected, projected, projected) {
		return projected{x: 0, y: 0, depth: depth, color: c, ok: true},
			projected{x: 8, y: 0, depth: depth, color: c, ok: true},
			projected{x: 0, y: 8, depth: depth, color: c, ok: true}
	}

	drawTriangle(fb, tri(5, red))
	drawTriangle(fb, tri(9, blue)) // behind, must not overwrite

	if got := fb.color[1*8+1]; got != red {
		t.Fatalf("pixel (1,1) = %v, want red", got)
	}
	if d := fb.depth[1*8+1]; math.Abs(d-5) > 1e-9 {
		t.Fatalf("depth (1,1) = %v, want 5", d)
	}
	if !math.IsInf(fb.depth[7*8+7], 1) {
		t.Fatal("pixel outside the triangle was written")
	}
}

func TestRimAccentDirectionalLights(t *testing.T) {
	normal := r3.Vec{X: 1}
	toCamera := r3.Vec{Z: 1} // grazing, full rim

	tests := []struct {
		name  string
		light DirectionalLight
		want  float64
	}{
		{"facing", DirectionalLight{Position: r3.Vec{X: 4}, Intensity: 1}, keyRimStrength},
		{"behind", DirectionalLight{Position: r3.Vec{X: -4}, Intensity: 1}, 0},
		{"off", DirectionalLight{Position: r3.Vec{X: 4}}, 0},
		{"no direction", DirectionalLight{Intensity: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lights := LightRig{Directional: [2]DirectionalLight{tt.light}}
			got := rimAccent(lights, r3.Vec{X: 2.8}, normal, toCamera)
			if math.Abs(got.R-tt.want) > 1e-12 || got.R != got.G || got.G != got.B {
				t.Fatalf("rimAccent = %+v, want grey %v", got, tt.want)
			}
		})
	}
}

func TestDefaultRigKeyLightContributes(t *testing.T) {
	normal := r3.Unit(r3.Vec{X: 1, Y: 1})
	pos := r3.Scale(2.8, normal)
	toCamera := r3.Vec{Z: 1}

	rig := DefaultLightRig()
	with := rimAccent(rig, pos, normal, toCamera)
	rig.Directional = [2]DirectionalLight{}
	without := rimAccent(rig, pos, normal, toCamera)

	if with.R <= without.R {
		t.Fatalf("key light added nothing: %v vs %v", with, without)
	}
}
