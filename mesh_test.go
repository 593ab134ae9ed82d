package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIcosphereCounts(t *testing.T) {
	for _, detail := range []int{0, 1, 3, 8} {
		m := NewIcosphere(1, detail)
		n := detail + 1
		if got, want := len(m.Points), 10*n*n+2; got != want {
			t.Fatalf("detail %d: %d vertices, want %d", detail, got, want)
		}
		if got, want := m.TriangleCount(), 20*n*n; got != want {
			t.Fatalf("detail %d: %d triangles, want %d", detail, got, want)
		}
	}
}

func TestIcospherePointsOnSphere(t *testing.T) {
	m := NewIcosphere(2.8, 6)
	for i, p := range m.Points {
		if d := math.Abs(r3.Norm(p.Position) - 2.8); d > 1e-9 {
			t.Fatalf("point %d off sphere by %v", i, d)
		}
		if d := math.Abs(r3.Norm(p.Normal) - 1); d > 1e-9 {
			t.Fatalf("normal %d not unit: %v", i, r3.Norm(p.Normal))
		}
		if r3.Dot(r3.Unit(p.Position), p.Normal) < 1-1e-9 {
			t.Fatalf("normal %d not radial", i)
		}
	}
	for _, idx := range m.Indices {
		if idx < 0 || int(idx) >= len(m.Points) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}
