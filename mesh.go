package main

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SurfacePoint is a read-only vertex of the base mesh.
type SurfacePoint struct {
	Position r3.Vec
	Normal   r3.Vec
}

// Mesh is a closed triangulated sphere. Topology never changes after
// construction.
type Mesh struct {
	Points  []SurfacePoint
	Indices []int32
	Radius  float64
}

// NewIcosphere splits every icosahedron edge into detail+1 segments and
// projects the lattice onto a sphere of the given radius. The result has
// 10*(detail+1)^2 + 2 vertices.
func NewIcosphere(radius float64, detail int) *Mesh {
	if detail < 0 {
		detail = 0
	}
	n := detail + 1

	// Golden ratio
	t := (1.0 + math.Sqrt(5.0)) / 2.0

	corners := []r3.Vec{
		{X: -1, Y: t, Z: 0}, {X: 1, Y: t, Z: 0}, {X: -1, Y: -t, Z: 0}, {X: 1, Y: -t, Z: 0},
		{X: 0, Y: -1, Z: t}, {X: 0, Y: 1, Z: t}, {X: 0, Y: -1, Z: -t}, {X: 0, Y: 1, Z: -t},
		{X: t, Y: 0, Z: -1}, {X: t, Y: 0, Z: 1}, {X: -t, Y: 0, Z: -1}, {X: -t, Y: 0, Z: 1},
	}

	faces := []int32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	mesh := &Mesh{
		Points:  make([]SurfacePoint, 0, 10*n*n+2),
		Indices: make([]int32, 0, 20*n*n*3),
		Radius:  radius,
	}

	// shared edge and corner lattice points are merged by position
	seen := make(map[[3]int64]int32, 10*n*n+2)
	vertex := func(p r3.Vec) int32 {
		unit := r3.Unit(p)
		key := [3]int64{
			int64(math.Round(unit.X * 1e6)),
			int64(math.Round(unit.Y * 1e6)),
			int64(math.Round(unit.Z * 1e6)),
		}
		if idx, ok := seen[key]; ok {
			return idx
		}
		idx := int32(len(mesh.Points))
		mesh.Points = append(mesh.Points, SurfacePoint{
			Position: r3.Scale(radius, unit),
			Normal:   unit,
		})
		seen[key] = idx
		return idx
	}

	for f := 0; f < len(faces); f += 3 {
		a, b, c := corners[faces[f]], corners[faces[f+1]], corners[faces[f+2]]

		// lattice[i][j] is the point with barycentric weights (n-i-j, i, j)/n
		lattice := make([][]int32, n+1)
		for i := 0; i <= n; i++ {
			lattice[i] = make([]int32, n+1-i)
			for j := 0; j <= n-i; j++ {
				p := r3.Add(r3.Add(
					r3.Scale(float64(n-i-j), a),
					r3.Scale(float64(i), b)),
					r3.Scale(float64(j), c))
				lattice[i][j] = vertex(p)
			}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < n-i; j++ {
				mesh.Indices = append(mesh.Indices, lattice[i][j], lattice[i+1][j], lattice[i][j+1])
				if i+j < n-1 {
					mesh.Indices = append(mesh.Indices, lattice[i+1][j], lattice[i+1][j+1], lattice[i][j+1])
				}
			}
		}
	}

	return mesh
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
