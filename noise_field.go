package main

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
)

// NoiseField is a deterministic, stateless 3D scalar field with output in
// roughly [-1, 1].
type NoiseField interface {
	Noise3(p r3.Vec) float64
}

const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
)

type simplexField struct {
	noise opensimplex.Noise
}

// NewSimplexField wraps the normalized OpenSimplex generator.
func NewSimplexField(seed int64) NoiseField {
	return simplexField{noise: opensimplex.NewNormalized(seed)}
}

func (f simplexField) Noise3(p r3.Vec) float64 {
	// NewNormalized maps to [0, 1]
	return f.noise.Eval3(p.X, p.Y, p.Z)*2 - 1
}

type perlinField struct {
	noise *perlin.Perlin
}

// NewPerlinField is a single octave of classic gradient noise.
func NewPerlinField(seed int64) NoiseField {
	return perlinField{noise: perlin.NewPerlin(2, 2, 1, seed)}
}

func (f perlinField) Noise3(p r3.Vec) float64 {
	return f.noise.Noise3D(p.X, p.Y, p.Z)
}

// NewNoiseField picks a backend by name.
func NewNoiseField(kind string, seed int64) (NoiseField, error) {
	switch kind {
	case NoiseSimplex, "":
		return NewSimplexField(seed), nil
	case NoisePerlin:
		return NewPerlinField(seed), nil
	}
	return nil, fmt.Errorf("unknown noise field %q", kind)
}

// FBM3 sums octaves at doubling frequency and halving amplitude, starting at
// amplitude 0.5. Zero octaves is the empty sum.
func FBM3(field NoiseField, p r3.Vec, octaves int) float64 {
	var total float64
	amplitude := 0.5

	for i := 0; i < octaves; i++ {
		total += field.Noise3(p) * amplitude
		p = r3.Scale(2, p)
		amplitude *= 0.5
	}

	return total
}
