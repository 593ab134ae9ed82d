package main

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	yawPerFrame   = 0.001
	pitchPerFrame = 0.0005
)

// Camera is a perspective camera looking at the origin.
type Camera struct {
	Position r3.Vec
	FOV      float64 // vertical, degrees
}

type HemisphereLight struct {
	Sky, Ground colorful.Color
	Intensity   float64
}

type DirectionalLight struct {
	Position  r3.Vec
	Intensity float64
}

type PointLight struct {
	Position  r3.Vec
	Color     colorful.Color
	Intensity float64
}

// LightRig holds the cosmetic fixtures of the scene.
type LightRig struct {
	Ambient     HemisphereLight
	Directional [2]DirectionalLight
	Points      [2]PointLight
}

func DefaultCamera() Camera {
	return Camera{Position: r3.Vec{Z: 8}, FOV: 50}
}

func DefaultLightRig() LightRig {
	red, _ := colorful.Hex("#ff0000")
	blue, _ := colorful.Hex("#0000ff")
	sky, _ := colorful.Hex("#ffffff")
	ground, _ := colorful.Hex("#444444")

	return LightRig{
		Ambient: HemisphereLight{Sky: sky, Ground: ground, Intensity: 1.5},
		Directional: [2]DirectionalLight{
			{Position: r3.Vec{X: 5, Y: 5, Z: 5}, Intensity: 2.0},
			{Position: r3.Vec{X: -5, Y: -5, Z: -2}, Intensity: 0.8},
		},
		Points: [2]PointLight{
			{Position: r3.Vec{X: -10, Y: -10, Z: -10}, Color: red, Intensity: 0.5},
			{Position: r3.Vec{Y: 10, Z: -5}, Color: blue, Intensity: 0.5},
		},
	}
}

// Frame is everything the rasterizer needs for one refresh.
type Frame struct {
	Number   uint64
	Time     float64
	Yaw      float64
	Pitch    float64
	Vertices []ShadedVertex
	Mesh     *Mesh
	Camera   Camera
	Lights   LightRig
}

// SceneAnimator owns TimeState and the mesh rotation. All of its methods
// must be called from the render timeline.
type SceneAnimator struct {
	surface *Surface
	mesh    *Mesh
	camera  Camera
	lights  LightRig

	elapsed func() time.Duration
	time    float64
	yaw     float64
	pitch   float64
	frames  uint64

	shaded []ShadedVertex
}

// NewSceneAnimator starts the animation clock now.
func NewSceneAnimator(surface *Surface, mesh *Mesh) *SceneAnimator {
	start := time.Now()
	return NewSceneAnimatorWithClock(surface, mesh, func() time.Duration {
		return time.Since(start)
	})
}

// NewSceneAnimatorWithClock uses elapsed as the source of TimeState. It must
// never go backwards.
func NewSceneAnimatorWithClock(surface *Surface, mesh *Mesh, elapsed func() time.Duration) *SceneAnimator {
	return &SceneAnimator{
		surface: surface,
		mesh:    mesh,
		camera:  DefaultCamera(),
		lights:  DefaultLightRig(),
		elapsed: elapsed,
		shaded:  make([]ShadedVertex, len(mesh.Points)),
	}
}

// Tick advances one display refresh: time from the clock, rotation by one
// frame step, and a fresh surface evaluation.
func (a *SceneAnimator) Tick() Frame {
	if now := a.elapsed().Seconds(); now > a.time {
		a.time = now
	}

	a.frames++
	a.yaw = wrapAngle(a.yaw + yawPerFrame)
	a.pitch = wrapAngle(a.pitch + pitchPerFrame)

	a.surface.Evaluate(a.mesh, a.time, a.shaded)

	return a.Frame()
}

// Frame returns the latest state without advancing.
func (a *SceneAnimator) Frame() Frame {
	return Frame{
		Number:   a.frames,
		Time:     a.time,
		Yaw:      a.yaw,
		Pitch:    a.pitch,
		Vertices: a.shaded,
		Mesh:     a.mesh,
		Camera:   a.camera,
		Lights:   a.lights,
	}
}

func (a *SceneAnimator) Time() float64 { return a.time }

func wrapAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
