package main

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) elapsed() time.Duration { return c.now }

func newTestAnimator(t *testing.T, clock *fakeClock) *SceneAnimator {
	t.Helper()
	s := newTestSurface(t, DefaultIntensity)
	return NewSceneAnimatorWithClock(s, NewIcosphere(2.8, 2), clock.elapsed)
}

func TestRotationIsFrameCoupled(t *testing.T) {
	clock := &fakeClock{}
	a := newTestAnimator(t, clock)

	const frames = 7000
	var f Frame
	for i := 0; i < frames; i++ {
		// irregular frame spacing must not change the rotation
		clock.now += time.Duration(i%5+1) * time.Millisecond
		f = a.Tick()
	}

	wantYaw := math.Mod(yawPerFrame*frames, 2*math.Pi)
	if math.Abs(f.Yaw-wantYaw) > 1e-9 {
		t.Fatalf("yaw = %v, want %v", f.Yaw, wantYaw)
	}
	wantPitch := math.Mod(pitchPerFrame*frames, 2*math.Pi)
	if math.Abs(f.Pitch-wantPitch) > 1e-9 {
		t.Fatalf("pitch = %v, want %v", f.Pitch, wantPitch)
	}
	if f.Number != frames {
		t.Fatalf("frame number = %d, want %d", f.Number, frames)
	}
}

func TestTimeFollowsClock(t *testing.T) {
	clock := &fakeClock{}
	a := newTestAnimator(t, clock)

	clock.now = 1500 * time.Millisecond
	if f := a.Tick(); f.Time != 1.5 {
		t.Fatalf("time = %v, want 1.5", f.Time)
	}

	// a clock that stalls or steps back never rewinds TimeState
	clock.now = time.Second
	if f := a.Tick(); f.Time != 1.5 {
		t.Fatalf("time = %v after backwards clock, want 1.5", f.Time)
	}
}

func TestTickShadesEveryVertex(t *testing.T) {
	clock := &fakeClock{now: 2 * time.Second}
	a := newTestAnimator(t, clock)
	f := a.Tick()
	if len(f.Vertices) != len(f.Mesh.Points) {
		t.Fatalf("%d shaded vertices for %d points", len(f.Vertices), len(f.Mesh.Points))
	}
	want := a.surface.Shade(f.Mesh.Points[0], 2)
	if f.Vertices[0] != want {
		t.Fatalf("vertex 0 = %+v, want %+v", f.Vertices[0], want)
	}
}

func TestWrapAngle(t *testing.T) {
	if got := wrapAngle(-0.5); math.Abs(got-(2*math.Pi-0.5)) > 1e-12 {
		t.Fatalf("wrapAngle(-0.5) = %v", got)
	}
	if got := wrapAngle(2*math.Pi + 0.25); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("wrapAngle(2π+0.25) = %v", got)
	}
}
