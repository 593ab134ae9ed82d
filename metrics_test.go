package main

import (
	"context"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"
)

func TestCycleCounterWraparound(t *testing.T) {
	c := NewCycleCounter(rand.New(rand.NewPCG(9, 9)))
	c.value = cyclesCeiling - 10

	if got := c.Tick(); got != cyclesFloor {
		t.Fatalf("after passing the ceiling got %d, want %d", got, cyclesFloor)
	}

	// replay the same stream to learn the next increment
	twin := rand.New(rand.NewPCG(9, 9))
	twin.Int64N(cyclesStepMax - cyclesStepMin)
	next := cyclesStepMin + twin.Int64N(cyclesStepMax-cyclesStepMin)

	if got := c.Tick(); got != cyclesFloor+next {
		t.Fatalf("next value %d, want %d", got, cyclesFloor+next)
	}
}

func TestCycleCounterStepRange(t *testing.T) {
	c := NewCycleCounter(rand.New(rand.NewPCG(1, 1)))
	prev := c.Value()
	for i := 0; i < 1000; i++ {
		v := c.Tick()
		if v == cyclesFloor {
			prev = v
			continue
		}
		if d := v - prev; d < cyclesStepMin || d >= cyclesStepMax {
			t.Fatalf("step %d outside [%d, %d)", d, cyclesStepMin, cyclesStepMax)
		}
		if v > cyclesCeiling {
			t.Fatalf("value %d above ceiling", v)
		}
		prev = v
	}
}

func TestDimensionsCounter(t *testing.T) {
	c := NewDimensionsCounter(rand.New(rand.NewPCG(4, 4)))
	sawWrap := false
	for i := 0; i < 1000; i++ {
		v := c.Tick()
		if v < dimensionsFloor || v > dimensionsCeiling {
			t.Fatalf("dimensions %d out of range", v)
		}
		if v == dimensionsFloor {
			sawWrap = true
		}
	}
	if !sawWrap {
		t.Fatal("dimensions never wrapped in 1000 ticks")
	}
}

func TestMinutesCounter(t *testing.T) {
	c := NewMinutesCounter()
	for i := 1; i <= 5; i++ {
		if got := c.Tick(); got != minutesStart+int64(i) {
			t.Fatalf("tick %d: %d", i, got)
		}
	}
}

func TestGenerateSignatureFormat(t *testing.T) {
	re := regexp.MustCompile(`^LVS-42-[0-9a-f]{4}\.\.\.[0-9a-f]{4}$`)
	rng := rand.New(rand.NewPCG(5, 5))
	for i := 0; i < 50; i++ {
		if sig := GenerateSignature(rng); !re.MatchString(sig) {
			t.Fatalf("bad signature %q", sig)
		}
	}
	if !re.MatchString(initialSignature) {
		t.Fatalf("initial signature %q does not match its own format", initialSignature)
	}
}

func TestSnapshotApply(t *testing.T) {
	s := InitialMetrics()
	s = s.Apply(MetricUpdate{Kind: MetricCycles, Value: 42})
	s = s.Apply(MetricUpdate{Kind: MetricSignature, Text: "LVS-42-0000...ffff"})
	if s.Cycles != 42 || s.Signature != "LVS-42-0000...ffff" || s.Minutes != minutesStart {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestSimulatorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sim := NewMetricsSimulator(time.Millisecond, 5*time.Millisecond, 1)
	updates := sim.Start(ctx)

	seen := map[MetricKind]bool{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 4 {
		select {
		case u := <-updates:
			seen[u.Kind] = true
		case <-deadline:
			t.Fatalf("only saw %v before deadline", seen)
		}
	}

	cancel()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("update channel not closed after cancel")
		}
	}
}

func TestSignaturesSurviveSlowReader(t *testing.T) {
	const seed = 11
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// counters alone outrun this reader and keep the buffer full
	sim := NewMetricsSimulator(time.Millisecond, 20*time.Millisecond, seed)
	updates := sim.Start(ctx)

	twin := rand.New(rand.NewPCG(seed, 3))
	got := 0
	deadline := time.After(5 * time.Second)
	for got < 5 {
		select {
		case u := <-updates:
			time.Sleep(3 * time.Millisecond)
			if u.Kind != MetricSignature {
				continue
			}
			if want := GenerateSignature(twin); u.Text != want {
				t.Fatalf("signature %d = %q, want %q (one was dropped)", got, u.Text, want)
			}
			got++
		case <-deadline:
			t.Fatalf("received %d signatures before deadline", got)
		}
	}
}
