package main

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const (
	cyclesFloor   = 3141592
	cyclesCeiling = 9999999
	cyclesStepMin = 20000
	cyclesStepMax = 100000

	minutesStart = 7680

	dimensionsFloor   = 32768
	dimensionsCeiling = 33000

	initialSignature = "LVS-42-b3d0...a1f7"
)

// MetricKind identifies one of the cosmetic readouts.
type MetricKind int

const (
	MetricCycles MetricKind = iota
	MetricMinutes
	MetricDimensions
	MetricSignature
)

// MetricUpdate carries a new value for a single readout. Signature updates
// use Text, the counters use Value.
type MetricUpdate struct {
	Kind  MetricKind
	Value int64
	Text  string
}

// Counter is a cosmetic counter that wraps back to its floor once it passes
// its ceiling. A zero ceiling means it never wraps.
type Counter struct {
	value   int64
	floor   int64
	ceiling int64
	step    func() int64
}

func (c *Counter) Tick() int64 {
	c.value += c.step()
	if c.ceiling > 0 && c.value > c.ceiling {
		c.value = c.floor
	}
	return c.value
}

func (c *Counter) Value() int64 { return c.value }

// NewCycleCounter adds [20000, 100000) per tick and resets to 3141592 after
// exceeding 9999999.
func NewCycleCounter(rng *rand.Rand) *Counter {
	return &Counter{
		value:   cyclesFloor,
		floor:   cyclesFloor,
		ceiling: cyclesCeiling,
		step: func() int64 {
			return cyclesStepMin + rng.Int64N(cyclesStepMax-cyclesStepMin)
		},
	}
}

func NewMinutesCounter() *Counter {
	return &Counter{
		value: minutesStart,
		step:  func() int64 { return 1 },
	}
}

// NewDimensionsCounter adds 1 to 3 per tick and resets to 32768 after
// exceeding 33000.
func NewDimensionsCounter(rng *rand.Rand) *Counter {
	return &Counter{
		value:   dimensionsFloor,
		floor:   dimensionsFloor,
		ceiling: dimensionsCeiling,
		step:    func() int64 { return 1 + rng.Int64N(3) },
	}
}

// GenerateSignature returns LVS-42-xxxx...xxxx with random hex digits.
func GenerateSignature(rng *rand.Rand) string {
	const chars = "0123456789abcdef"
	var part1, part2 strings.Builder
	for i := 0; i < 4; i++ {
		part1.WriteByte(chars[rng.IntN(len(chars))])
		part2.WriteByte(chars[rng.IntN(len(chars))])
	}
	return "LVS-42-" + part1.String() + "..." + part2.String()
}

// MetricsSnapshot is the latest value of every readout, owned by the shell.
type MetricsSnapshot struct {
	Cycles     int64
	Minutes    int64
	Dimensions int64
	Signature  string
}

func InitialMetrics() MetricsSnapshot {
	return MetricsSnapshot{
		Cycles:     cyclesFloor,
		Minutes:    minutesStart,
		Dimensions: dimensionsFloor,
		Signature:  initialSignature,
	}
}

// Apply folds an update into the snapshot.
func (s MetricsSnapshot) Apply(u MetricUpdate) MetricsSnapshot {
	switch u.Kind {
	case MetricCycles:
		s.Cycles = u.Value
	case MetricMinutes:
		s.Minutes = u.Value
	case MetricDimensions:
		s.Dimensions = u.Value
	case MetricSignature:
		s.Signature = u.Text
	}
	return s
}

// MetricsSimulator runs one goroutine per counter plus one for the
// signature. None of them share state.
type MetricsSimulator struct {
	CounterInterval   time.Duration
	SignatureInterval time.Duration
	Seed              uint64
}

func NewMetricsSimulator(counterInterval, signatureInterval time.Duration, seed uint64) *MetricsSimulator {
	return &MetricsSimulator{
		CounterInterval:   counterInterval,
		SignatureInterval: signatureInterval,
		Seed:              seed,
	}
}

// Start launches the timers. The returned channel is closed once ctx is
// done and every timer goroutine has exited. Counter updates are dropped
// when the reader falls behind; signatures wait until delivered.
func (ms *MetricsSimulator) Start(ctx context.Context) <-chan MetricUpdate {
	out := make(chan MetricUpdate, 16)
	var wg sync.WaitGroup

	counters := []struct {
		kind    MetricKind
		counter *Counter
	}{
		{MetricCycles, NewCycleCounter(rand.New(rand.NewPCG(ms.Seed, 1)))},
		{MetricMinutes, NewMinutesCounter()},
		{MetricDimensions, NewDimensionsCounter(rand.New(rand.NewPCG(ms.Seed, 2)))},
	}

	for _, c := range counters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			every(ctx, ms.CounterInterval, func() {
				publish(ctx, out, MetricUpdate{Kind: c.kind, Value: c.counter.Tick()})
			})
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewPCG(ms.Seed, 3))
		every(ctx, ms.SignatureInterval, func() {
			deliver(ctx, out, MetricUpdate{Kind: MetricSignature, Text: GenerateSignature(rng)})
		})
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// publish drops the update when the buffer is full. Counters use it: the
// next tick carries a newer value anyway.
func publish(ctx context.Context, out chan<- MetricUpdate, u MetricUpdate) {
	select {
	case out <- u:
	case <-ctx.Done():
	default:
		// skip if the shell is behind
	}
}

// deliver waits for room. A regenerated signature has no successor for
// seconds, so it must not be dropped.
func deliver(ctx context.Context, out chan<- MetricUpdate, u MetricUpdate) {
	select {
	case out <- u:
	case <-ctx.Done():
	}
}
