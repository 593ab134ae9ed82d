package main

import (
	"context"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const meterWindow = 2048

type FrequencyBand struct {
	Name    string
	MinFreq float64
	MaxFreq float64
}

var bands = [9]FrequencyBand{
	{Name: "Sub-Bass", MinFreq: 20, MaxFreq: 60},
	{Name: "Bass", MinFreq: 60, MaxFreq: 250},
	{Name: "Low Mids", MinFreq: 250, MaxFreq: 500},
	{Name: "Low-Mid", MinFreq: 500, MaxFreq: 1000},
	{Name: "Mids", MinFreq: 1000, MaxFreq: 2000},
	{Name: "Upper Mids", MinFreq: 2000, MaxFreq: 4000},
	{Name: "Presence", MinFreq: 4000, MaxFreq: 6000},
	{Name: "Highs", MinFreq: 6000, MaxFreq: 12000},
	{Name: "Air", MinFreq: 12000, MaxFreq: 20000},
}

// AudioLevels drives the indicator next to the mute control.
type AudioLevels struct {
	Bands [9]float64
	Level float64 // 0.0 - 1.0
}

type AudioProcessor struct {
	sampleRate int
	fft        *fourier.FFT
	window     []float64
	pending    []float64
}

func NewAudioProcessor(sampleRate, bufferSize int) *AudioProcessor {
	// Hann scales in place, so start from ones
	coeffs := make([]float64, bufferSize)
	for i := range coeffs {
		coeffs[i] = 1
	}

	return &AudioProcessor{
		sampleRate: sampleRate,
		fft:        fourier.NewFFT(bufferSize),
		window:     window.Hann(coeffs),
		pending:    make([]float64, 0, bufferSize),
	}
}

// Push buffers played samples and reports levels each time a full window
// has been collected.
func (ap *AudioProcessor) Push(samples []float32) (AudioLevels, bool) {
	var (
		levels AudioLevels
		ready  bool
	)
	size := len(ap.window)
	for _, s := range samples {
		ap.pending = append(ap.pending, float64(s))
		if len(ap.pending) == size {
			levels = ap.ProcessBuffer(ap.pending)
			ready = true
			ap.pending = ap.pending[:0]
		}
	}
	return levels, ready
}

// ProcessBuffer windows one full buffer, runs the FFT and sums band energy.
func (ap *AudioProcessor) ProcessBuffer(buffer []float64) AudioLevels {
	windowed := make([]float64, len(buffer))
	for i, sample := range buffer {
		windowed[i] = sample * ap.window[i]
	}

	coeffs := ap.fft.Coefficients(nil, windowed)
	binWidth := float64(ap.sampleRate) / float64(len(buffer))

	var energies [9]float64
	var total float64
	for i, band := range bands {
		minBin := int(band.MinFreq / binWidth)
		maxBin := int(band.MaxFreq / binWidth)
		if maxBin <= minBin {
			maxBin = minBin + 1
		}

		var sum float64
		for j := minBin; j < maxBin && j < len(coeffs); j++ {
			magnitude := cmplx.Abs(coeffs[j])
			sum += magnitude * magnitude
		}

		energies[i] = math.Sqrt(sum / float64(maxBin-minBin))
		total += energies[i]
	}

	return AudioLevels{Bands: energies, Level: calculateActivity(energies[:], total)}
}

// calculateActivity blends spectral spread with overall loudness.
func calculateActivity(energies []float64, total float64) float64 {
	if total < 0.0001 {
		return 0.0
	}

	mean := 1.0 / float64(len(energies))
	variance := 0.0
	for _, e := range energies {
		diff := e/total - mean
		variance += diff * diff
	}

	energyFactor := math.Tanh(total * 10)
	activity := (variance*5.0)*0.6 + energyFactor*0.4

	return math.Max(0, math.Min(1, activity))
}

// RunMeter consumes taps until ctx is done, then closes the returned channel.
func RunMeter(ctx context.Context, sampleRate int, taps <-chan []float32) <-chan AudioLevels {
	out := make(chan AudioLevels, 4)
	processor := NewAudioProcessor(sampleRate, meterWindow)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case buf, ok := <-taps:
				if !ok {
					return
				}
				levels, ready := processor.Push(buf)
				if !ready {
					continue
				}
				select {
				case out <- levels:
				default:
					// skip if TUI is behind
				}
			}
		}
	}()

	return out
}
