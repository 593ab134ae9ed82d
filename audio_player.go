package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
)

const (
	outputChannels  = 2
	framesPerBuffer = 1024
	bytesPerSample  = 2 // 16-bit little endian

	tapQueue = 8
	// queued taps plus the one the meter is reading, plus the one being filled
	tapRing = tapQueue + 2
)

// AudioStatus is a non-blocking view of the playback state. Err is set when
// loading or playback failed; the visualization keeps running regardless.
type AudioStatus struct {
	Loaded  bool
	Playing bool
	Muted   bool
	Volume  float64
	Err     string
}

// AudioPlayer is a single looped track.
type AudioPlayer interface {
	Load(path string) error
	Play() error
	Pause()
	SetMuted(muted bool)
	SetVolume(volume float64)
	Status() AudioStatus
	Close() error
}

// gainReader turns interleaved 16-bit stereo PCM into float32 samples,
// applying volume and mute at read time.
type gainReader struct {
	src    io.Reader
	raw    []byte
	muted  atomic.Bool
	volume atomic.Uint64 // math.Float64bits
}

func newGainReader(src io.Reader, volume float64) *gainReader {
	g := &gainReader{src: src}
	g.setVolume(volume)
	return g
}

func (g *gainReader) setVolume(v float64) {
	g.volume.Store(math.Float64bits(math.Max(0, math.Min(1, v))))
}

func (g *gainReader) gain() float32 {
	if g.muted.Load() {
		return 0
	}
	return float32(math.Float64frombits(g.volume.Load()))
}

// fill writes len(out) samples. A short or failed read is padded with
// silence.
func (g *gainReader) fill(out []float32) error {
	need := len(out) * bytesPerSample
	if cap(g.raw) < need {
		g.raw = make([]byte, need)
	}
	raw := g.raw[:need]

	n, err := io.ReadFull(g.src, raw)
	n -= n % bytesPerSample

	gain := g.gain()
	for i := 0; i < n/bytesPerSample; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:]))
		out[i] = float32(s) / 32768 * gain
	}
	for i := n / bytesPerSample; i < len(out); i++ {
		out[i] = 0
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}

// PortAudioPlayer decodes an mp3 into an endless loop and plays it through
// one PortAudio output stream.
type PortAudioPlayer struct {
	mu          sync.Mutex
	reader      *gainReader
	sampleRate  int
	stream      *portaudio.Stream
	initialized bool
	playing     bool
	loaded      bool
	lastErr     string
	volume      float64

	taps    chan []float32
	tapBufs [tapRing][]float32
	tapNext int
}

func NewPortAudioPlayer(volume float64) *PortAudioPlayer {
	return &PortAudioPlayer{
		volume: math.Max(0, math.Min(1, volume)),
		taps:   make(chan []float32, tapQueue),
	}
}

func (p *PortAudioPlayer) fail(err error) error {
	p.lastErr = err.Error()
	LogError("audio: %v", err)
	return err
}

// Load decodes the whole track up front.
func (p *PortAudioPlayer) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		return p.fail(errors.New("load after playback started"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p.fail(fmt.Errorf("failed to open audio file: %w", err))
	}

	decoded, err := mp3.DecodeWithoutResampling(bytes.NewReader(data))
	if err != nil {
		return p.fail(fmt.Errorf("failed to decode %s: %w", path, err))
	}

	loop := audio.NewInfiniteLoop(decoded, decoded.Length())
	p.reader = newGainReader(loop, p.volume)
	p.sampleRate = decoded.SampleRate()
	p.loaded = true
	p.lastErr = ""

	LogInfo("audio: loaded %s (%d Hz, %d bytes)", path, p.sampleRate, decoded.Length())
	return nil
}

// Play starts the stream on first use and resumes it afterwards. Calling it
// while playing does nothing.
func (p *PortAudioPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return p.fail(errors.New("play before a track was loaded"))
	}
	if p.playing {
		return nil
	}

	if p.stream == nil {
		if err := portaudio.Initialize(); err != nil {
			return p.fail(fmt.Errorf("portaudio init: %w", err))
		}
		p.initialized = true

		if device, err := portaudio.DefaultOutputDevice(); err != nil {
			LogWarn("audio: no default output device: %v", err)
		} else {
			LogInfo("audio: output device %s", device.Name)
		}

		stream, err := portaudio.OpenDefaultStream(0, outputChannels, float64(p.sampleRate), framesPerBuffer, p.callback)
		if err != nil {
			return p.fail(fmt.Errorf("open output stream: %w", err))
		}
		p.stream = stream
	}

	if err := p.stream.Start(); err != nil {
		return p.fail(fmt.Errorf("start output stream: %w", err))
	}
	p.playing = true
	p.lastErr = ""
	return nil
}

func (p *PortAudioPlayer) callback(out []float32) {
	if err := p.reader.fill(out); err != nil && !errors.Is(err, io.EOF) {
		LogError("audio: stream read error: %v", err)
	}

	p.tap(out)
}

// tap sends a mono copy of out to the level meter. Buffers come from a ring
// that is only advanced on a successful send, so no slot is reused while the
// meter can still hold it. Runs on the audio thread and does not allocate
// once the ring is warm.
func (p *PortAudioPlayer) tap(out []float32) {
	n := len(out) / outputChannels
	mono := p.tapBufs[p.tapNext]
	if cap(mono) < n {
		mono = make([]float32, n)
		p.tapBufs[p.tapNext] = mono
	}
	mono = mono[:n]

	for i := range mono {
		mono[i] = (out[i*2] + out[i*2+1]) * 0.5
	}
	select {
	case p.taps <- mono:
		p.tapNext = (p.tapNext + 1) % tapRing
	default:
		// skip if the meter is behind
	}
}

func (p *PortAudioPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.stream == nil {
		return
	}
	if err := p.stream.Stop(); err != nil {
		p.fail(fmt.Errorf("stop output stream: %w", err))
	}
	p.playing = false
}

func (p *PortAudioPlayer) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reader != nil {
		p.reader.muted.Store(muted)
	}
}

func (p *PortAudioPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = math.Max(0, math.Min(1, volume))
	if p.reader != nil {
		p.reader.setVolume(p.volume)
	}
}

func (p *PortAudioPlayer) Status() AudioStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return AudioStatus{
		Loaded:  p.loaded,
		Playing: p.playing,
		Muted:   p.reader != nil && p.reader.muted.Load(),
		Volume:  p.volume,
		Err:     p.lastErr,
	}
}

// Taps delivers mono copies of what was played, for metering.
func (p *PortAudioPlayer) Taps() <-chan []float32 { return p.taps }

func (p *PortAudioPlayer) SampleRate() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sampleRate
}

// Close stops playback and releases PortAudio.
func (p *PortAudioPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.stream != nil {
		if p.playing {
			errs = append(errs, p.stream.Stop())
		}
		errs = append(errs, p.stream.Close())
		p.stream = nil
	}
	p.playing = false
	if p.initialized {
		errs = append(errs, portaudio.Terminate())
		p.initialized = false
	}
	return errors.Join(errs...)
}
