package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/mdlayher/waveform"
)

// renderWaveform writes a PNG preview of the track. The waveform decoder
// only reads WAV and FLAC, so the mp3 is decoded and rewrapped as WAV first.
func renderWaveform(trackPath, outputPath string) error {
	f, err := os.Open(trackPath)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	decoded, err := mp3.DecodeWithoutResampling(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", trackPath, err)
	}

	var wav bytes.Buffer
	if err := writeWAV(&wav, decoded, decoded.SampleRate(), decoded.Length()); err != nil {
		return err
	}

	opts := []waveform.OptionsFunc{
		waveform.Resolution(1024),
		waveform.Scale(2, 2),
		waveform.FGColorFunction(waveform.SolidColor(glowColor)),
		waveform.BGColorFunction(waveform.SolidColor(Palette(0.35))),
	}

	wf, err := waveform.New(&wav, opts...)
	if err != nil {
		return fmt.Errorf("failed to create waveform: %w", err)
	}

	vals, err := wf.Compute()
	if err != nil {
		return fmt.Errorf("failed to compute waveform: %w", err)
	}
	img := wf.Draw(vals)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// writeWAV wraps 16-bit little endian stereo PCM in a canonical RIFF header.
func writeWAV(w io.Writer, pcm io.Reader, sampleRate int, size int64) error {
	const (
		channels   = outputChannels
		bitsPerSmp = bytesPerSample * 8
		blockAlign = channels * bytesPerSample
	)
	size -= size % blockAlign

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + size),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(sampleRate * blockAlign),
		uint16(blockAlign),
		uint16(bitsPerSmp),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(size),
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("write wav header: %w", err)
		}
	}

	if _, err := io.CopyN(w, pcm, size); err != nil {
		return fmt.Errorf("copy pcm: %w", err)
	}
	return nil
}
