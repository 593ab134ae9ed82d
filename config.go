package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from THINKVIZ_* environment variables.
type Config struct {
	LogFile string `env:"LOG_FILE" envDefault:"thinkviz.log"`
	Debug   bool   `env:"DEBUG" envDefault:"false"`

	Noise       string  `env:"NOISE" envDefault:"simplex"`
	Seed        int64   `env:"SEED" envDefault:"0"`
	Intensity   float64 `env:"INTENSITY" envDefault:"0.3"`
	Radius      float64 `env:"RADIUS" envDefault:"2.8"`
	Detail      int     `env:"DETAIL" envDefault:"64"`
	FPS         int     `env:"FPS" envDefault:"60"`
	SkipLanding bool    `env:"SKIP_LANDING" envDefault:"false"`

	CounterInterval   time.Duration `env:"COUNTER_INTERVAL" envDefault:"16ms"`
	SignatureInterval time.Duration `env:"SIGNATURE_INTERVAL" envDefault:"5s"`
	ModelName         string        `env:"MODEL_NAME" envDefault:"Gemini 2.5 Pro"`

	Track       string  `env:"TRACK" envDefault:"assets/thinking.mp3"`
	Volume      float64 `env:"VOLUME" envDefault:"0.7"`
	MPRIS       bool    `env:"MPRIS" envDefault:"true"`
	WaveformPNG string  `env:"WAVEFORM_PNG"`
}

// LoadConfig parses the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "THINKVIZ_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Noise != NoiseSimplex && c.Noise != NoisePerlin {
		errs = append(errs, fmt.Errorf("noise must be %q or %q, got %q", NoiseSimplex, NoisePerlin, c.Noise))
	}
	if c.Intensity < 0 {
		errs = append(errs, fmt.Errorf("intensity must be >= 0, got %v", c.Intensity))
	}
	if c.Radius <= 0 {
		errs = append(errs, fmt.Errorf("radius must be > 0, got %v", c.Radius))
	}
	if c.Detail < 0 || c.Detail > 256 {
		errs = append(errs, fmt.Errorf("detail must be in [0, 256], got %d", c.Detail))
	}
	if c.FPS <= 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps must be in [1, 240], got %d", c.FPS))
	}
	if c.CounterInterval <= 0 || c.SignatureInterval <= 0 {
		errs = append(errs, errors.New("timer intervals must be positive"))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be in [0, 1], got %v", c.Volume))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FrameInterval is the time between render ticks.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
