// Package config loads captionflow settings from an optional .env file, an
// optional YAML file and CAPTIONFLOW_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/captionflow/captionflow/internal/editor"
)

const DefaultPath = "captionflow.yaml"

const (
	EnvAddr        = "CAPTIONFLOW_ADDR"
	EnvFFmpegPath  = "CAPTIONFLOW_FFMPEG_PATH"
	EnvFFprobePath = "CAPTIONFLOW_FFPROBE_PATH"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	ReadingSpeed editor.Limits `yaml:"reading_speed"`

	Waveform struct {
		Ratio         int     `yaml:"ratio"`
		SampleRate    int     `yaml:"sample_rate"`
		PeakThreshold float32 `yaml:"peak_threshold"`
	} `yaml:"waveform"`

	FFmpeg struct {
		FFmpegPath  string `yaml:"ffmpeg_path"`
		FFprobePath string `yaml:"ffprobe_path"`
	} `yaml:"ffmpeg"`
}

func Default() *Config {
	c := &Config{}
	c.Server.Addr = ":8080"
	c.ReadingSpeed = editor.DefaultLimits()
	c.Waveform.Ratio = 100
	c.Waveform.SampleRate = 16000
	c.Waveform.PeakThreshold = 0.1
	return c
}

// Load reads path over the defaults. A missing file, or an empty path whose
// default file is missing, leaves the defaults in place.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // best-effort: load .env if present

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		c.FFmpeg.FFmpegPath = v
	}
	if v := os.Getenv(EnvFFprobePath); v != "" {
		c.FFmpeg.FFprobePath = v
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	case c.Waveform.Ratio <= 0:
		return fmt.Errorf("%w: waveform.ratio must be positive, got %d", ErrInvalid, c.Waveform.Ratio)
	case c.Waveform.SampleRate <= 0:
		return fmt.Errorf("%w: waveform.sample_rate must be positive, got %d", ErrInvalid, c.Waveform.SampleRate)
	case c.ReadingSpeed.MaxCPS <= 0:
		return fmt.Errorf("%w: reading_speed.max_cps must be positive", ErrInvalid)
	case c.ReadingSpeed.MinCPS < 0 || c.ReadingSpeed.MinCPS > c.ReadingSpeed.MaxCPS:
		return fmt.Errorf("%w: reading_speed.min_cps must be between 0 and max_cps", ErrInvalid)
	}
	return nil
}
