package compare

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pipeline configuration.
type Config struct {
	Capture CaptureConfig `yaml:"capture"`
	Compose ComposeConfig `yaml:"compose"`
	Batch   BatchConfig   `yaml:"batch"`
	Browser BrowserConfig `yaml:"browser"`
	RunLog  RunLogConfig  `yaml:"runlog"`
}

// CaptureConfig tunes the screenshot protocol.
type CaptureConfig struct {
	Width           int           `yaml:"width"`
	MaxHeight       int           `yaml:"max_height"`
	NavTimeout      time.Duration `yaml:"nav_timeout"`
	NavRetries      int           `yaml:"nav_retries"`
	Settle          time.Duration `yaml:"settle"`
	ScrollStep      int           `yaml:"scroll_step"`
	ScrollPause     time.Duration `yaml:"scroll_pause"`
	PostScrollPause time.Duration `yaml:"post_scroll_pause"`
}

// ComposeConfig tunes artifact composition.
type ComposeConfig struct {
	FrameDuration time.Duration `yaml:"frame_duration"`
}

// BatchConfig controls the batch runner.
type BatchConfig struct {
	// Workers is the number of parallel batch workers. Each worker owns
	// its own browser engine. Default: 1.
	Workers int `yaml:"workers"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote          string        `yaml:"remote"`
	Headful         bool          `yaml:"headful"`
	NoStealth       bool          `yaml:"no_stealth"`
	MemoryLimit     int64         `yaml:"memory_limit"`
	RecycleInterval time.Duration `yaml:"recycle_interval"`
}

// RunLogConfig points at the optional SQLite run event log.
type RunLogConfig struct {
	Path string `yaml:"path"` // empty = disabled
}

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compare: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("compare: parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values in place.
func (c *Config) ApplyDefaults() {
	if c.Capture.Width <= 0 {
		c.Capture.Width = 1280
	}
	if c.Capture.MaxHeight <= 0 {
		c.Capture.MaxHeight = 4000
	}
	if c.Capture.NavTimeout <= 0 {
		c.Capture.NavTimeout = 30 * time.Second
	}
	if c.Capture.NavRetries == 0 {
		c.Capture.NavRetries = 1
	}
	if c.Capture.Settle <= 0 {
		c.Capture.Settle = 2 * time.Second
	}
	if c.Capture.ScrollStep <= 0 {
		c.Capture.ScrollStep = 100
	}
	if c.Capture.ScrollPause <= 0 {
		c.Capture.ScrollPause = 50 * time.Millisecond
	}
	if c.Capture.PostScrollPause <= 0 {
		c.Capture.PostScrollPause = time.Second
	}
	if c.Compose.FrameDuration <= 0 {
		c.Compose.FrameDuration = 1500 * time.Millisecond
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = 1
	}
	if c.Browser.MemoryLimit <= 0 {
		c.Browser.MemoryLimit = 1 << 30
	}
	if c.Browser.RecycleInterval <= 0 {
		c.Browser.RecycleInterval = 4 * time.Hour
	}
}
