// Package config loads bootseq configuration from YAML with environment
// overrides. Durations are written as Go duration strings ("35ms", "0.5s").
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"bootseq/internal/boot"
	"bootseq/internal/decode"
)

// DefaultConfigPath is where the CLI looks when --config is not given.
const DefaultConfigPath = "bootseq.yaml"

// Config holds all bootseq configuration.
type Config struct {
	Name    string        `yaml:"name"`
	Timing  TimingConfig  `yaml:"timing"`
	Queue   QueueConfig   `yaml:"queue"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// TimingConfig paces the reveal.
type TimingConfig struct {
	Tick          string `yaml:"tick"`
	FramesPerChar int    `yaml:"frames_per_char"`
	// CharPause defaults to a quarter of Tick when empty.
	CharPause  string `yaml:"char_pause,omitempty"`
	MessageGap string `yaml:"message_gap"`
	Settle     string `yaml:"settle"`
}

// QueueConfig selects the message queue.
type QueueConfig struct {
	// Path to a YAML queue; empty uses the built-in queue.
	Path string `yaml:"path,omitempty"`
}

// Preview modes for the not-yet-decoded tail.
const (
	PreviewRandom   = "random"
	PreviewVerbatim = "verbatim"
	PreviewNone     = "none"
)

// UIConfig controls the terminal host.
type UIConfig struct {
	Preview       string `yaml:"preview"`
	ShowDecodeBar bool   `yaml:"show_decode_bar"`
	AltScreen     bool   `yaml:"alt_screen"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "WitnessOS v2.5.0 - Consciousness Exploration Kernel",
		Timing: TimingConfig{
			Tick:          "35ms",
			FramesPerChar: decode.DefaultFramesPerChar,
			MessageGap:    "50ms",
			Settle:        "500ms",
		},
		UI: UIConfig{
			Preview:       PreviewRandom,
			ShowDecodeBar: true,
			AltScreen:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(".bootseq", "bootseq.log"),
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies BOOTSEQ_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BOOTSEQ_TICK"); v != "" {
		c.Timing.Tick = v
	}
	if v := os.Getenv("BOOTSEQ_FRAMES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Timing.FramesPerChar = n
		}
	}
	if v := os.Getenv("BOOTSEQ_GAP"); v != "" {
		c.Timing.MessageGap = v
	}
	if v := os.Getenv("BOOTSEQ_SETTLE"); v != "" {
		c.Timing.Settle = v
	}
	if v := os.Getenv("BOOTSEQ_QUEUE"); v != "" {
		c.Queue.Path = v
	}
	if v := os.Getenv("BOOTSEQ_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
		c.Logging.DebugMode = true
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	durations := []struct {
		name  string
		value string
	}{
		{"timing.tick", c.Timing.Tick},
		{"timing.char_pause", c.Timing.CharPause},
		{"timing.message_gap", c.Timing.MessageGap},
		{"timing.settle", c.Timing.Settle},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		if v < 0 {
			return fmt.Errorf("%s: must not be negative, got %s", d.name, d.value)
		}
	}
	if c.Timing.Tick != "" {
		if tick, _ := time.ParseDuration(c.Timing.Tick); tick == 0 {
			return errors.New("timing.tick: must be positive")
		}
	}
	if c.Timing.FramesPerChar < 0 {
		return fmt.Errorf("timing.frames_per_char: must not be negative, got %d", c.Timing.FramesPerChar)
	}
	switch c.UI.Preview {
	case "", PreviewRandom, PreviewVerbatim, PreviewNone:
	default:
		return fmt.Errorf("ui.preview: unknown mode %q", c.UI.Preview)
	}
	return c.Logging.Validate()
}

// GetTick returns the tick interval, falling back to the default.
func (c *Config) GetTick() time.Duration {
	return parseDuration(c.Timing.Tick, decode.DefaultTick)
}

// GetCharPause returns the inter-character pause; a quarter tick by default.
func (c *Config) GetCharPause() time.Duration {
	return parseDuration(c.Timing.CharPause, c.GetTick()/4)
}

// GetMessageGap returns the pause between a reveal and the next activation.
func (c *Config) GetMessageGap() time.Duration {
	return parseDuration(c.Timing.MessageGap, boot.DefaultMessageGap)
}

// GetSettle returns the pause before completion.
func (c *Config) GetSettle() time.Duration {
	return parseDuration(c.Timing.Settle, boot.DefaultSettle)
}

// EngineTiming converts the timing section for boot.NewEngine.
func (c *Config) EngineTiming() boot.Timing {
	return boot.Timing{
		Timing: decode.Timing{
			Tick:          c.GetTick(),
			FramesPerChar: c.Timing.FramesPerChar,
			CharPause:     c.GetCharPause(),
		},
		MessageGap: c.GetMessageGap(),
		Settle:     c.GetSettle(),
	}
}

// Previewer returns the preview renderer selected by ui.preview, or nil for
// the engine's random default.
func (c *Config) Previewer() decode.Previewer {
	switch c.UI.Preview {
	case PreviewVerbatim:
		return decode.VerbatimPreview{}
	case PreviewNone:
		return decode.NoPreview{}
	}
	return nil
}

// LoadQueue returns the configured queue, or the built-in one.
func (c *Config) LoadQueue() ([]boot.BootMessage, error) {
	if c.Queue.Path == "" {
		return boot.DefaultQueue(), nil
	}
	return boot.LoadQueue(c.Queue.Path)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
