package config

import (
	"fmt"
	"slices"
	"strings"
)

// LogCategories names the loggers bootseq hands out, in display order.
var LogCategories = []string{"boot", "decode", "palette", "ui", "cli"}

// LoggingConfig configures logging. Nothing is written unless DebugMode is
// set; Categories then switches individual loggers off by name.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, console
	File       string          `yaml:"file"`   // empty writes to stderr
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// IsCategoryEnabled reports whether the named logger writes anything.
// Categories absent from the map default to on.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	enabled, ok := c.Categories[category]
	return !ok || enabled
}

// Validate checks level, format and category names.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Format)
	}

	var unknown []string
	for name := range c.Categories {
		if !slices.Contains(LogCategories, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("logging.categories: unknown %s (want one of %s)",
			strings.Join(unknown, ", "), strings.Join(LogCategories, ", "))
	}
	return nil
}
