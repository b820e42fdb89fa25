// Package logging provides config-driven categorized logging for bootseq.
// Each category is a named zap logger sharing one core. Logging is controlled
// by debug_mode in the logging config - when false, every category is a no-op.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bootseq/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Scheduler lifecycle, activations, completion
	CategoryDecode  Category = "decode"  // Per-frame reveal detail
	CategoryPalette Category = "palette" // Palette selection
	CategoryUI      Category = "ui"      // Terminal host
	CategoryCLI     Category = "cli"     // Command handling
)

// Manager hands out category loggers.
type Manager struct {
	cfg    config.LoggingConfig
	root   *zap.Logger
	closer io.Closer

	mu      sync.Mutex
	loggers map[Category]*zap.Logger
}

// New builds a Manager from cfg. With debug_mode off it returns a Manager
// whose loggers discard everything. Otherwise output goes to cfg.File
// (created with its parent directories) or stderr when File is empty.
func New(cfg config.LoggingConfig) (*Manager, error) {
	if !cfg.DebugMode {
		return newManager(cfg, zap.NewNop(), nil), nil
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}
	return newManager(cfg, zap.New(newCore(cfg, w)), closer), nil
}

// NewWithWriter builds an enabled Manager writing to w, regardless of
// debug_mode.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *Manager {
	cfg.DebugMode = true
	return newManager(cfg, zap.New(newCore(cfg, w)), nil)
}

func newManager(cfg config.LoggingConfig, root *zap.Logger, closer io.Closer) *Manager {
	return &Manager{
		cfg:     cfg,
		root:    root,
		closer:  closer,
		loggers: make(map[Category]*zap.Logger),
	}
}

func newCore(cfg config.LoggingConfig, w io.Writer) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "console" {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewCore(enc, zapcore.AddSync(w), ParseLevel(cfg.Level))
}

// ParseLevel maps a config level to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the logger for a category. Disabled categories get a no-op
// logger.
func (m *Manager) Get(c Category) *zap.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.loggers[c]; ok {
		return l
	}
	l := zap.NewNop()
	if m.cfg.IsCategoryEnabled(string(c)) {
		l = m.root.Named(string(c))
	}
	m.loggers[c] = l
	return l
}

// Close flushes buffered entries and closes the log file, if any.
func (m *Manager) Close() error {
	_ = m.root.Sync()
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}
