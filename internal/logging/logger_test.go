package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"bootseq/internal/config"
)

func TestNew_DisabledIsSilent(t *testing.T) {
	m, err := New(config.LoggingConfig{Level: "debug", File: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)

	l := m.Get(CategoryBoot)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
	require.NoError(t, m.Close())
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bootseq.log")
	m, err := New(config.LoggingConfig{DebugMode: true, Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	m.Get(CategoryBoot).Info("boot sequence started")
	m.Get(CategoryDecode).Debug("filtered by level")
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "boot", entry["logger"])
	assert.Equal(t, "boot sequence started", entry["msg"])
}

func TestGet_CategoryFilter(t *testing.T) {
	var buf bytes.Buffer
	m := NewWithWriter(config.LoggingConfig{
		Level:      "debug",
		Format:     "console",
		Categories: map[string]bool{"decode": false},
	}, &buf)

	m.Get(CategoryDecode).Info("hidden")
	m.Get(CategoryUI).Info("shown")
	assert.Same(t, m.Get(CategoryUI), m.Get(CategoryUI))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "ui")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestCategoriesKnownToConfig(t *testing.T) {
	for _, c := range []Category{CategoryBoot, CategoryDecode, CategoryPalette, CategoryUI, CategoryCLI} {
		assert.Contains(t, config.LogCategories, string(c))
	}
}
