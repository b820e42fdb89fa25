package boot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQueue(t *testing.T) {
	q := DefaultQueue()
	require.Len(t, q, 24)

	assert.Equal(t, "witness_kernel", q[0].Source)
	assert.Equal(t, LevelSystem, q[0].Level)
	assert.Zero(t, q[0].Delay)
	assert.Equal(t, "portal_ready", q[23].Source)
	assert.Equal(t, 4600*time.Millisecond, q[23].Delay)

	warnings, err := ValidateQueue(q)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestParseQueue(t *testing.T) {
	t.Run("defaults level to info", func(t *testing.T) {
		q, err := ParseQueue([]byte(`
messages:
  - text: "hello"
    delay_ms: 250
`))
		require.NoError(t, err)
		require.Len(t, q, 1)
		assert.Equal(t, LevelInfo, q[0].Level)
		assert.Equal(t, 250*time.Millisecond, q[0].Delay)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := ParseQueue([]byte("messages:\n  - text: x\n    level: loud\n"))
		assert.ErrorContains(t, err, `unknown level "loud"`)
	})

	t.Run("negative delay", func(t *testing.T) {
		_, err := ParseQueue([]byte("messages:\n  - text: x\n    delay_ms: -5\n"))
		assert.ErrorContains(t, err, "negative delay_ms")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseQueue([]byte("messages: [unterminated"))
		assert.ErrorContains(t, err, "failed to parse queue")
	})
}

func TestLoadQueue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: short
messages:
  - timestamp: "0.1"
    level: success
    source: kernel
    text: "ready"
`), 0644))

	q, err := LoadQueue(path)
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, BootMessage{Timestamp: "0.1", Level: LevelSuccess, Source: "kernel", Text: "ready"}, q[0])

	_, err = LoadQueue(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateQueue(t *testing.T) {
	_, err := ValidateQueue(nil)
	assert.ErrorIs(t, err, ErrEmptyQueue)

	_, err = ValidateQueue([]BootMessage{{Text: ""}})
	assert.ErrorIs(t, err, ErrMissingText)

	warnings, err := ValidateQueue([]BootMessage{
		{Text: "a", Delay: time.Second},
		{Text: "b", Source: "late", Delay: 0},
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "message 1 (late)")
}
