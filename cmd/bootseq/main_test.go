package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueueYAML = `name: test
messages:
  - timestamp: "0.1"
    level: system
    source: kernel
    text: "ok"
  - timestamp: "0.2"
    level: success
    source: portal
    text: "go go"
    delay_ms: 5
`

func writeQueue(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BOOTSEQ_TICK", "1ms")
	t.Setenv("BOOTSEQ_FRAMES", "1")
	t.Setenv("BOOTSEQ_GAP", "1ms")
	t.Setenv("BOOTSEQ_SETTLE", "1ms")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPlainCommand(t *testing.T) {
	out, err := execute(t, "plain", "--queue", writeQueue(t, testQueueYAML))
	require.NoError(t, err)

	assert.Contains(t, out, "[0.1] kernel: ok\n")
	assert.Contains(t, out, "[0.2] portal: go go\n")
	assert.Contains(t, out, "boot complete (100%)")
}

func TestPlainCommand_InvalidQueue(t *testing.T) {
	_, err := execute(t, "plain", "--queue", writeQueue(t, "messages: []\n"))
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	t.Run("built-in queue", func(t *testing.T) {
		out, err := execute(t, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "built-in queue: 24 messages, 0 warnings")
	})

	t.Run("warns on backwards delays", func(t *testing.T) {
		path := writeQueue(t, `messages:
  - text: "late"
    delay_ms: 100
  - text: "early"
    delay_ms: 10
`)
		out, err := execute(t, "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "warning:")
		assert.Contains(t, out, "2 messages, 1 warnings")
	})

	t.Run("missing text", func(t *testing.T) {
		path := writeQueue(t, `messages:
  - source: kernel
`)
		_, err := execute(t, "validate", path)
		assert.Error(t, err)
	})
}

func TestPaletteCommand(t *testing.T) {
	out, err := execute(t, "palette", "Sacred", "geometry")
	require.NoError(t, err)
	assert.Contains(t, out, "sacred+geometric")

	out, err = execute(t, "palette", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "cosmic+mystical")

	_, err = execute(t, "palette")
	assert.Error(t, err)
}
