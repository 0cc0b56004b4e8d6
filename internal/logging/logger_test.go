package logging_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inazon/ai-task-notify/internal/logging"
)

func init() {
	// Disable color output in tests so assertions match plain text.
	color.NoColor = true
}

// captureStderr captures stderr output produced by fn.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestInfoWritesToStderr(t *testing.T) {
	out := captureStderr(t, func() {
		logging.Info("test message")
	})
	assert.Equal(t, "[INFO] test message\n", out)
}

func TestSuccessWritesToStderr(t *testing.T) {
	out := captureStderr(t, func() {
		logging.Success("done")
	})
	assert.Contains(t, out, "[SUCCESS]")
	assert.Contains(t, out, "done")
}

func TestWarnWritesToStderr(t *testing.T) {
	out := captureStderr(t, func() {
		logging.Warn("caution")
	})
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "caution")
}

func TestErrorWritesToStderr(t *testing.T) {
	out := captureStderr(t, func() {
		logging.Error("failure")
	})
	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "failure")
}

func TestPlainHasNoPrefix(t *testing.T) {
	out := captureStderr(t, func() {
		logging.Plain("No valid input data")
	})
	assert.Equal(t, "No valid input data\n", out)
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	logging.SetVerbose(false)
	out := captureStderr(t, func() {
		logging.Debug("hidden")
	})
	assert.Empty(t, out)
	assert.False(t, logging.Verbose())
}

func TestDebugShownWhenVerbose(t *testing.T) {
	logging.SetVerbose(true)
	defer logging.SetVerbose(false)

	out := captureStderr(t, func() {
		logging.Debug("visible")
	})
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "visible")
}
