package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warn "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestColorHandler_PlainLine(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "info", NoColor: true})

	logger.Debug("hidden")
	logger.With("component", "sync").WithGroup("poll").Warn("remote poll failed", "error", "timed out", "failures", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "WRN remote poll failed")
	assert.Contains(t, out, " component=sync")
	assert.Contains(t, out, ` poll.error="timed out"`)
	assert.Contains(t, out, " poll.failures=2")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestColorHandler_Colorized(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColorHandler(&buf, slog.LevelDebug, true))

	logger.Error("config portal timed out")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "config portal timed out")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "debug", Format: "json"})
	logger.Info("link up", "via", "boot")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "link up", rec["msg"])
	assert.Equal(t, "boot", rec["via"])
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "marquee.log")
	logger, closer, err := Setup(Options{File: path, NoColor: true})
	require.NoError(t, err)

	logger.Info("boot", "version", "dev")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INF boot version=dev")
}
