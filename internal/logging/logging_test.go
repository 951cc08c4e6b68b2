package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lens.log")
	logger, closer, err := New(path, "info")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("query failed", "view", "attention")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"view":"attention"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewWithoutPathDiscards(t *testing.T) {
	logger, closer, err := New("", "debug")
	require.NoError(t, err)
	logger.Info("dropped")
	assert.NoError(t, closer.Close())
}
