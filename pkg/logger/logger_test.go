package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")

	log, err := New(Config{Level: "debug", OutputPath: path, Format: "json"})
	require.NoError(t, err)

	log.Info("invoice stored")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"invoice stored"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNewFallsBackToInfoLevel(t *testing.T) {
	log, err := New(Config{Level: "loud", OutputPath: "stderr", Format: "console"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(-1))
	assert.True(t, log.Core().Enabled(0))
}
