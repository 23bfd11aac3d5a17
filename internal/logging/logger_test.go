package logging

import (
	"os"
	"path/filepath"
	"testing"

	"reservas/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{}, config.AppConfig{Name: "reservas"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Nil(t, closer)
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := New(config.LoggingConfig{Output: "file", FilePath: path, Format: "json"}, config.AppConfig{Name: "reservas"})
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	logger.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hello"`)
	assert.Contains(t, string(data), `"app":"reservas"`)
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{})
	assert.Error(t, err)
}

func TestNopIsSilent(t *testing.T) {
	logger := Nop()
	// Must not panic and must discard everything.
	logger.Error().Msg("discarded")
}
