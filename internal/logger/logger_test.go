package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, c := New("warn", &buf, FileConfig{})
	defer c.Close()

	l.Info().Msg("hidden")
	l.Warn().Str("code", "MAP.SHORT").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "MAP.SHORT")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledmap.log")
	l, c := New("info", nil, DefaultFileConfig(path))
	l.Info().Int("map_len", 600).Msg("map generated")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"map_len":600`)
	assert.Contains(t, string(b), `"message":"map generated"`)
}
