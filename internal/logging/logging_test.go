package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests replace the global logger and must not run in parallel.

func TestInitQuietConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Console: &buf}))

	log.Debug().Msg("hidden detail")
	log.Warn().Msg("visible warning")

	assert.NotContains(t, buf.String(), "hidden detail")
	assert.Contains(t, buf.String(), "visible warning")
}

func TestInitVerboseConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Console: &buf, Verbose: true}))

	log.Debug().Str("suite", "clox").Msg("running suite")

	assert.Contains(t, buf.String(), "running suite")
	assert.Contains(t, buf.String(), "suite=clox")
}

func TestInitLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "loxtest.log")

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Console: &buf, File: path}))

	log.Debug().Msg("only in file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"only in file"`)
	assert.NotContains(t, buf.String(), "only in file")
}
