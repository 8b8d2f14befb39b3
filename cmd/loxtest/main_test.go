package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxtest/loxtest/internal/cli"
)

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing suite", args: nil},
		{name: "unknown suite", args: []string{"rlox"}},
		{name: "missing interpreter", args: []string{"clox", "-i"}},
		{name: "missing suite file", args: []string{"--suites", "does-not-exist.toml", "clox"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, cli.UsageExitCode, run(tt.args))
		})
	}
}

func TestRunHelp(t *testing.T) {
	assert.Equal(t, 0, run([]string{"-help"}))
}

func TestRunEmptyRootPasses(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, 0, run([]string{"--root", root, "--no-color", "clox"}))
}

func TestRunFailingInterpreter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root+"/a.lox", "print 1; // expect: 1\n")

	code := run([]string{"--root", root, "--no-color", "clox", "-i", root + "/no-such-interpreter"})
	assert.Equal(t, 1, code)
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
