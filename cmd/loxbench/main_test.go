package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxtest/loxtest/internal/cli"
)

func benchFs(t *testing.T, names ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fs, "test/benchmark/"+name+".lox", []byte("print clock();\n"), 0o644))
	}
	return fs
}

func TestParseArgs(t *testing.T) {
	fs := benchFs(t, "fib", "zoo")

	tests := []struct {
		name         string
		args         []string
		interpreters []string
		benchmark    string
		list         bool
	}{
		{name: "single interpreter", args: []string{"clox"}, interpreters: []string{"clox"}},
		{name: "comparison", args: []string{"clox", "jlox"}, interpreters: []string{"clox", "jlox"}},
		{
			name:         "named benchmark",
			args:         []string{"clox", "jlox", "fib", "ignored"},
			interpreters: []string{"clox", "jlox"},
			benchmark:    "fib",
		},
		{name: "list flag", args: []string{"--list"}, list: true},
		{name: "list after interpreters", args: []string{"clox", "--list"}, interpreters: []string{"clox"}, list: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(fs, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.interpreters, opts.interpreters)
			assert.Equal(t, tt.benchmark, opts.benchmark)
			assert.Equal(t, tt.list, opts.list)
		})
	}
}

func TestParseArgsNoInterpreter(t *testing.T) {
	_, err := parseArgs(benchFs(t, "fib"), []string{"fib"})

	var usageErr *cli.UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Equal(t, "Error: No interpreter specified.", usageErr.Message)
}

func TestRunList(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-color", "--list"}, benchFs(t, "zoo", "fib"), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Available benchmarks:\n  fib\n  zoo\n", stdout.String())
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "no arguments", args: nil, message: "No interpreter specified."},
		{name: "unknown interpreter", args: []string{"rlox"}, message: "Unknown interpreter 'rlox'"},
		{name: "unknown flag", args: []string{"--fast", "clox"}, message: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, benchFs(t, "fib"), &stdout, &stderr)

			assert.Equal(t, cli.UsageExitCode, code)
			assert.Contains(t, stderr.String(), tt.message)
			assert.Contains(t, stderr.String(), "Usage: loxbench")
		})
	}
}

func TestRunNoBenchmarks(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-color", "clox"}, afero.NewMemMapFs(), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "No .lox files found in test/benchmark/")
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-h"}, afero.NewMemMapFs(), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Usage: loxbench")
}
