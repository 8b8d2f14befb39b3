package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxtest/loxtest/internal/harness"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "suite only",
			args: []string{"clox"},
			want: Options{Suite: "clox", Harness: harness.Config{Root: "test"}},
		},
		{
			name: "suite and filter",
			args: []string{"jlox", "test/closure"},
			want: Options{Suite: "jlox", Harness: harness.Config{Root: "test", Filter: "test/closure"}},
		},
		{
			name: "interpreter override",
			args: []string{"clox", "number", "-i", "./mylox"},
			want: Options{Suite: "clox", Harness: harness.Config{
				Root:        "test",
				Filter:      "number",
				Interpreter: "./mylox",
			}},
		},
		{
			name: "arguments consume the rest",
			args: []string{"all", "--interpreter", "java", "-a", "-jar", "lox.jar", "-i", "x"},
			want: Options{Suite: "all", Harness: harness.Config{
				Root:        "test",
				Interpreter: "java",
				Arguments:   []string{"-jar", "lox.jar", "-i", "x"},
			}},
		},
		{
			name: "options before filter",
			args: []string{"clox", "-i", "./mylox", "string"},
			want: Options{Suite: "clox", Harness: harness.Config{
				Root:        "test",
				Filter:      "string",
				Interpreter: "./mylox",
			}},
		},
		{
			name: "leading flags",
			args: []string{"--suites", "suites.toml", "--root", "conformance", "--verbose", "--no-color", "--log-file", "run.log", "golox"},
			want: Options{
				Suite:     "golox",
				SuiteFile: "suites.toml",
				LogFile:   "run.log",
				Verbose:   true,
				NoColor:   true,
				Harness:   harness.Config{Root: "conformance"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "no suite", args: nil, message: "Missing suite name."},
		{name: "interpreter without value", args: []string{"clox", "-i"}, message: "Missing value for --interpreter option."},
		{name: "arguments without value", args: []string{"clox", "--arguments"}, message: "Missing value for --arguments option."},
		{name: "unknown flag", args: []string{"--bogus", "clox"}, message: "flag provided but not defined: -bogus"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.args)
			var usageErr *UsageError
			require.ErrorAs(t, err, &usageErr)
			assert.Equal(t, tt.message, usageErr.Message)
		})
	}
}

func TestParseHelp(t *testing.T) {
	t.Parallel()

	_, err := Parse([]string{"-h"})
	require.ErrorIs(t, err, ErrHelp)
}

func TestUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Usage(&buf, "Unknown interpreter 'rlox'", []string{"clox", "jlox"})

	out := buf.String()
	assert.Contains(t, out, "Unknown interpreter 'rlox'\n\nUsage: loxtest")
	assert.Contains(t, out, "-i, --interpreter <path>")
	assert.Contains(t, out, "Available suites: clox, jlox, all\n")
}
