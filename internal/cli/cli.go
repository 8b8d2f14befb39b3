// Package cli parses the loxtest command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/loxtest/loxtest/internal/harness"
	"github.com/loxtest/loxtest/internal/suite"
)

// UsageExitCode is the process status for invocation errors (EX_USAGE).
const UsageExitCode = 64

// ErrHelp is returned when help was requested explicitly.
var ErrHelp = flag.ErrHelp

// UsageError is an invocation error. The run is aborted and the usage
// text printed.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// Options is the parsed command line.
type Options struct {
	SuiteFile string
	LogFile   string
	Suite     string
	Harness   harness.Config
	Verbose   bool
	NoColor   bool
}

// Parse reads leading flags with the flag package, then the positional
// tail: "<suite> [filter] [-i path] [-a args...]". "-a" consumes every
// remaining argument.
func Parse(args []string) (*Options, error) {
	opts := &Options{}

	fs := flag.NewFlagSet("loxtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.SuiteFile, "suites", "", "load additional suites from a TOML file")
	fs.StringVar(&opts.Harness.Root, "root", harness.DefaultRoot, "directory containing the test files")
	fs.StringVar(&opts.LogFile, "log-file", "", "also write diagnostic logs to this file")
	fs.BoolVar(&opts.Verbose, "verbose", false, "log every interpreter invocation")
	fs.BoolVar(&opts.NoColor, "no-color", false, "disable colors and the live status line")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, usageErrorf("%v", err)
	}

	tail := fs.Args()
	if len(tail) == 0 {
		return nil, usageErrorf("Missing suite name.")
	}
	opts.Suite = tail[0]

	filterSet := false
	for i := 1; i < len(tail); i++ {
		switch arg := tail[i]; arg {
		case "-i", "--interpreter":
			if i+1 >= len(tail) {
				return nil, usageErrorf("Missing value for --interpreter option.")
			}
			opts.Harness.Interpreter = tail[i+1]
			i++
		case "-a", "--arguments":
			if i+1 >= len(tail) {
				return nil, usageErrorf("Missing value for --arguments option.")
			}
			opts.Harness.Arguments = append([]string(nil), tail[i+1:]...)
			i = len(tail)
		default:
			if !filterSet {
				opts.Harness.Filter = arg
				filterSet = true
			}
		}
	}

	return opts, nil
}

// Usage prints message, if any, followed by the usage text and the
// available suite names.
func Usage(w io.Writer, message string, suites []string) {
	if message != "" {
		_, _ = fmt.Fprintln(w, message)
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprint(w, `Usage: loxtest [flags] <suite> [filter] [options]

Flags:
  --suites <file>     Load additional suites from a TOML file
  --root <dir>        Directory containing the test files (default "test")
  --log-file <file>   Also write diagnostic logs to this file
  --verbose           Log every interpreter invocation
  --no-color          Disable colors and the live status line

Options:
  -i, --interpreter <path>  Path to interpreter
  -a, --arguments <args>    Additional interpreter arguments

`)
	names := append(append([]string(nil), suites...), suite.All)
	_, _ = fmt.Fprintf(w, "Available suites: %s\n", strings.Join(names, ", "))
}
