package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/loxtest/loxtest/internal/bench"
	"github.com/loxtest/loxtest/internal/cli"
	"github.com/loxtest/loxtest/internal/harness"
	"github.com/loxtest/loxtest/internal/logging"
	"github.com/loxtest/loxtest/internal/report"
	"github.com/loxtest/loxtest/internal/runner"
	"github.com/loxtest/loxtest/internal/suite"
)

type options struct {
	suiteFile    string
	root         string
	logFile      string
	verbose      bool
	noColor      bool
	interpreters []string
	benchmark    string
	list         bool
}

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	opts, err := parseArgs(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		usage(stdout, report.New(stdout), "")
		return 0
	}
	if err != nil {
		usage(stderr, report.New(stderr), err.Error())
		return cli.UsageExitCode
	}

	if err := logging.Init(logging.Options{Console: stderr, File: opts.logFile, Verbose: opts.verbose}); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error setting up logging: %v\n", err)
		return 1
	}

	reporter := report.New(stdout)
	if opts.noColor {
		reporter.DisableColor()
	}

	if opts.list {
		names, err := bench.List(fs, opts.root)
		if err != nil {
			log.Error().Err(err).Msg("listing benchmarks")
			return 1
		}
		_, _ = fmt.Fprintf(stdout, "%s:\n", reporter.Yellow("Available benchmarks"))
		for _, name := range names {
			_, _ = fmt.Fprintf(stdout, "  %s\n", reporter.Cyan(name))
		}
		return 0
	}

	registry := suite.Builtin()
	if opts.suiteFile != "" {
		loaded, err := suite.LoadFile(fs, opts.suiteFile)
		if err != nil {
			usage(stderr, reporter, err.Error())
			return cli.UsageExitCode
		}
		registry = registry.Merge(loaded)
	}

	suites := make([]*suite.Suite, 0, len(opts.interpreters))
	for _, name := range opts.interpreters {
		s, err := registry.Lookup(name)
		if err != nil {
			usage(stderr, reporter, fmt.Sprintf("Unknown interpreter '%s'", name))
			return cli.UsageExitCode
		}
		suites = append(suites, s)
	}

	benchmarks := []string{opts.benchmark}
	if opts.benchmark == "" {
		benchmarks, err = bench.List(fs, opts.root)
		if err != nil {
			log.Error().Err(err).Msg("listing benchmarks")
			return 1
		}
		if len(benchmarks) == 0 {
			_, _ = fmt.Fprintln(stderr, reporter.Red(
				fmt.Sprintf("No .lox files found in %s/", path.Join(opts.root, bench.Dir))))
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bench.New(runner.NewProcess(), reporter, stdout, opts.root)
	for _, name := range benchmarks {
		b.Header(name)
		if len(suites) > 1 {
			_, err = b.Compare(ctx, suites, name)
		} else {
			_, err = b.Run(ctx, suites[0], name)
		}
		if err != nil {
			log.Error().Err(err).Str("benchmark", name).Msg("benchmark failed")
			return 1
		}
	}
	return 0
}

// parseArgs reads leading flags, then interpreters up to the first
// argument naming an existing benchmark or "--list".
func parseArgs(fs afero.Fs, args []string) (*options, error) {
	opts := &options{}

	flags := flag.NewFlagSet("loxbench", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&opts.suiteFile, "suites", "", "load additional suites from a TOML file")
	flags.StringVar(&opts.root, "root", harness.DefaultRoot, "directory containing the benchmark directory")
	flags.StringVar(&opts.logFile, "log-file", "", "also write diagnostic logs to this file")
	flags.BoolVar(&opts.verbose, "verbose", false, "log every trial")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	flags.BoolVar(&opts.list, "list", false, "list available benchmarks")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if opts.list {
		return opts, nil
	}

	for _, arg := range flags.Args() {
		if arg == "--list" || arg == "-list" {
			opts.list = true
			return opts, nil
		}
		exists, err := afero.Exists(fs, path.Join(opts.root, bench.Dir, arg+".lox"))
		if err != nil {
			return nil, err
		}
		if exists {
			opts.benchmark = arg
			break
		}
		opts.interpreters = append(opts.interpreters, arg)
	}

	if len(opts.interpreters) == 0 {
		return nil, &cli.UsageError{Message: "Error: No interpreter specified."}
	}
	return opts, nil
}

func usage(w io.Writer, r *report.Reporter, message string) {
	var b strings.Builder
	if message != "" {
		b.WriteString(r.Red(message) + "\n")
	}
	b.WriteString(r.Red("Usage: loxbench [flags] [interpreters...] [benchmark | --list]") + "\n")
	fmt.Fprintf(&b, "  %s: 'clox' (%s), 'jlox' (%s)\n",
		r.Purple("Interpreters"), r.Yellow("build/clox.exe"), r.Yellow("java -cp build JLox.lox.Lox"))
	fmt.Fprintf(&b, "  %s:\n", r.Purple("Examples"))
	fmt.Fprintf(&b, "    loxbench clox jlox  # %s\n", r.Cyan("Runs all benchmarks"))
	fmt.Fprintf(&b, "    loxbench --list     # %s\n", r.Cyan("Lists available benchmarks"))
	_, _ = io.WriteString(w, b.String())
}
