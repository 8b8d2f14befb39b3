package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/loxtest/loxtest/internal/cli"
	"github.com/loxtest/loxtest/internal/harness"
	"github.com/loxtest/loxtest/internal/logging"
	"github.com/loxtest/loxtest/internal/report"
	"github.com/loxtest/loxtest/internal/runner"
	"github.com/loxtest/loxtest/internal/suite"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	registry := suite.Builtin()

	opts, err := cli.Parse(args)
	var usageErr *cli.UsageError
	switch {
	case errors.Is(err, cli.ErrHelp):
		cli.Usage(os.Stdout, "", registry.Names())
		return 0
	case errors.As(err, &usageErr):
		cli.Usage(os.Stderr, usageErr.Message, registry.Names())
		return cli.UsageExitCode
	case err != nil:
		_, _ = fmt.Fprintln(os.Stderr, err)
		return cli.UsageExitCode
	}

	if err := logging.Init(logging.Options{File: opts.LogFile, Verbose: opts.Verbose}); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		return 1
	}

	fs := afero.NewOsFs()

	if opts.SuiteFile != "" {
		loaded, err := suite.LoadFile(fs, opts.SuiteFile)
		if err != nil {
			cli.Usage(os.Stderr, err.Error(), registry.Names())
			return cli.UsageExitCode
		}
		registry = registry.Merge(loaded)
	}

	suites, err := registry.Select(opts.Suite)
	if err != nil {
		cli.Usage(os.Stderr, fmt.Sprintf("Unknown interpreter '%s'", opts.Suite), registry.Names())
		return cli.UsageExitCode
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := report.New(os.Stdout)
	if opts.NoColor {
		reporter.DisableColor()
	}

	log.Debug().
		Str("suite", opts.Suite).
		Str("filter", opts.Harness.Filter).
		Str("interpreter", opts.Harness.Interpreter).
		Strs("arguments", opts.Harness.Arguments).
		Msg("starting test run")

	h := harness.New(fs, runner.NewProcess(), reporter, opts.Harness)
	if !h.RunAll(ctx, suites) {
		return 1
	}
	return 0
}
