// Package harness runs a suite of annotated Lox test files against an
// interpreter and tallies the results.
package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/loxtest/loxtest/internal/annotation"
	"github.com/loxtest/loxtest/internal/report"
	"github.com/loxtest/loxtest/internal/runner"
	"github.com/loxtest/loxtest/internal/suite"
	"github.com/loxtest/loxtest/internal/validate"
)

const (
	DefaultRoot   = "test"
	testExtension = ".lox"
	benchmarkDir  = "benchmark"
)

// Config is the run-wide configuration, fixed at startup.
type Config struct {
	// Filter keeps only test paths containing it.
	Filter string
	// Interpreter and Arguments replace every suite's own invocation.
	Interpreter string
	Arguments   []string
	Root        string
}

// Summary is the outcome of one suite run.
type Summary struct {
	report.Counts
	// Errored counts test files that could not be run at all. They are
	// neither passed, failed nor skipped.
	Errored int
}

func (s Summary) Successful() bool {
	return s.Failed == 0
}

type Harness struct {
	fs       afero.Fs
	executor runner.Executor
	reporter *report.Reporter
	clock    clockwork.Clock
	cfg      Config
}

func New(fs afero.Fs, executor runner.Executor, reporter *report.Reporter, cfg Config) *Harness {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	return &Harness{
		fs:       fs,
		executor: executor,
		reporter: reporter,
		clock:    clockwork.NewRealClock(),
		cfg:      cfg,
	}
}

// RunAll runs each suite in turn and reports whether all of them passed.
func (h *Harness) RunAll(ctx context.Context, suites []*suite.Suite) bool {
	if len(suites) == 1 {
		return h.Run(ctx, suites[0]).Successful()
	}

	successful := true
	for _, s := range suites {
		h.reporter.SuiteHeader(s.Name)
		if !h.Run(ctx, s).Successful() {
			successful = false
		}
	}
	return successful
}

// Run executes every test file under the configured root for one suite.
func (h *Harness) Run(ctx context.Context, s *suite.Suite) Summary {
	start := h.clock.Now()
	log.Debug().Str("suite", s.Name).Str("root", h.cfg.Root).Msg("running suite")

	paths, err := h.collect()
	if err != nil {
		log.Error().Err(err).Str("root", h.cfg.Root).Msg("failed to collect test files")
	}

	var summary Summary
	for _, path := range paths {
		h.runTest(ctx, s, path, &summary)
	}

	h.reporter.Summary(summary.Counts)
	log.Debug().
		Str("suite", s.Name).
		Int("passed", summary.Passed).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Dur("elapsed", h.clock.Since(start)).
		Msg("suite finished")

	return summary
}

// collect walks the test root depth-first in lexical order.
func (h *Harness) collect() ([]string, error) {
	var paths []string
	err := afero.Walk(h.fs, h.cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}
		if !info.IsDir() && filepath.Ext(path) == testExtension {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (h *Harness) runTest(ctx context.Context, s *suite.Suite, path string, summary *Summary) {
	key := h.suitePath(path)
	if strings.Contains(key, benchmarkDir) {
		return
	}

	normalized := strings.ReplaceAll(path, "\\", "/")
	if h.cfg.Filter != "" && !strings.Contains(normalized, h.cfg.Filter) {
		return
	}

	h.reporter.Status(summary.Counts, normalized)

	if s.Disposition(key) == suite.Skip {
		summary.Skipped++
		return
	}

	exp, err := annotation.ParseFile(h.fs, path, s.Language)
	var conflict *annotation.ConflictError
	switch {
	case errors.Is(err, annotation.ErrNonTest):
		return
	case errors.As(err, &conflict):
		summary.Errored++
		summary.Expectations += conflict.Expectations
		h.reporter.TestError(normalized, annotation.ConflictMessage)
		return
	case err != nil:
		summary.Errored++
		h.reporter.TestError(normalized, err.Error())
		return
	}

	summary.Expectations += exp.Count
	failures := h.execute(ctx, s, normalized, exp)
	if len(failures) == 0 {
		summary.Passed++
		return
	}

	summary.Failed++
	h.reporter.Failure(normalized, failures)
}

// suitePath spells a walked path the way suite tables key it: relative to
// the root and under "test/", wherever the root actually is.
func (h *Harness) suitePath(path string) string {
	rel, err := filepath.Rel(h.cfg.Root, path)
	if err != nil {
		rel = path
	}
	rel = strings.ReplaceAll(filepath.ToSlash(rel), "\\", "/")
	return DefaultRoot + "/" + rel
}

func (h *Harness) execute(
	ctx context.Context,
	s *suite.Suite,
	path string,
	exp *annotation.Expectations,
) []string {
	cmd := runner.Resolve(s, h.cfg.Interpreter, h.cfg.Arguments, path)
	log.Debug().Str("path", path).Str("command", cmd.String()).Msg("running test")

	out, err := h.executor.Execute(ctx, cmd)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("interpreter did not start")
		return validate.LaunchFailure(err)
	}
	return validate.Validate(exp, out)
}
