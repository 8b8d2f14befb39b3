// Package bench times interpreters on the benchmark programs of the test
// tree. Each benchmark prints its own elapsed time, in seconds, as the last
// line of its output.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/loxtest/loxtest/internal/report"
	"github.com/loxtest/loxtest/internal/runner"
	"github.com/loxtest/loxtest/internal/suite"
)

const (
	Dir = "benchmark"

	// DefaultPatience is how many trials without a new best end a
	// single-interpreter run.
	DefaultPatience = 3
	// DefaultRounds is the number of rounds in a comparison.
	DefaultRounds = 10
)

var ErrNoOutput = errors.New("no output from benchmark")

// List returns the benchmark names under root, sorted.
func List(fsys afero.Fs, root string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, path.Join(root, Dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list benchmarks: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".lox" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".lox"))
	}
	sort.Strings(names)
	return names, nil
}

type Bench struct {
	executor runner.Executor
	reporter *report.Reporter
	out      io.Writer
	clock    clockwork.Clock
	root     string
	Patience int
	Rounds   int
}

func New(executor runner.Executor, reporter *report.Reporter, out io.Writer, root string) *Bench {
	return &Bench{
		executor: executor,
		reporter: reporter,
		out:      out,
		clock:    clockwork.NewRealClock(),
		root:     root,
		Patience: DefaultPatience,
		Rounds:   DefaultRounds,
	}
}

func (b *Bench) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(b.out, format, args...)
}

// Header announces a benchmark.
func (b *Bench) Header(name string) {
	b.printf("\n=== %s: %s ===\n", b.reporter.Purple("Benchmark"), name)
}

// Trial runs one benchmark once and returns the elapsed seconds it
// reported.
func (b *Bench) Trial(ctx context.Context, s *suite.Suite, name string) (float64, error) {
	file := path.Join(b.root, Dir, name+".lox")
	cmd := runner.Resolve(s, "", nil, file)

	start := b.clock.Now()
	out, err := b.executor.Execute(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to execute %s: %w", s.Name, err)
	}
	if out.ExitCode != 0 {
		return 0, fmt.Errorf("benchmark failed: %s", out.Stderr)
	}

	last := lastLine(out.Stdout)
	if last == "" {
		return 0, ErrNoOutput
	}
	elapsed, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid elapsed time %q: %w", last, err)
	}

	log.Debug().
		Str("suite", s.Name).
		Str("benchmark", name).
		Float64("reported", elapsed).
		Dur("wall", b.clock.Since(start)).
		Msg("benchmark trial")

	return elapsed, nil
}

// Run repeats trials of one interpreter until Patience consecutive trials
// fail to beat the best time.
func (b *Bench) Run(ctx context.Context, s *suite.Suite, name string) (float64, error) {
	best := math.Inf(1)
	noImprovement := 0
	for trial := 1; noImprovement < b.Patience; trial++ {
		elapsed, err := b.Trial(ctx, s, name)
		if err != nil {
			return 0, err
		}

		if elapsed < best {
			best = elapsed
			noImprovement = 0
		} else {
			noImprovement++
		}

		b.printf("%s #%d %s %s %ss\n",
			b.reporter.Yellow("trial"), trial, s.Name,
			b.reporter.Purple("best"), b.reporter.Green(fmt.Sprintf("%.2f", best)))
	}
	return best, nil
}

// Compare runs Rounds rounds of every interpreter and prints, after each
// round, every interpreter's best time relative to the fastest.
func (b *Bench) Compare(ctx context.Context, suites []*suite.Suite, name string) (map[string]float64, error) {
	best := make(map[string]float64, len(suites))
	for _, s := range suites {
		best[s.Name] = math.Inf(1)
	}

	for round := 1; round <= b.Rounds; round++ {
		for _, s := range suites {
			elapsed, err := b.Trial(ctx, s, name)
			if err != nil {
				return nil, err
			}
			best[s.Name] = math.Min(best[s.Name], elapsed)
		}

		b.printf("%s\n", b.reporter.Yellow(fmt.Sprintf("trial #%d", round)))
		b.printRound(suites, best)
	}
	return best, nil
}

func (b *Bench) printRound(suites []*suite.Suite, best map[string]float64) {
	fastest, slowest := suites[0].Name, suites[0].Name
	for _, s := range suites {
		if best[s.Name] < best[fastest] {
			fastest = s.Name
		}
		if best[s.Name] > best[slowest] {
			slowest = s.Name
		}
	}

	for _, s := range suites {
		t := best[s.Name]
		paint := b.reporter.Red
		var suffix string
		if s.Name == fastest {
			paint = b.reporter.Green
			suffix = fmt.Sprintf("%.4f%% faster", 100*(speedup(t, best[slowest])-1))
		} else {
			suffix = fmt.Sprintf("%.4fx time of best", ratio(t, best[fastest]))
		}
		b.printf(" %-30s %s %ss %s\n",
			s.Name, b.reporter.Purple("best"), paint(fmt.Sprintf("%.4f", t)), paint(suffix))
	}
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// speedup is how much more work per second fast does compared to slow.
func speedup(fast, slow float64) float64 {
	slowWork := 1.0
	if slow > 0 {
		slowWork = 1 / slow
	}
	fastWork := 0.0
	if fast > 0 {
		fastWork = 1 / fast
	}
	return fastWork / slowWork
}

func ratio(t, best float64) float64 {
	if best <= 0 {
		return 0
	}
	return t / best
}
