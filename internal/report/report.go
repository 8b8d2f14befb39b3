// Package report renders harness progress and results on a terminal.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
	Pink   = "\033[95m"
	Reset  = "\033[0m"

	clearLine = "\033[2K\r"
)

// Counts is a snapshot of a suite run's tallies.
type Counts struct {
	Passed       int
	Failed       int
	Skipped      int
	Expectations int
}

// Reporter writes the live status line, failure reports and summaries.
type Reporter struct {
	out   io.Writer
	color bool
	// live redraws a single status line in place.
	live bool
}

// New returns a Reporter writing to out. Colors and the live status line
// are only used when out is a terminal.
func New(out io.Writer) *Reporter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{out: out, color: tty, live: tty}
}

// NewPlain returns a Reporter that never emits escape sequences.
func NewPlain(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// DisableColor turns off colors and the live status line.
func (r *Reporter) DisableColor() {
	r.color = false
	r.live = false
}

func (r *Reporter) paint(color string, s string) string {
	if !r.color {
		return s
	}
	return color + s + Reset
}

func (r *Reporter) Green(s string) string  { return r.paint(Green, s) }
func (r *Reporter) Red(s string) string    { return r.paint(Red, s) }
func (r *Reporter) Yellow(s string) string { return r.paint(Yellow, s) }
func (r *Reporter) Purple(s string) string { return r.paint(Purple, s) }
func (r *Reporter) Cyan(s string) string   { return r.paint(Cyan, s) }

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Status redraws the progress line for the test about to run.
func (r *Reporter) Status(c Counts, path string) {
	if !r.live {
		return
	}
	r.printf("%sPassed: %s Failed: %s Skipped: %s (%s)",
		clearLine,
		r.Green(fmt.Sprint(c.Passed)),
		r.Red(fmt.Sprint(c.Failed)),
		r.Yellow(fmt.Sprint(c.Skipped)),
		r.paint(Gray, path))
}

// SuiteHeader announces a suite when several are run.
func (r *Reporter) SuiteHeader(name string) {
	r.printf("=== %s ===\n", name)
}

// Failure prints the failures of one test file.
func (r *Reporter) Failure(path string, failures []string) {
	r.block("FAIL", path, failures)
}

// TestError prints a test file that could not be run.
func (r *Reporter) TestError(path string, message string) {
	r.block("TEST ERROR", path, []string{message})
}

func (r *Reporter) block(title string, path string, lines []string) {
	if r.live {
		r.printf("\n%s", clearLine)
	}
	r.printf("%s %s\n\n", title, path)
	for _, line := range lines {
		r.printf("     %s\n", r.paint(Pink, line))
	}
	r.printf("\n")
}

// Summary clears the status line and prints the suite totals.
func (r *Reporter) Summary(c Counts) {
	if r.live {
		r.printf("%s", clearLine)
	}
	if c.Failed == 0 {
		r.printf("All %s tests passed (%d expectations).\n", r.Green(fmt.Sprint(c.Passed)), c.Expectations)
		return
	}
	r.printf("%s tests passed. %s tests failed.\n", r.Green(fmt.Sprint(c.Passed)), r.Red(fmt.Sprint(c.Failed)))
}
