package annotation

import (
	"fmt"
	"sort"
)

// Process exit codes an interpreter is expected to report.
const (
	SuccessCode      = 0
	CompileErrorCode = 65 // EX_DATAERR
	RuntimeErrorCode = 70 // EX_SOFTWARE
)

type ExpectedOutput struct {
	Line   int
	Output string
}

type RuntimeError struct {
	Message string
	Line    int
}

// Expectations is everything a single test file asserts about an
// interpreter run.
type Expectations struct {
	Output  []ExpectedOutput
	Errors  map[string]struct{}
	Runtime *RuntimeError
	// Count is the number of directives that contributed an expectation.
	Count int
}

func newExpectations() *Expectations {
	return &Expectations{Errors: make(map[string]struct{})}
}

func (e *Expectations) addOutput(line int, output string) {
	e.Output = append(e.Output, ExpectedOutput{Line: line, Output: output})
	e.Count++
}

func (e *Expectations) addError(line string, message string) {
	e.Errors[FormatError(line, message)] = struct{}{}
	e.Count++
}

func (e *Expectations) setRuntimeError(line int, message string) {
	e.Runtime = &RuntimeError{Message: message, Line: line}
	e.Count++
}

// HasCompileErrors reports whether any compile error is expected.
func (e *Expectations) HasCompileErrors() bool {
	return len(e.Errors) > 0
}

// ExitCode derives the expected process exit code from the annotations alone.
func (e *Expectations) ExitCode() int {
	switch {
	case e.Runtime != nil:
		return RuntimeErrorCode
	case e.HasCompileErrors():
		return CompileErrorCode
	default:
		return SuccessCode
	}
}

// ExpectsError reports whether the compile error, already in
// "[line N] message" form, was annotated.
func (e *Expectations) ExpectsError(formatted string) bool {
	_, ok := e.Errors[formatted]
	return ok
}

// SortedErrors returns the expected compile errors in a stable order.
func (e *Expectations) SortedErrors() []string {
	errs := make([]string, 0, len(e.Errors))
	for err := range e.Errors {
		errs = append(errs, err)
	}
	sort.Strings(errs)
	return errs
}

// FormatError renders a compile error the way interpreters print it after
// the location prefix is normalised. line is kept as written, so "07"
// and "7" are different lines.
func FormatError(line string, message string) string {
	return fmt.Sprintf("[line %s] %s", line, message)
}
