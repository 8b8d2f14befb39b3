// Package annotation extracts the expectations embedded as comments in Lox
// test files.
package annotation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/afero"
)

// ErrNonTest is returned for files marked "// nontest". Such files are not
// part of any suite.
var ErrNonTest = errors.New("file is not a test")

// ConflictMessage explains why a ConflictError test is not run.
const ConflictMessage = "Cannot expect both compile and runtime errors."

// ConflictError reports a test that expects both compile and runtime errors.
type ConflictError struct {
	Path string
	// Expectations is the number of directives read before rejection.
	Expectations int
}

func (e *ConflictError) Error() string {
	if e.Path == "" {
		return ConflictMessage
	}
	return fmt.Sprintf("%s: %s", e.Path, ConflictMessage)
}

const maxLineSize = 1024 * 1024

type directiveKind int

const (
	directiveNone directiveKind = iota
	directiveNonTest
	directiveOutput
	directiveError
	directiveErrorLine
	directiveRuntimeError
)

type directive struct {
	kind     directiveKind
	text     string
	line     string
	language string
}

// classify returns the first directive on the line, checked in priority
// order.
func classify(line string) directive {
	if nonTestPattern.MatchString(line) {
		return directive{kind: directiveNonTest}
	}
	if match := expectedOutputPattern.FindStringSubmatch(line); match != nil {
		return directive{kind: directiveOutput, text: match[1]}
	}
	if match := expectedErrorPattern.FindStringSubmatch(line); match != nil {
		return directive{kind: directiveError, text: match[1]}
	}
	if match := errorLinePattern.FindStringSubmatch(line); match != nil {
		return directive{kind: directiveErrorLine, language: match[2], line: match[3], text: match[4]}
	}
	if match := expectedRuntimeErrorPattern.FindStringSubmatch(line); match != nil {
		return directive{kind: directiveRuntimeError, text: match[1]}
	}
	return directive{kind: directiveNone}
}

// Parse reads a test file and collects its expectations. language is the
// owning suite's language tag and filters language-scoped error lines.
//
// ErrNonTest is returned as soon as a nontest marker is seen. A file that
// expects both compile and runtime errors yields a *ConflictError.
func Parse(r io.Reader, language string) (*Expectations, error) {
	exp := newExpectations()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		d := classify(scanner.Text())

		switch d.kind {
		case directiveNonTest:
			return nil, ErrNonTest
		case directiveOutput:
			exp.addOutput(lineNum, d.text)
		case directiveError:
			exp.addError(strconv.Itoa(lineNum), d.text)
		case directiveErrorLine:
			// Implementations disagree on where some errors are reported.
			if d.language == "" || d.language == language {
				exp.addError(d.line, d.text)
			}
		case directiveRuntimeError:
			exp.setRuntimeError(lineNum, d.text)
		case directiveNone:
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read test source: %w", err)
	}

	if exp.HasCompileErrors() && exp.Runtime != nil {
		return nil, &ConflictError{Expectations: exp.Count}
	}

	return exp, nil
}

// ParseFile opens path on fsys and parses it with Parse.
func ParseFile(fsys afero.Fs, path string, language string) (*Expectations, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open test file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	exp, err := Parse(file, language)
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		conflict.Path = path
	}
	return exp, err
}
