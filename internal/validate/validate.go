// Package validate reconciles an interpreter run with a test file's
// expectations.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/loxtest/loxtest/internal/annotation"
	"github.com/loxtest/loxtest/internal/runner"
)

var (
	syntaxErrorPattern = regexp.MustCompile(`\[.*line (\d+)\] (Error.+)`)
	stackTracePattern  = regexp.MustCompile(`\[line (\d+)\]`)
)

// maxReported caps how many stderr lines a single check prints.
const maxReported = 10

type validation struct {
	exp      *annotation.Expectations
	failures []string
}

// Validate compares an interpreter run against exp and returns one
// message per discrepancy. An empty result means the test passed.
func Validate(exp *annotation.Expectations, out *runner.Output) []string {
	v := &validation{exp: exp}

	stdoutLines := splitLines(out.Stdout)
	stderrLines := splitLines(out.Stderr)

	if exp.Runtime != nil {
		v.validateRuntimeError(stderrLines)
	} else {
		v.validateCompileErrors(stderrLines)
	}
	v.validateExitCode(out.ExitCode, stderrLines)
	v.validateOutput(stdoutLines)

	return v.failures
}

// LaunchFailure is the result of a test whose interpreter never started.
func LaunchFailure(err error) []string {
	return []string{fmt.Sprintf("Failed to run interpreter: %v", err)}
}

func (v *validation) validateRuntimeError(lines []string) {
	expected := v.exp.Runtime

	if len(lines) < 2 {
		v.fail(fmt.Sprintf("Expected runtime error '%s' and got none.", expected.Message))
		return
	}

	if lines[0] != expected.Message {
		v.fail(fmt.Sprintf("Expected runtime error '%s' and got:", expected.Message), lines[0])
	}

	stackLine, found := 0, false
	for _, line := range lines[1:] {
		if match := stackTracePattern.FindStringSubmatch(line); match != nil {
			stackLine, _ = strconv.Atoi(match[1])
			found = true
			break
		}
	}

	switch {
	case !found:
		v.fail("Expected stack trace and got:", lines[1:]...)
	case stackLine != expected.Line:
		v.fail(fmt.Sprintf("Expected runtime error on line %d but was on line %d.", expected.Line, stackLine))
	}
}

func (v *validation) validateCompileErrors(lines []string) {
	found := make(map[string]struct{})
	unexpected := 0

	for _, line := range lines {
		match := syntaxErrorPattern.FindStringSubmatch(line)
		switch {
		case match != nil:
			err := annotation.FormatError(match[1], match[2])
			if v.exp.ExpectsError(err) {
				found[err] = struct{}{}
				continue
			}
			if unexpected < maxReported {
				v.fail("Unexpected error:", line)
			}
			unexpected++
		case line != "":
			if unexpected < maxReported {
				v.fail("Unexpected output on stderr:", line)
			}
			unexpected++
		}
	}

	if unexpected > maxReported {
		v.fail(fmt.Sprintf("(truncated %d more...)", unexpected-maxReported))
	}

	for _, err := range v.exp.SortedErrors() {
		if _, ok := found[err]; !ok {
			v.fail("Missing expected error: " + err)
		}
	}
}

func (v *validation) validateExitCode(exitCode int, errorLines []string) {
	expected := v.exp.ExitCode()
	if exitCode == expected {
		return
	}

	display := errorLines
	if len(errorLines) > maxReported {
		display = append(errorLines[:maxReported:maxReported], "(truncated...)")
	}

	v.fail(fmt.Sprintf("Expected return code %d and got %d. Stderr:", expected, exitCode), display...)
}

func (v *validation) validateOutput(lines []string) {
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	expected := v.exp.Output
	index := 0
	for ; index < len(lines) && index < len(expected); index++ {
		if lines[index] != expected[index].Output {
			v.fail(fmt.Sprintf("Expected output '%s' on line %d and got '%s'.",
				expected[index].Output, expected[index].Line, lines[index]))
		}
	}

	for ; index < len(expected); index++ {
		v.fail(fmt.Sprintf("Missing expected output '%s' on line %d.",
			expected[index].Output, expected[index].Line))
	}

	if index < len(lines) {
		v.fail(fmt.Sprintf("Got output '%s' when none was expected.", lines[index]))
	}
}

func (v *validation) fail(message string, lines ...string) {
	v.failures = append(v.failures, message)
	v.failures = append(v.failures, lines...)
}

// splitLines splits process output into lines. A terminating newline does
// not start an empty line and a carriage return before a newline is
// dropped.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
