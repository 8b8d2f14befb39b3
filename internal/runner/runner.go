// Package runner launches interpreter processes and captures what they
// print.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/loxtest/loxtest/internal/suite"
)

// UnknownExitCode is reported when the process ended without an exit code,
// for instance because it was killed by a signal.
const UnknownExitCode = -1

// Command is a fully resolved interpreter invocation.
type Command struct {
	Executable string
	Args       []string
}

func (c Command) String() string {
	return fmt.Sprintf("%s %q", c.Executable, c.Args)
}

// Output captures the result of one interpreter run.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Executor runs a command to completion.
type Executor interface {
	// Execute blocks until the process exits. A non-zero exit status is not
	// an error; failing to start the process is reported as *LaunchError.
	Execute(ctx context.Context, cmd Command) (*Output, error)
}

// LaunchError reports an interpreter that could not be started.
type LaunchError struct {
	Err        error
	Executable string
}

func (e *LaunchError) Error() string {
	return e.Err.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Resolve builds the invocation for a test file. A configured interpreter
// override replaces both the suite's executable and its argument prefix.
// The test path is always the last argument.
func Resolve(s *suite.Suite, interpreter string, arguments []string, path string) Command {
	executable := s.Executable
	prefix := s.Args
	if interpreter != "" {
		executable = interpreter
		prefix = arguments
	}

	args := make([]string, 0, len(prefix)+1)
	args = append(args, prefix...)
	args = append(args, path)

	return Command{Executable: executable, Args: args}
}
