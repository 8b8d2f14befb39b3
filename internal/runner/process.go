package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
)

// Process runs interpreters as local subprocesses.
type Process struct {
	Clock clockwork.Clock
}

// ensure Process implements Executor.
var _ Executor = (*Process)(nil)

func NewProcess() *Process {
	return &Process{Clock: clockwork.NewRealClock()}
}

// Execute starts the interpreter and waits for it without a timeout.
// Cancelling ctx kills the process.
func (p *Process) Execute(ctx context.Context, cmd Command) (*Output, error) {
	var stdout, stderr bytes.Buffer
	proc := exec.CommandContext(ctx, cmd.Executable, cmd.Args...)
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	start := p.Clock.Now()
	err := proc.Run()
	duration := p.Clock.Since(start)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, &LaunchError{Executable: cmd.Executable, Err: err}
	}

	exitCode := UnknownExitCode
	if proc.ProcessState != nil {
		exitCode = proc.ProcessState.ExitCode()
	}

	log.Debug().
		Str("command", cmd.String()).
		Int("exit_code", exitCode).
		Dur("duration", duration).
		Msg("interpreter finished")

	return &Output{
		Stdout:   decode(stdout.Bytes()),
		Stderr:   decode(stderr.Bytes()),
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}

// decode converts raw process output to a string, replacing invalid UTF-8
// sequences with U+FFFD.
func decode(raw []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("�")))
	}
	return string(decoded)
}
