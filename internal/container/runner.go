package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes runtime CLI commands.
type Runner interface {
	// Output runs the command and returns its stdout. A failed command
	// returns a *CommandError.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Run streams the command output to stdout and stderr and returns its
	// exit code. A non-zero exit is not an error; failing to launch is.
	Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) (int, error)
}

// CommandError describes a runtime CLI call that did not succeed.
type CommandError struct {
	Args     []string
	ExitCode int // -1 when the process never produced an exit status
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// osRunner executes real commands via exec.CommandContext.
type osRunner struct{}

func (osRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Args:     append([]string{name}, args...),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return "", cmdErr
	}

	return stdout.String(), nil
}

func (osRunner) Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	// Non-ExitError: context cancelled or binary missing.
	return -1, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
}
