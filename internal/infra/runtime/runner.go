// Where: internal/infra/runtime/runner.go
// What: os/exec based runner for composed runtime commands.
// Why: Stream runtime output to the user and surface exit codes unchanged.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
)

// InterruptGrace bounds how long a cancelled child may take to exit after
// receiving an interrupt before it is killed.
const InterruptGrace = 10 * time.Second

var lookPath = exec.LookPath

// CheckBinary verifies that name resolves on PATH.
func CheckBinary(name string) error {
	if _, err := lookPath(name); err != nil {
		return &MissingDependencyError{Binary: name, Err: err}
	}
	return nil
}

// ExecRunner implements compose.CommandRunner by spawning child processes.
// Nil streams fall back to the process's own stdio.
type ExecRunner struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
	Logger *slog.Logger
}

var _ compose.CommandRunner = ExecRunner{}

// Run executes cmd and blocks until it exits. Cancelling ctx interrupts the child.
func (r ExecRunner) Run(ctx context.Context, cmd compose.Command) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return errEmptyCommand
	}
	r.logger().Debug("run command", "cmd", cmd.String(), "dir", cmd.Dir, "env", cmd.Env)

	child := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	child.Dir = cmd.Dir
	child.Env = append(os.Environ(), cmd.Env...)
	child.Stdin = r.stdin()
	child.Stdout = r.stdout()
	child.Stderr = r.stderr()
	child.Cancel = func() error {
		return child.Process.Signal(os.Interrupt)
	}
	child.WaitDelay = InterruptGrace

	err := child.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		r.logger().Debug("command failed", "cmd", cmd.String(), "code", exitErr.ExitCode())
		return &ExitError{Command: cmd.String(), Code: exitErr.ExitCode()}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("run %s: %w", cmd.Name, ctxErr)
	}
	return fmt.Errorf("run %s: %w", cmd.Name, err)
}

func (r ExecRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r ExecRunner) stdin() io.Reader {
	if r.In == nil {
		return os.Stdin
	}
	return r.In
}

func (r ExecRunner) stdout() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r ExecRunner) stderr() io.Writer {
	if r.ErrOut == nil {
		return os.Stderr
	}
	return r.ErrOut
}
