// Where: internal/infra/runtime/errors.go
// What: Process execution failures.
// Why: Let the command layer propagate runtime exit codes and report missing binaries.
package runtime

import (
	"errors"
	"fmt"
)

var errEmptyCommand = errors.New("command name is required")

// ExitError reports a runtime process that exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d: %s", e.Code, e.Command)
}

// MissingDependencyError reports a required binary that is not on PATH.
type MissingDependencyError struct {
	Binary string
	Err    error
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("'%s' is not installed or not available in PATH", e.Binary)
}

func (e *MissingDependencyError) Unwrap() error {
	return e.Err
}
