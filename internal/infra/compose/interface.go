// Where: internal/infra/compose/interface.go
// What: Composed command value and the runner contract.
// Why: Keep command composition pure and hand execution to an injectable runner.
package compose

import (
	"context"
	"strings"
)

// Command is a fully composed runtime invocation.
type Command struct {
	Name string
	Args []string
	// Env is overlaid on the parent environment as KEY=VALUE pairs.
	Env []string
	Dir string
}

// Argv returns the command name followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command line for logs and dry output.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// CommandRunner executes composed commands.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) error
}
