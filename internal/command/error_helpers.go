// Where: internal/command/error_helpers.go
// What: Error rendering and exit-code mapping.
// Why: Decide exit codes in one place; runtime exit codes pass through unchanged.
package command

import (
	"errors"

	"github.com/anibalxyz/reconciler/cli/internal/infra/runtime"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
)

// exitWithError prints the error on the console and returns its exit code.
func exitWithError(console *ui.Console, err error) int {
	console.Error(err.Error())
	return exitCode(err)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *runtime.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

func errorConsole(deps Dependencies, noColor bool) *ui.Console {
	return ui.NewWithOptions(deps.ErrOut, true, !noColor)
}
