// Where: internal/infra/interaction/interaction.go
// What: Interactive primitives for CLI prompts and TTY detection.
// Why: Centralize user interaction to keep command handlers focused on orchestration.
package interaction

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a prompt is required but stdin is not a terminal.
var ErrNotInteractive = errors.New("interactive input requires a terminal")

// Prompter defines the interface for interactive user input and selection.
type Prompter interface {
	Confirm(title, description string) (bool, error)
	Select(title string, options []string) (string, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}
