// Where: internal/infra/interaction/selector.go
// What: Interactive prompts using the huh library.
// Why: Provide keyboard-based confirmation and selection for setup and env commands.
package interaction

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

var runConfirmPrompt = func(title, description string, confirmed *bool) error {
	return huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(confirmed).
		Run()
}

var runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(selected).
		Run()
}

// HuhPrompter implements the Prompter interface using the huh TUI library.
type HuhPrompter struct{}

func (p HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool
	if err := runConfirmPrompt(title, description, &confirmed); err != nil {
		return false, fmt.Errorf("prompt confirm: %w", err)
	}
	return confirmed, nil
}

func (p HuhPrompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	var selected string
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, opt)
	}

	err := runSelectPrompt(title, huhOptions, &selected)
	if err != nil {
		return "", fmt.Errorf("prompt select: %w", err)
	}
	return selected, nil
}
