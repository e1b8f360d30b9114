// Where: internal/infra/envfile/envfile.go
// What: First-time env-file setup from committed .example templates.
// Why: Compose refuses to start with missing env files; guide the user through creating them.
package envfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/interaction"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// ExampleSuffix is appended to an env file path to find its template.
const ExampleSuffix = ".example"

// ErrSetupAborted is returned when a created env file was not reviewed.
var ErrSetupAborted = errors.New("env file setup aborted: complete the file manually and run again")

var (
	errExampleMissing = errors.New("env file template not found")
	errEditorRequired = errors.New("editor command is required")
)

// Setup creates missing env files and flags incomplete ones.
type Setup struct {
	Fs          afero.Fs
	Root        string
	Prompter    interaction.Prompter
	Interactive func() bool
	// Editor is a command line such as "nano" or "code --wait".
	Editor string
	Runner compose.CommandRunner
	UI     ui.UserInterface
}

// Ensure makes sure every file (relative to Root) exists. Missing files are
// copied from their template and offered for editing; declining aborts.
func (s Setup) Ensure(ctx context.Context, files []string) error {
	for _, rel := range files {
		path := filepath.Join(s.Root, rel)
		exists, err := afero.Exists(s.fs(), path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", rel, err)
		}
		if exists {
			if err := s.checkValues(rel, path); err != nil {
				return err
			}
			continue
		}
		if err := s.create(ctx, rel, path); err != nil {
			return err
		}
	}
	return nil
}

func (s Setup) create(ctx context.Context, rel, path string) error {
	s.warn(fmt.Sprintf("Env file '%s' not found. Creating it from '%s%s'.", rel, rel, ExampleSuffix))
	template, err := afero.ReadFile(s.fs(), path+ExampleSuffix)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s%s", errExampleMissing, rel, ExampleSuffix)
		}
		return fmt.Errorf("read %s%s: %w", rel, ExampleSuffix, err)
	}
	if err := afero.WriteFile(s.fs(), path, template, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	s.info(fmt.Sprintf("Created '%s'. Review its values before starting the stack.", rel))

	if s.Prompter == nil || s.Interactive == nil || !s.Interactive() {
		return fmt.Errorf("%w (%s)", ErrSetupAborted, rel)
	}
	open, err := s.Prompter.Confirm(
		fmt.Sprintf("Open '%s' with %s now?", rel, s.editorName()),
		"Values were copied from the example file.",
	)
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("%w (%s)", ErrSetupAborted, rel)
	}
	return s.edit(ctx, path)
}

func (s Setup) edit(ctx context.Context, path string) error {
	fields := strings.Fields(s.Editor)
	if len(fields) == 0 {
		return errEditorRequired
	}
	if s.Runner == nil {
		return fmt.Errorf("open editor: %w", errEditorRequired)
	}
	args := append(fields[1:], path)
	if err := s.Runner.Run(ctx, compose.Command{Name: fields[0], Args: args, Dir: s.Root}); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}

// checkValues warns about keys left empty in an existing env file.
func (s Setup) checkValues(rel, path string) error {
	file, err := s.fs().Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", rel, err)
	}
	defer file.Close()

	values, err := godotenv.Parse(file)
	if err != nil {
		return fmt.Errorf("parse %s: %w", rel, err)
	}
	var empty []string
	for key, value := range values {
		if strings.TrimSpace(value) == "" {
			empty = append(empty, key)
		}
	}
	if len(empty) > 0 {
		sort.Strings(empty)
		s.warn(fmt.Sprintf("'%s' has empty values: %s", rel, strings.Join(empty, ", ")))
	}
	return nil
}

func (s Setup) editorName() string {
	fields := strings.Fields(s.Editor)
	if len(fields) == 0 {
		return "your editor"
	}
	return filepath.Base(fields[0])
}

func (s Setup) fs() afero.Fs {
	if s.Fs == nil {
		return afero.NewOsFs()
	}
	return s.Fs
}

func (s Setup) info(msg string) {
	if s.UI != nil {
		s.UI.Info(msg)
	}
}

func (s Setup) warn(msg string) {
	if s.UI != nil {
		s.UI.Warn(msg)
	}
}
