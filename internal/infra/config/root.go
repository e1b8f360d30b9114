// Where: internal/infra/config/root.go
// What: Project root discovery.
// Why: Run compose commands from the directory holding compose.yaml wherever the CLI is invoked.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/meta"
	"github.com/spf13/afero"
)

var (
	errProjectRootNotFound = errors.New("project root not found")
	errProjectRootInvalid  = errors.New("project root does not contain " + meta.ComposeBaseFile)
)

// ResolveProjectRoot determines the project root.
// Priority order.
// 1. Explicit root from settings (must contain compose.yaml).
// 2. Upward search from startDir, at most meta.RootSearchDepth levels.
func ResolveProjectRoot(fs afero.Fs, settings Settings, startDir string) (string, error) {
	if explicit := strings.TrimSpace(settings.ProjectRoot); explicit != "" {
		dir, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("resolve project root %s: %w", explicit, err)
		}
		if !hasComposeFile(fs, dir) {
			return "", fmt.Errorf("%w: %s", errProjectRootInvalid, dir)
		}
		return dir, nil
	}
	return FindProjectRoot(fs, startDir)
}

// FindProjectRoot walks up from startDir looking for compose.yaml.
func FindProjectRoot(fs afero.Fs, startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start dir %s: %w", startDir, err)
	}
	for i := 0; i < meta.RootSearchDepth; i++ {
		if hasComposeFile(fs, dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: no %s in %s or its parents", errProjectRootNotFound, meta.ComposeBaseFile, startDir)
}

func hasComposeFile(fs afero.Fs, dir string) bool {
	ok, err := afero.Exists(fs, filepath.Join(dir, meta.ComposeBaseFile))
	return err == nil && ok
}
