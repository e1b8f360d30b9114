// Where: internal/infra/config/store.go
// What: Flat key = value store backing cli.cfg.
// Why: Persist the active environment in a file users can read and edit by hand.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

var errEmptyKey = errors.New("config key is required")

// SetOutcome describes what a Set call did to the document.
type SetOutcome int

const (
	// Created means the document did not exist and was written with only the pair.
	Created SetOutcome = iota + 1
	// Added means the key was appended to an existing document.
	Added
	// Updated means an existing line was rewritten in place.
	Updated
)

// SetResult reports the effect of a Set call.
type SetResult struct {
	Outcome SetOutcome
	Key     string
	Value   string
	Path    string
}

// Message renders the informational line shown to the user after a write.
func (r SetResult) Message() string {
	switch r.Outcome {
	case Created:
		return fmt.Sprintf("config file '%s' did not exist. Created it with '%s' = '%s'", r.Path, r.Key, r.Value)
	case Added:
		return fmt.Sprintf("'%s' key not found in '%s'. Added it with '%s' value", r.Key, r.Path, r.Value)
	case Updated:
		return fmt.Sprintf("'%s' key updated to '%s' in '%s'", r.Key, r.Value, r.Path)
	default:
		return ""
	}
}

// Store reads and writes a key = value document.
// It does not lock; only one CLI instance is expected to touch the file at a time.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a Store for the document at path.
func NewStore(fs afero.Fs, path string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs, path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key. A missing document is reported as not found.
func (s *Store) Get(key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, errEmptyKey
	}
	content, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read config %s: %w", s.path, err)
	}
	for _, line := range strings.Split(string(content), "\n") {
		lineKey, value, ok := parseLine(line)
		if ok && lineKey == key {
			return value, true, nil
		}
	}
	return "", false, nil
}

// Set writes key = value, rewriting the first matching line or appending one.
// Comments and unrelated keys are kept as they are.
func (s *Store) Set(key, value string) (SetResult, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return SetResult{}, errEmptyKey
	}
	value = strings.TrimSpace(value)
	result := SetResult{Key: key, Value: value, Path: s.path}
	entry := formatLine(key, value)

	content, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return SetResult{}, fmt.Errorf("read config %s: %w", s.path, err)
		}
		if err := s.write([]byte(entry + "\n")); err != nil {
			return SetResult{}, err
		}
		result.Outcome = Created
		return result, nil
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if lineKey, _, ok := parseLine(line); ok && lineKey == key {
			lines[i] = entry
			if err := s.write([]byte(strings.Join(lines, "\n"))); err != nil {
				return SetResult{}, err
			}
			result.Outcome = Updated
			return result, nil
		}
	}

	var buf bytes.Buffer
	buf.Write(content)
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(entry + "\n")
	if err := s.write(buf.Bytes()); err != nil {
		return SetResult{}, err
	}
	result.Outcome = Added
	return result, nil
}

func (s *Store) write(content []byte) error {
	if err := afero.WriteFile(s.fs, s.path, content, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

func formatLine(key, value string) string {
	return key + " = " + value
}

// parseLine splits a "key = value" line. Blank lines, comments and lines
// without '=' are not entries.
func parseLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	key, value, found := strings.Cut(trimmed, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(value)), true
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}
