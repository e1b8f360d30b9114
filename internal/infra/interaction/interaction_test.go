// Where: internal/infra/interaction/interaction_test.go
// What: Tests for terminal detection helpers.
// Why: Keep non-interactive detection deterministic in tests.
package interaction

import (
	"os"
	"testing"
)

func TestIsTerminalRejectsNilAndPipes(t *testing.T) {
	if IsTerminal(nil) {
		t.Fatal("IsTerminal(nil) must be false")
	}
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	if IsTerminal(r) || IsTerminal(w) {
		t.Fatal("pipes are never terminals")
	}
}

func TestInteractiveNeedsBothStreams(t *testing.T) {
	orig := IsTerminal
	t.Cleanup(func() { IsTerminal = orig })

	IsTerminal = func(file *os.File) bool { return file == os.Stdin }
	if Interactive() {
		t.Fatal("stdout is not a terminal; expected non-interactive")
	}
	IsTerminal = func(*os.File) bool { return true }
	if !Interactive() {
		t.Fatal("expected interactive")
	}
}
