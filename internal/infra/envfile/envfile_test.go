// Where: internal/infra/envfile/envfile_test.go
// What: Tests for env-file setup.
// Why: Missing env files must never be silently accepted.
package envfile

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/anibalxyz/reconciler/cli/internal/infra/compose"
	"github.com/anibalxyz/reconciler/cli/internal/infra/ui"
	"github.com/spf13/afero"
)

type fakePrompter struct {
	answer bool
	titles []string
}

func (f *fakePrompter) Confirm(title, _ string) (bool, error) {
	f.titles = append(f.titles, title)
	return f.answer, nil
}

func (f *fakePrompter) Select(string, []string) (string, error) { return "", nil }

type fakeRunner struct {
	commands []compose.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd compose.Command) error {
	f.commands = append(f.commands, cmd)
	return nil
}

func newSetup(t *testing.T, prompter *fakePrompter, interactive bool) (Setup, *fakeRunner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	runner := &fakeRunner{}
	return Setup{
		Fs:          afero.NewMemMapFs(),
		Root:        "/srv/app",
		Prompter:    prompter,
		Interactive: func() bool { return interactive },
		Editor:      "code --wait",
		Runner:      runner,
		UI:          ui.NewWithOptions(&out, false, false),
	}, runner, &out
}

func write(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestEnsureCopiesTemplateAndOpensEditor(t *testing.T) {
	prompter := &fakePrompter{answer: true}
	setup, runner, _ := newSetup(t, prompter, true)
	write(t, setup.Fs, "/srv/app/backend/.env.test.example", "DB_URL=postgres://db\n")

	if err := setup.Ensure(context.Background(), []string{"backend/.env.test"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	content, err := afero.ReadFile(setup.Fs, "/srv/app/backend/.env.test")
	if err != nil {
		t.Fatalf("read created file: %v", err)
	}
	if string(content) != "DB_URL=postgres://db\n" {
		t.Fatalf("unexpected content: %q", content)
	}
	if len(prompter.titles) != 1 || !strings.Contains(prompter.titles[0], "with code") {
		t.Fatalf("unexpected prompts: %v", prompter.titles)
	}
	want := compose.Command{Name: "code", Args: []string{"--wait", "/srv/app/backend/.env.test"}, Dir: "/srv/app"}
	if len(runner.commands) != 1 || !reflect.DeepEqual(runner.commands[0], want) {
		t.Fatalf("unexpected editor commands: %#v", runner.commands)
	}
}

func TestEnsureAbortsWhenDeclined(t *testing.T) {
	setup, runner, _ := newSetup(t, &fakePrompter{answer: false}, true)
	write(t, setup.Fs, "/srv/app/frontend/.env.development.example", "API_URL=\n")

	err := setup.Ensure(context.Background(), []string{"frontend/.env.development"})
	if !errors.Is(err, ErrSetupAborted) {
		t.Fatalf("expected aborted setup, got %v", err)
	}
	if len(runner.commands) != 0 {
		t.Fatal("editor must not run when declined")
	}
	if ok, _ := afero.Exists(setup.Fs, "/srv/app/frontend/.env.development"); !ok {
		t.Fatal("file is created before the prompt")
	}
}

func TestEnsureAbortsWithoutTerminal(t *testing.T) {
	prompter := &fakePrompter{answer: true}
	setup, _, _ := newSetup(t, prompter, false)
	write(t, setup.Fs, "/srv/app/backend/.env.production.example", "A=1\n")

	err := setup.Ensure(context.Background(), []string{"backend/.env.production"})
	if !errors.Is(err, ErrSetupAborted) {
		t.Fatalf("expected aborted setup, got %v", err)
	}
	if len(prompter.titles) != 0 {
		t.Fatal("no prompt without a terminal")
	}
}

func TestEnsureFailsWithoutTemplate(t *testing.T) {
	setup, _, _ := newSetup(t, &fakePrompter{answer: true}, true)

	err := setup.Ensure(context.Background(), []string{"backend/.env.test"})
	if !errors.Is(err, errExampleMissing) {
		t.Fatalf("expected missing template error, got %v", err)
	}
}

func TestEnsureWarnsAboutEmptyValues(t *testing.T) {
	prompter := &fakePrompter{}
	setup, _, out := newSetup(t, prompter, true)
	write(t, setup.Fs, "/srv/app/backend/.env.test", "B=\nA=\"\"\nC=set\n")

	if err := setup.Ensure(context.Background(), []string{"backend/.env.test"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !strings.Contains(out.String(), "'backend/.env.test' has empty values: A, B") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if len(prompter.titles) != 0 {
		t.Fatal("existing files are never prompted for")
	}
}
