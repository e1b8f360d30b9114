// Where: internal/infra/ui/console_test.go
// What: Tests for console formatting.
// Why: Keep plain (no emoji, no color) output stable for scripts and logs.
package ui

import (
	"bytes"
	"testing"
)

func TestConsolePlainOutput(t *testing.T) {
	var out bytes.Buffer
	console := NewWithOptions(&out, false, false)

	console.Info("hello")
	console.Warn("careful")
	console.Success("done")
	console.Error("boom")
	console.Block("🐳", "Containers", []KeyValue{{Key: "api", Value: "running"}})
	console.Blank()

	want := "hello\n" +
		"[warn] careful\n" +
		"[ok] done\n" +
		"✗ boom\n" +
		"\n" +
		"Containers\n" +
		"   api:                           running\n" +
		"\n" +
		"\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out.String())
	}
}

func TestConsoleEmojiPrefixes(t *testing.T) {
	var out bytes.Buffer
	console := NewWithOptions(&out, true, false)

	console.Header("🔧", "Settings")
	console.Warn("careful")

	want := "🔧 Settings\n⚠️ careful\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out.String())
	}
}

var _ UserInterface = (*Console)(nil)
