// Where: internal/infra/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize emojis, colors, indentation, and structure across commands.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by use cases.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Error(msg string)
	Block(emoji, title string, rows []KeyValue)
	Blank()
}

// Console provides helper methods for formatted output.
type Console struct {
	Out          io.Writer
	EmojiEnabled bool

	warn    *color.Color
	fail    *color.Color
	ok      *color.Color
	heading *color.Color
}

// New creates a new Console writing to the provided writer.
// Colors follow terminal detection.
func New(out io.Writer) *Console {
	return NewWithOptions(out, true, true)
}

// NewWithOptions creates a Console with explicit emoji and color settings.
// Disabling color always wins; enabling it still defers to terminal detection.
func NewWithOptions(out io.Writer, emoji, colored bool) *Console {
	c := &Console{
		Out:          out,
		EmojiEnabled: emoji,
		warn:         color.New(color.FgYellow),
		fail:         color.New(color.FgRed, color.Bold),
		ok:           color.New(color.FgGreen),
		heading:      color.New(color.FgCyan, color.Bold),
	}
	if !colored {
		for _, attr := range []*color.Color{c.warn, c.fail, c.ok, c.heading} {
			attr.DisableColor()
		}
	}
	return c
}

// Header prints a section header with an emoji.
// Example: 🐳 Containers in reconciler-test.
func (c *Console) Header(emoji, title string) {
	fmt.Fprintf(c.Out, "%s%s\n", c.emojiPrefix(emoji), c.heading.Sprint(title))
}

// BlockStart starts a logical block with a blank line before the header.
func (c *Console) BlockStart(emoji, title string) {
	fmt.Fprintln(c.Out)
	c.Header(emoji, title)
}

// BlockEnd ends a logical block.
func (c *Console) BlockEnd() {
	fmt.Fprintln(c.Out)
}

// Block prints a header followed by key/value rows.
func (c *Console) Block(emoji, title string, rows []KeyValue) {
	c.BlockStart(emoji, title)
	for _, kv := range rows {
		c.Item(kv.Key, kv.Value)
	}
	c.BlockEnd()
}

// Item prints a key-value item with indentation.
// Example:    api: running.
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "   %-30s %v\n", key+":", value)
}

// Blank prints an empty line.
func (c *Console) Blank() {
	fmt.Fprintln(c.Out)
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	prefix := c.emojiPrefix("✅")
	if prefix == "" {
		prefix = "[ok] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, c.ok.Sprint(msg))
}

// Info prints an info message.
func (c *Console) Info(msg string) {
	fmt.Fprintf(c.Out, "%s\n", msg)
}

// Warn prints a warning message with an emoji.
func (c *Console) Warn(msg string) {
	prefix := c.emojiPrefix("⚠️")
	if prefix == "" {
		prefix = "[warn] "
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, c.warn.Sprint(msg))
}

// Error prints a failure line.
// Example: ✗ invalid environment: "staging".
func (c *Console) Error(msg string) {
	fmt.Fprintf(c.Out, "%s\n", c.fail.Sprintf("✗ %s", msg))
}

func (c *Console) emojiPrefix(emoji string) string {
	if !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}
