// Package ui renders contacts and status lines to the terminal. Output is
// styled when attached to a TTY and falls back to plain text for pipes
// and CI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/uche09/rolodex/internal/contact"
)

// Renderer writes human-readable output.
type Renderer struct {
	out    io.Writer
	styles Styles
}

// NewRenderer creates a renderer for out. Styling is enabled only when
// out is os.Stdout attached to a terminal and noColor is false.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	styles := NoColorStyles()
	if !noColor && out == io.Writer(os.Stdout) && isTerminal(os.Stdout) {
		styles = DefaultStyles()
	}
	return &Renderer{out: out, styles: styles}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ContactList prints a compact table of contacts.
func (r *Renderer) ContactList(contacts []contact.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(r.out, r.styles.Dim.Render("no contacts"))
		return
	}

	header := fmt.Sprintf("%-28s %-16s %-28s %-10s", "NAME", "PHONE", "EMAIL", "TAG")
	fmt.Fprintln(r.out, r.styles.Header.Render(header))
	for _, c := range contacts {
		line := fmt.Sprintf("%-28s %-16s %-28s %-10s",
			truncate(c.Name, 28), truncate(c.Phone, 16), truncate(c.Email, 28), truncate(c.Tag, 10))
		fmt.Fprintln(r.out, r.styles.Value.Render(line))
	}
	fmt.Fprintln(r.out, r.styles.Label.Render(fmt.Sprintf("%d contact(s)", len(contacts))))
}

// ContactDetail prints a single contact with every field, identifier and
// timestamps included.
func (r *Renderer) ContactDetail(c contact.Contact) {
	rows := []struct{ label, value string }{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Phone", c.Phone},
		{"Email", c.Email},
		{"Tag", c.Tag},
		{"Deleted", fmt.Sprintf("%t", c.Deleted)},
		{"Created", c.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Updated", c.UpdatedAt.Format("2006-01-02 15:04:05")},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(r.styles.Label.Render(fmt.Sprintf("%-8s", row.label)))
		b.WriteString(" ")
		b.WriteString(r.styles.Value.Render(row.value))
		b.WriteString("\n")
	}
	fmt.Fprint(r.out, b.String())
}

// Success prints a confirmation line.
func (r *Renderer) Success(format string, args ...any) {
	fmt.Fprintln(r.out, r.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func (r *Renderer) Error(format string, args ...any) {
	fmt.Fprintln(r.out, r.styles.Error.Render(fmt.Sprintf(format, args...)))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
