package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uche09/rolodex/internal/contact"
)

func TestContactListPlain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.ContactList([]contact.Contact{
		*contact.New("John Doe", "08123456789", "john@example.com", "friend"),
		*contact.New("Jane Roe", "08100000000", "jane@example.com", ""),
	})

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "2 contact(s)")
	assert.NotContains(t, out, "\x1b[", "plain mode must not emit ANSI escapes")
}

func TestContactListEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, true).ContactList(nil)
	assert.Contains(t, buf.String(), "no contacts")
}

func TestContactDetail(t *testing.T) {
	var buf bytes.Buffer
	c := *contact.New("Ada Lovelace", "0123", "ada@maths.org", "eng")
	NewRenderer(&buf, true).ContactDetail(c)

	out := buf.String()
	assert.Contains(t, out, c.ID)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "ada@maths.org")
	assert.Contains(t, out, "false") // deleted flag
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	got := truncate("a very long name indeed", 10)
	require.Len(t, got, 10)
	assert.True(t, strings.HasSuffix(got, "..."))
}
