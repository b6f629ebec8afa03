// Package contact defines the contact record and the identity rules used
// for duplicate detection. Identity is name+phone based and deliberately
// independent of the stored identifier, so the same person imported twice
// under different IDs is still recognized as one contact.
package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is a single rolodex entry.
//
// ID and CreatedAt are assigned once at construction and never change for
// the life of the identifier. Deleted contacts are kept as tombstones so a
// later synchronization can still compare timestamps against them.
type Contact struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Phone     string    `json:"phone" yaml:"phone"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	Tag       string    `json:"tag,omitempty" yaml:"tag,omitempty"`
	Deleted   bool      `json:"deleted" yaml:"deleted"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// New creates a contact with a fresh identifier and both timestamps set to
// the current time.
func New(name, phone, email, tag string) *Contact {
	now := time.Now().UTC()
	return &Contact{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		Tag:       tag,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch advances UpdatedAt. Every mutation goes through this.
func (c *Contact) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// Domain returns the lowercased email domain (the part after the last '@'),
// or "" when the email is empty or has no '@'.
func (c *Contact) Domain() string {
	return DomainOf(c.Email)
}

// DomainOf extracts the lowercased domain from an email address.
func DomainOf(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[i+1:])
}

// NameTokens splits a display name into lowercased whitespace-separated
// tokens. An empty name yields no tokens.
func NameTokens(name string) []string {
	fields := strings.Fields(name)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}
