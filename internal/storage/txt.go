package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// txtFieldCount is the number of pipe-separated fields per line.
const txtFieldCount = 8

// TXTStore persists the collection as one pipe-separated line per
// contact: id|name|phone|email|tag|deleted|created|updated. Timestamps
// are RFC 3339 with nanoseconds. Field values must not contain '|'.
type TXTStore struct {
	path string
}

// NewTXTStore creates a TXT file backend at path.
func NewTXTStore(path string) *TXTStore {
	return &TXTStore{path: path}
}

// Load implements Storage.
func (s *TXTStore) Load(_ context.Context) (map[string]contact.Contact, error) {
	data, exists, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]contact.Contact)
	if !exists {
		return out, nil
	}

	for lineNo, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := parseTXTLine(line)
		if err != nil {
			return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt,
				fmt.Sprintf("line %d: %v", lineNo+1, err), err)
		}
		out[c.ID] = c
	}
	return out, nil
}

// Save implements Storage.
func (s *TXTStore) Save(_ context.Context, contacts map[string]contact.Contact) error {
	var b strings.Builder
	for _, c := range sortedByID(contacts) {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%t|%s|%s\n",
			c.ID, c.Name, c.Phone, c.Email, c.Tag, c.Deleted,
			c.CreatedAt.Format(time.RFC3339Nano),
			c.UpdatedAt.Format(time.RFC3339Nano))
	}
	return writeFileAtomic(s.path, []byte(b.String()))
}

func parseTXTLine(line string) (contact.Contact, error) {
	fields := strings.Split(line, "|")
	if len(fields) != txtFieldCount {
		return contact.Contact{}, fmt.Errorf("expected %d fields, got %d", txtFieldCount, len(fields))
	}
	deleted, err := strconv.ParseBool(fields[5])
	if err != nil {
		return contact.Contact{}, fmt.Errorf("deleted flag: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, fields[6])
	if err != nil {
		return contact.Contact{}, fmt.Errorf("created timestamp: %w", err)
	}
	updated, err := time.Parse(time.RFC3339Nano, fields[7])
	if err != nil {
		return contact.Contact{}, fmt.Errorf("updated timestamp: %w", err)
	}
	return contact.Contact{
		ID:        fields[0],
		Name:      fields[1],
		Phone:     fields[2],
		Email:     fields[3],
		Tag:       fields[4],
		Deleted:   deleted,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
