package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

var csvHeader = []string{"id", "name", "phone", "email", "tag", "deleted", "created_at", "updated_at"}

// CSVStore persists the collection as RFC 4180 CSV with a header row.
// Unlike the TXT backend, quoting makes every field value legal.
type CSVStore struct {
	path string
}

// NewCSVStore creates a CSV file backend at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load implements Storage.
func (s *CSVStore) Load(_ context.Context) (map[string]contact.Contact, error) {
	data, exists, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]contact.Contact)
	if !exists || len(data) == 0 {
		return out, nil
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt, "decoding contacts CSV", err)
	}
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		c, err := parseCSVRecord(rec)
		if err != nil {
			return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt,
				fmt.Sprintf("record %d: %v", i, err), err)
		}
		out[c.ID] = c
	}
	return out, nil
}

// Save implements Storage.
func (s *CSVStore) Save(_ context.Context, contacts map[string]contact.Contact) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	for _, c := range sortedByID(contacts) {
		rec := []string{
			c.ID, c.Name, c.Phone, c.Email, c.Tag,
			strconv.FormatBool(c.Deleted),
			c.CreatedAt.Format(time.RFC3339Nano),
			c.UpdatedAt.Format(time.RFC3339Nano),
		}
		if err := w.Write(rec); err != nil {
			return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	return writeFileAtomic(s.path, buf.Bytes())
}

func parseCSVRecord(rec []string) (contact.Contact, error) {
	if len(rec) != len(csvHeader) {
		return contact.Contact{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(rec))
	}
	deleted, err := strconv.ParseBool(rec[5])
	if err != nil {
		return contact.Contact{}, fmt.Errorf("deleted flag: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, rec[6])
	if err != nil {
		return contact.Contact{}, fmt.Errorf("created timestamp: %w", err)
	}
	updated, err := time.Parse(time.RFC3339Nano, rec[7])
	if err != nil {
		return contact.Contact{}, fmt.Errorf("updated timestamp: %w", err)
	}
	return contact.Contact{
		ID:        rec[0],
		Name:      rec[1],
		Phone:     rec[2],
		Email:     rec[3],
		Tag:       rec[4],
		Deleted:   deleted,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
