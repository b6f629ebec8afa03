package storage

import (
	"context"
	"encoding/json"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// JSONStore persists the collection as a pretty-printed JSON array.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON file backend at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load implements Storage.
func (s *JSONStore) Load(_ context.Context) (map[string]contact.Contact, error) {
	data, exists, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if !exists || len(data) == 0 {
		return map[string]contact.Contact{}, nil
	}

	var list []contact.Contact
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt, "decoding contacts JSON", err)
	}
	out := make(map[string]contact.Contact, len(list))
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

// Save implements Storage.
func (s *JSONStore) Save(_ context.Context, contacts map[string]contact.Contact) error {
	data, err := json.MarshalIndent(sortedByID(contacts), "", "  ")
	if err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	return writeFileAtomic(s.path, append(data, '\n'))
}
