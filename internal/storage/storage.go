// Package storage provides the persistence port for the contact
// collection and its backends. The core only depends on the port's
// ability to load a snapshot and save one back; wire and file formats are
// a backend concern.
//
// Backends are selected by configuration, not inheritance: Open returns
// the implementation named by Options.Backend.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendTXT    = "txt"
	BackendCSV    = "csv"
	BackendHTTP   = "http"
	BackendSQLite = "sqlite"
)

// Storage is the port the core consumes: hand back a full snapshot, or
// persist one. Snapshots always include tombstones; dropping them would
// break last-write-wins merges.
type Storage interface {
	Load(ctx context.Context) (map[string]contact.Contact, error)
	Save(ctx context.Context, contacts map[string]contact.Contact) error
}

// Options selects and parameterizes a backend.
type Options struct {
	// Backend is one of the Backend* constants.
	Backend string
	// Path is the data file or database path (file backends).
	Path string
	// URL is the remote base URL (http backend).
	URL string
	// Timeout bounds remote requests (http backend).
	Timeout time.Duration
}

// Open constructs the backend named by opts.Backend.
func Open(opts Options) (Storage, error) {
	switch opts.Backend {
	case BackendJSON:
		return NewJSONStore(opts.Path), nil
	case BackendTXT:
		return NewTXTStore(opts.Path), nil
	case BackendCSV:
		return NewCSVStore(opts.Path), nil
	case BackendHTTP:
		return NewHTTPStore(opts.URL, opts.Timeout)
	case BackendSQLite:
		return NewSQLiteStore(opts.Path)
	default:
		return nil, rdxerr.ConfigError(
			fmt.Sprintf("unknown storage backend %q", opts.Backend), nil)
	}
}
