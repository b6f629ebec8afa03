package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// defaultHTTPTimeout bounds remote requests when the config sets none.
const defaultHTTPTimeout = 10 * time.Second

// HTTPStore loads and saves the collection against a remote endpoint:
// GET <url> returns a JSON array of contacts, POST <url> replaces it.
// The remote is a dumb snapshot holder; all merge logic stays local.
type HTTPStore struct {
	url    string
	client *http.Client
}

// NewHTTPStore creates an HTTP backend against baseURL.
func NewHTTPStore(baseURL string, timeout time.Duration) (*HTTPStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, rdxerr.ConfigError(fmt.Sprintf("invalid storage URL %q", baseURL), err)
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPStore{
		url:    baseURL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Load implements Storage.
func (s *HTTPStore) Load(ctx context.Context) (map[string]contact.Contact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, rdxerr.Wrap(rdxerr.CodeInternal, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, wrapTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, rdxerr.StorageError(rdxerr.CodeRemoteStatus,
			fmt.Sprintf("remote returned %s on load", resp.Status), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransport(err)
	}

	var list []contact.Contact
	if len(body) > 0 {
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt, "decoding remote JSON", err)
		}
	}
	out := make(map[string]contact.Contact, len(list))
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

// Save implements Storage.
func (s *HTTPStore) Save(ctx context.Context, contacts map[string]contact.Contact) error {
	data, err := json.Marshal(sortedByID(contacts))
	if err != nil {
		return rdxerr.Wrap(rdxerr.CodeInternal, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return rdxerr.Wrap(rdxerr.CodeInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return wrapTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		return rdxerr.StorageError(rdxerr.CodeRemoteStatus,
			fmt.Sprintf("remote returned %s on save", resp.Status), nil)
	}
}

// wrapTransport classifies a transport error as timeout or unavailable so
// callers can decide whether a retry is worthwhile.
func wrapTransport(err error) error {
	if ue, ok := err.(*url.Error); ok && ue.Timeout() {
		return rdxerr.StorageError(rdxerr.CodeNetworkTimeout, "remote request timed out", err)
	}
	return rdxerr.StorageError(rdxerr.CodeNetworkUnavailable, "remote unreachable", err)
}
