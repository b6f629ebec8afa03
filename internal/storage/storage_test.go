package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// snapshot builds a small collection with awkward field values and one
// tombstone. Every backend must round-trip it unchanged.
func snapshot() map[string]contact.Contact {
	a := contact.New("John Doe", "08123456789", "john@example.com", "friend")
	b := contact.New(`Quote "Me", Please`, "+2348123456789", "quote@commas.csv", "")
	dead := contact.New("Gone Person", "0700000000", "gone@away.io", "old")
	dead.Deleted = true
	dead.Touch()
	return map[string]contact.Contact{a.ID: *a, b.ID: *b, dead.ID: *dead}
}

// normalize strips monotonic clock readings so loaded timestamps compare
// equal to saved ones.
func normalize(m map[string]contact.Contact) map[string]contact.Contact {
	out := make(map[string]contact.Contact, len(m))
	for id, c := range m {
		c.CreatedAt = c.CreatedAt.Round(0).UTC()
		c.UpdatedAt = c.UpdatedAt.Round(0).UTC()
		out[id] = c
	}
	return out
}

func testRoundTrip(t *testing.T, s Storage, snap map[string]contact.Contact) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, snap))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, normalize(snap), normalize(loaded))
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	testRoundTrip(t, NewJSONStore(path), snapshot())
}

func TestCSVRoundTrip(t *testing.T) {
	// CSV quoting has to survive commas and quotes in names.
	path := filepath.Join(t.TempDir(), "contacts.csv")
	testRoundTrip(t, NewCSVStore(path), snapshot())
}

func TestTXTRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.txt")
	testRoundTrip(t, NewTXTStore(path), snapshot())
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	testRoundTrip(t, s, snapshot())

	// Saving again fully replaces the previous snapshot.
	small := snapshot()
	for id := range small {
		delete(small, id)
		break
	}
	testRoundTrip(t, s, small)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	for _, s := range []Storage{
		NewJSONStore(filepath.Join(dir, "none.json")),
		NewTXTStore(filepath.Join(dir, "none.txt")),
		NewCSVStore(filepath.Join(dir, "none.csv")),
	} {
		loaded, err := s.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, loaded)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{not json"), 0o644))
	_, err := NewJSONStore(jsonPath).Load(context.Background())
	assert.Equal(t, rdxerr.CodeStorageCorrupt, rdxerr.CodeOf(err))

	txtPath := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("only|three|fields\n"), 0o644))
	_, err = NewTXTStore(txtPath).Load(context.Background())
	assert.Equal(t, rdxerr.CodeStorageCorrupt, rdxerr.CodeOf(err))
}

func TestHTTPStoreRoundTrip(t *testing.T) {
	var stored []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(stored)
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			stored = body
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(srv.Close)

	s, err := NewHTTPStore(srv.URL, time.Second)
	require.NoError(t, err)
	testRoundTrip(t, s, snapshot())
}

func TestHTTPStoreRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	s, err := NewHTTPStore(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.Equal(t, rdxerr.CodeRemoteStatus, rdxerr.CodeOf(err))

	err = s.Save(context.Background(), snapshot())
	assert.Equal(t, rdxerr.CodeRemoteStatus, rdxerr.CodeOf(err))
}

func TestHTTPStoreUnreachable(t *testing.T) {
	s, err := NewHTTPStore("http://127.0.0.1:1/contacts", 200*time.Millisecond)
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, rdxerr.CategoryNetwork, err.(*rdxerr.Error).Category)
}

func TestNewHTTPStoreRejectsBadURL(t *testing.T) {
	_, err := NewHTTPStore("not a url", time.Second)
	assert.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		opts Options
		want any
	}{
		{Options{Backend: BackendJSON, Path: filepath.Join(dir, "c.json")}, &JSONStore{}},
		{Options{Backend: BackendTXT, Path: filepath.Join(dir, "c.txt")}, &TXTStore{}},
		{Options{Backend: BackendCSV, Path: filepath.Join(dir, "c.csv")}, &CSVStore{}},
		{Options{Backend: BackendSQLite, Path: filepath.Join(dir, "c.db")}, &SQLiteStore{}},
		{Options{Backend: BackendHTTP, URL: "http://localhost:8080/x"}, &HTTPStore{}},
	}
	for _, tt := range tests {
		s, err := Open(tt.opts)
		require.NoError(t, err, "backend %q", tt.opts.Backend)
		assert.IsType(t, tt.want, s)
		if c, ok := s.(*SQLiteStore); ok {
			_ = c.Close()
		}
	}

	_, err := Open(Options{Backend: "bolt"})
	assert.Equal(t, rdxerr.CodeConfigInvalid, rdxerr.CodeOf(err))
}
