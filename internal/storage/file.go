package storage

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// writeFileAtomic writes data to path via a temp file and rename, holding
// a cross-process flock for the duration. Two CLI invocations saving the
// same rolodex never interleave writes or leave a torn file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return rdxerr.StorageError(rdxerr.CodeStorageLocked, "acquiring file lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	return nil
}

// readFile reads the whole data file. A missing file is an empty rolodex,
// not an error; first save creates it.
func readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, rdxerr.Wrap(rdxerr.CodeStorageRead, err)
	}
	return data, true, nil
}

// sortedByID orders a snapshot for stable serialization, so saved files
// diff cleanly between runs.
func sortedByID(contacts map[string]contact.Contact) []contact.Contact {
	out := make([]contact.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
