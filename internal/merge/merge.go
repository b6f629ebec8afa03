// Package merge reconciles a foreign snapshot of contacts into the store
// under a last-write-wins discipline. The whole merge is all-or-nothing:
// it runs against private working copies of the collection and the index,
// and only commits them when every foreign record applied cleanly. Any
// conflict leaves the live store byte-for-byte unchanged.
package merge

import (
	"sort"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/mem"
)

// Engine performs synchronization against one store. Callers must not
// mutate the store while a merge is in flight; the engine assumes the
// single-writer discipline the store documents.
type Engine struct {
	store *mem.Store
}

// NewEngine creates a merge engine for the given store.
func NewEngine(store *mem.Store) *Engine {
	return &Engine{store: store}
}

// Synchronize merges a foreign snapshot into the store.
//
// For each foreign record, in sorted identifier order so runs are
// deterministic:
//
//   - A shared identifier with a differing CreatedAt is a poisoned
//     identifier reused for two different people. The merge fails with a
//     synchronization error and nothing is applied.
//   - A shared identifier with a strictly later foreign UpdatedAt is
//     replaced wholesale, tombstone flag included; the index entries move
//     from the old field values to the new ones.
//   - On an earlier or exactly equal foreign UpdatedAt the local record
//     wins. Ties going to the local side keeps merges deterministic under
//     clock drift and duplicate timestamps.
//   - An unknown identifier is checked for identity equality against every
//     record in the working copy, tombstones included; a match means the
//     foreign record is the same person under a different identifier and
//     is discarded. Otherwise it is inserted and indexed.
//
// Soft deletes get no special precedence: a later tombstone beats an
// earlier edit and a later edit undoes an earlier tombstone.
func (e *Engine) Synchronize(foreign map[string]contact.Contact) error {
	working := make(map[string]*contact.Contact, e.store.Total()+len(foreign))
	for id, c := range e.store.Snapshot() {
		cc := c
		working[id] = &cc
	}
	idx := e.store.Index().Clone()

	ids := make([]string, 0, len(foreign))
	for id := range foreign {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		f := foreign[id]

		local, known := working[id]
		if known {
			if !local.CreatedAt.Equal(f.CreatedAt) {
				return rdxerr.Synchronization(id)
			}
			if !f.UpdatedAt.After(local.UpdatedAt) {
				continue // local wins ties and later local edits
			}
			old := *local
			repl := f
			working[id] = &repl
			if !old.Deleted {
				idx.Remove(&old)
			}
			if !repl.Deleted {
				idx.Add(&repl)
			}
			continue
		}

		if hasIdentity(working, &f) {
			continue // already known under a different identifier
		}
		ins := f
		working[id] = &ins
		if !ins.Deleted {
			idx.Add(&ins)
		}
	}

	e.store.Replace(working, idx)
	return nil
}

// hasIdentity scans the working copy for a record that is the same
// real-world person as f. Tombstones participate: a contact the local
// side deleted is still known, and must not be resurrected under a new
// identifier by a merge.
func hasIdentity(working map[string]*contact.Contact, f *contact.Contact) bool {
	for _, w := range working {
		if contact.SameIdentity(w, f) {
			return true
		}
	}
	return false
}
