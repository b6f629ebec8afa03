// Package mem owns the authoritative in-memory contact collection. Every
// mutation keeps the dual index consistent, so the index can always be
// re-derived from scratch with identical contents.
//
// Deleted contacts stay in the store as tombstones; they drop out of the
// index and all listings but remain retrievable by identifier so a later
// synchronization can still compare timestamps against them.
package mem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/index"
)

// Store is the contact collection plus its dual index.
//
// The store is safe for concurrent readers. Writers must be serialized by
// the caller while a merge is in flight (single-writer discipline); the
// internal lock only protects map integrity, not merge atomicity.
type Store struct {
	mu       sync.RWMutex
	contacts map[string]*contact.Contact
	idx      *index.Dual

	// gen increments on every mutation; the search engine keys its
	// result cache on it so stale entries age out of the LRU.
	gen atomic.Uint64
}

// New returns an empty store with an empty index.
func New() *Store {
	return &Store{
		contacts: make(map[string]*contact.Contact),
		idx:      index.New(),
	}
}

// NewFromSnapshot builds a store from a loaded collection, rebuilding the
// index in parallel. Tombstones in the snapshot are preserved.
func NewFromSnapshot(ctx context.Context, snap map[string]contact.Contact) (*Store, error) {
	contacts := make(map[string]*contact.Contact, len(snap))
	ordered := make([]*contact.Contact, 0, len(snap))
	for id, c := range snap {
		cc := c
		contacts[id] = &cc
		ordered = append(ordered, &cc)
	}
	idx, err := index.Rebuild(ctx, ordered)
	if err != nil {
		return nil, err
	}
	s := &Store{contacts: contacts, idx: idx}
	return s, nil
}

// Add inserts a new contact and indexes it. Identity-duplicate rejection
// is the caller's concern (see FindIdentity); Add only refuses identifier
// reuse, which would corrupt the collection.
func (s *Store) Add(c *contact.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contacts[c.ID]; exists {
		return rdxerr.New(rdxerr.CodeInternal,
			fmt.Sprintf("identifier %q already present", c.ID), nil)
	}
	s.contacts[c.ID] = c
	if !c.Deleted {
		s.idx.Add(c)
	}
	s.gen.Add(1)
	return nil
}

// FindIdentity scans the non-deleted contacts for one that is the same
// real-world person as candidate (case-insensitive name plus phone match).
// Callers use it to reject duplicates before Add.
func (s *Store) FindIdentity(candidate *contact.Contact) (contact.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.Deleted {
			continue
		}
		if contact.SameIdentity(c, candidate) {
			return *c, true
		}
	}
	return contact.Contact{}, false
}

// Get returns a copy of the contact with the given identifier, tombstones
// included. Unknown identifiers return a not-found error.
func (s *Store) Get(id string) (contact.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return contact.Contact{}, rdxerr.NotFound(id)
	}
	return *c, nil
}

// Edit applies mutate to the contact, advancing UpdatedAt and moving index
// entries from the old field values to the new ones. The identifier and
// CreatedAt are restored afterwards; they are immutable for the life of
// the contact. Editing a tombstone or an unknown id is a not-found error.
func (s *Store) Edit(id string, mutate func(*contact.Contact)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok || c.Deleted {
		return rdxerr.NotFound(id)
	}

	old := *c
	mutate(c)
	c.ID = old.ID
	c.CreatedAt = old.CreatedAt
	c.Deleted = false
	c.Touch()

	s.idx.Update(&old, c)
	s.gen.Add(1)
	return nil
}

// Delete soft-deletes the contact: the tombstone flag is set, UpdatedAt
// advances, and index entries are removed. The record itself stays in the
// store.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok || c.Deleted {
		return rdxerr.NotFound(id)
	}
	s.idx.Remove(c)
	c.Deleted = true
	c.Touch()
	s.gen.Add(1)
	return nil
}

// All returns value copies of every non-deleted contact, ordered by name
// then identifier. Search workers iterate this slice without touching the
// live map.
func (s *Store) All() []contact.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contact.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if c.Deleted {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Snapshot returns value copies of the whole collection, tombstones
// included. This is the shape the storage port persists and the merge
// engine mutates as its working copy.
func (s *Store) Snapshot() map[string]contact.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]contact.Contact, len(s.contacts))
	for id, c := range s.contacts {
		out[id] = *c
	}
	return out
}

// Replace atomically swaps in a merged collection and its index. Only the
// merge engine calls this, and only after every foreign record applied
// cleanly.
func (s *Store) Replace(contacts map[string]*contact.Contact, idx *index.Dual) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = contacts
	s.idx = idx
	s.gen.Add(1)
}

// Index exposes the dual index for read-only lookups.
func (s *Store) Index() *index.Dual {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// Len counts non-deleted contacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.contacts {
		if !c.Deleted {
			n++
		}
	}
	return n
}

// Total counts all records including tombstones.
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}

// Generation returns the mutation counter used for cache invalidation.
func (s *Store) Generation() uint64 {
	return s.gen.Load()
}
