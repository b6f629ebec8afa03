// Package index maintains the two derived lookup maps over the contact
// store: name token -> id set and email domain -> id set. Buckets hold
// identifiers only; resolving a hit always goes back through the store.
package index

import (
	"sync"

	"github.com/uche09/rolodex/internal/contact"
)

// Dual is the pair of derived lookup maps. Both maps are guarded by one
// RWMutex; writers are the store's mutation path and the rebuild merge
// step, readers are the search engine.
type Dual struct {
	mu      sync.RWMutex
	names   map[string]map[string]struct{}
	domains map[string]map[string]struct{}
}

// New returns an empty dual index.
func New() *Dual {
	return &Dual{
		names:   make(map[string]map[string]struct{}),
		domains: make(map[string]map[string]struct{}),
	}
}

// Add inserts the contact's name tokens and email domain into the index.
// A contact with an empty name contributes no name entries; an empty email
// contributes no domain entry.
func (d *Dual) Add(c *contact.Contact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addLocked(c)
}

func (d *Dual) addLocked(c *contact.Contact) {
	for _, tok := range contact.NameTokens(c.Name) {
		insert(d.names, tok, c.ID)
	}
	if dom := c.Domain(); dom != "" {
		insert(d.domains, dom, c.ID)
	}
}

// Remove deletes the contact's entries and prunes any bucket that becomes
// empty. Removing a contact that was never indexed is a no-op.
func (d *Dual) Remove(c *contact.Contact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, tok := range contact.NameTokens(c.Name) {
		remove(d.names, tok, c.ID)
	}
	if dom := c.Domain(); dom != "" {
		remove(d.domains, dom, c.ID)
	}
}

// Update replaces the entries for old with entries for updated. Both must
// carry the same identifier; the caller passes the pre-mutation and
// post-mutation views of the contact.
func (d *Dual) Update(old, updated *contact.Contact) {
	d.Remove(old)
	d.Add(updated)
}

// NameBucket returns a copy of the id set for a lowercased name token.
func (d *Dual) NameBucket(token string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return ids(d.names[token])
}

// DomainBucket returns a copy of the id set for a lowercased domain.
func (d *Dual) DomainBucket(domain string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return ids(d.domains[domain])
}

// Clone returns a deep copy. Used by the merge engine so conflict aborts
// leave the live index untouched.
func (d *Dual) Clone() *Dual {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := New()
	for k, set := range d.names {
		out.names[k] = copySet(set)
	}
	for k, set := range d.domains {
		out.domains[k] = copySet(set)
	}
	return out
}

// Stats returns the number of name and domain buckets.
func (d *Dual) Stats() (nameBuckets, domainBuckets int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.names), len(d.domains)
}

// Equal reports whether two indexes hold identical contents. Only used by
// tests and the rebuild equivalence checks.
func (d *Dual) Equal(other *Dual) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	return mapsEqual(d.names, other.names) && mapsEqual(d.domains, other.domains)
}

func insert(m map[string]map[string]struct{}, key, id string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[id] = struct{}{}
}

func remove(m map[string]map[string]struct{}, key, id string) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(m, key)
	}
}

func ids(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}

func mapsEqual(a, b map[string]map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k, as := range a {
		bs, ok := b[k]
		if !ok || len(as) != len(bs) {
			return false
		}
		for id := range as {
			if _, ok := bs[id]; !ok {
				return false
			}
		}
	}
	return true
}
