// Package search provides read-only queries over the store and its dual
// index: exact name lookup, fuzzy name ranking, and domain membership.
// Fuzzy scoring fans out over the same contiguous partitions the index
// rebuild uses, and recent results are served from a small LRU keyed by
// store generation.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
	"github.com/uche09/rolodex/internal/index"
	"github.com/uche09/rolodex/internal/mem"
)

const (
	// MaxQueryLen bounds fuzzy name queries.
	MaxQueryLen = 30
	// MaxDomainLen bounds domain queries.
	MaxDomainLen = 15
	// MinScore is the similarity floor for fuzzy candidates.
	MinScore = 0.4
	// MaxResults caps the fuzzy result list.
	MaxResults = 10

	// fuzzyCacheSize is deliberately small; the cache only has to absorb
	// repeated queries within one interactive session.
	fuzzyCacheSize = 128
)

// Engine answers queries against a store. It never mutates contacts.
type Engine struct {
	store *mem.Store
	cache *lru.Cache[string, []contact.Contact]

	// similarity scores a lowercased query against a lowercased name.
	similarity func(query, name string) (float32, error)
}

// NewEngine creates a search engine over the given store.
func NewEngine(store *mem.Store) *Engine {
	cache, _ := lru.New[string, []contact.Contact](fuzzyCacheSize)
	return &Engine{
		store: store,
		cache: cache,
		similarity: func(query, name string) (float32, error) {
			return edlib.StringsSimilarity(query, name, edlib.JaroWinkler)
		},
	}
}

// FindByName looks up contacts whose full name equals the query,
// case-insensitively. Candidates are gathered as the union of the name
// index buckets for each query token, then filtered to exact full-name
// matches. The second return is false when nothing matched.
func (e *Engine) FindByName(name string) ([]string, bool) {
	idx := e.store.Index()

	candidates := make(map[string]struct{})
	for _, tok := range contact.NameTokens(name) {
		for _, id := range idx.NameBucket(tok) {
			candidates[id] = struct{}{}
		}
	}

	var ids []string
	for id := range candidates {
		c, err := e.store.Get(id)
		if err != nil || c.Deleted {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, false
	}
	sort.Strings(ids)
	return ids, true
}

// scored pairs a contact with its similarity to the query.
type scored struct {
	contact contact.Contact
	score   float64
}

// FuzzySearch ranks non-deleted contacts by Jaro-Winkler similarity
// between the lowercased query and each lowercased name. Candidates below
// MinScore are dropped and at most MaxResults are returned, ordered by
// score descending, then name, then identifier, so equal scores rank
// deterministically.
func (e *Engine) FuzzySearch(ctx context.Context, query string) ([]contact.Contact, error) {
	if query == "" {
		return nil, rdxerr.Validation(rdxerr.CodeQueryEmpty, "search query is empty")
	}
	if utf8.RuneCountInString(query) > MaxQueryLen {
		return nil, rdxerr.Validation(rdxerr.CodeQueryTooLong,
			fmt.Sprintf("search query exceeds %d characters", MaxQueryLen))
	}

	lower := strings.ToLower(query)
	key := fmt.Sprintf("%d:%s", e.store.Generation(), lower)
	if hit, ok := e.cache.Get(key); ok {
		return hit, nil
	}

	all := e.store.All()
	n := len(all)
	if n == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		matches []scored
	)
	g, _ := errgroup.WithContext(ctx)
	for _, p := range index.Partition(n, index.WorkerCount(n)) {
		part := all[p[0]:p[1]]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			local := make([]scored, 0, len(part))
			for _, c := range part {
				sim, serr := e.similarity(lower, strings.ToLower(c.Name))
				if serr != nil {
					return serr
				}
				if float64(sim) >= MinScore {
					local = append(local, scored{contact: c, score: float64(sim)})
				}
			}
			mu.Lock()
			matches = append(matches, local...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rdxerr.Poisoned("fuzzy search", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		if matches[i].contact.Name != matches[j].contact.Name {
			return matches[i].contact.Name < matches[j].contact.Name
		}
		return matches[i].contact.ID < matches[j].contact.ID
	})
	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}

	out := make([]contact.Contact, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.contact)
	}
	e.cache.Add(key, out)
	return out, nil
}

// SearchByDomain returns every non-deleted contact in the exact lowercased
// domain bucket. Despite sharing a command with fuzzy name search, this is
// an exact key lookup.
func (e *Engine) SearchByDomain(domain string) ([]contact.Contact, error) {
	if domain == "" {
		return nil, rdxerr.Validation(rdxerr.CodeQueryEmpty, "domain is empty")
	}
	if utf8.RuneCountInString(domain) > MaxDomainLen {
		return nil, rdxerr.Validation(rdxerr.CodeQueryTooLong,
			fmt.Sprintf("domain exceeds %d characters", MaxDomainLen))
	}

	ids := e.store.Index().DomainBucket(strings.ToLower(domain))
	out := make([]contact.Contact, 0, len(ids))
	for _, id := range ids {
		c, err := e.store.Get(id)
		if err != nil || c.Deleted {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
