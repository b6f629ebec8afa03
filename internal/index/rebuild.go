package index

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

// MaxWorkers caps the fan-out for rebuilds and search partitioning.
const MaxWorkers = 5

// WorkerCount picks the number of workers for a collection of n contacts.
// Small collections are not worth the goroutine overhead.
func WorkerCount(n int) int {
	switch {
	case n <= 100:
		return 1
	case n <= 200:
		return 2
	case n <= 500:
		return 3
	case n <= 1000:
		return 4
	default:
		return MaxWorkers
	}
}

// Partition slices [0,n) into contiguous per-worker ranges. Worker i
// (1-indexed) of w covers [floor(n/w)*(i-1), floor(n/w)*i); the last
// worker absorbs the remainder of the integer division.
func Partition(n, w int) [][2]int {
	size := n / w
	parts := make([][2]int, 0, w)
	for i := 1; i <= w; i++ {
		start, end := size*(i-1), size*i
		if i == w {
			end = n
		}
		parts = append(parts, [2]int{start, end})
	}
	return parts
}

// shard is a worker-local accumulation. Workers fill their shard without
// any shared state and merge it into the result under one lock
// acquisition, so the result is an order-independent union.
type shard struct {
	names   map[string]map[string]struct{}
	domains map[string]map[string]struct{}
}

func newShard() *shard {
	return &shard{
		names:   make(map[string]map[string]struct{}),
		domains: make(map[string]map[string]struct{}),
	}
}

func (s *shard) add(c *contact.Contact) {
	for _, tok := range contact.NameTokens(c.Name) {
		insert(s.names, tok, c.ID)
	}
	if dom := c.Domain(); dom != "" {
		insert(s.domains, dom, c.ID)
	}
}

// Rebuild constructs a fresh index over all non-deleted contacts using a
// size-proportional number of short-lived workers. Tombstones are filtered
// out before partitioning, so the fan-out is sized by the live population.
// The caller blocks until every worker finishes. Contents are identical to
// adding the contacts one at a time, regardless of worker count or
// scheduling.
//
// A panic anywhere in the rebuild is converted into an error and fails the
// whole rebuild; partial indexes are never returned.
func Rebuild(ctx context.Context, contacts []*contact.Contact) (d *Dual, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, rdxerr.Poisoned("index rebuild", fmt.Errorf("panic: %v", r))
		}
	}()

	live := make([]*contact.Contact, 0, len(contacts))
	for _, c := range contacts {
		if !c.Deleted {
			live = append(live, c)
		}
	}

	d = New()
	n := len(live)
	if n == 0 {
		return d, nil
	}

	g, _ := errgroup.WithContext(ctx)
	for _, p := range Partition(n, WorkerCount(n)) {
		part := live[p[0]:p[1]]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			local := newShard()
			for _, c := range part {
				local.add(c)
			}
			d.absorb(local)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rdxerr.Poisoned("index rebuild", err)
	}
	return d, nil
}

// absorb merges a worker-local shard into the shared maps under a single
// critical section.
func (d *Dual) absorb(s *shard) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, set := range s.names {
		for id := range set {
			insert(d.names, key, id)
		}
	}
	for key, set := range s.domains {
		for id := range set {
			insert(d.domains, key, id)
		}
	}
}
