package dedup

import (
	"sync"
	"time"

	"ticketsync/feature/tickets/remote"
)

// Index is the set of fingerprints known to exist upstream. It only grows.
type Index struct {
	mu  sync.RWMutex
	set map[Fingerprint]struct{}

	locksMu sync.Mutex
	locks   map[Fingerprint]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		set:   make(map[Fingerprint]struct{}),
		locks: make(map[Fingerprint]*keyLock),
	}
}

// Seed builds an index from an upstream ticket listing. It returns the number of
// tickets excluded for being malformed or lacking a usable creation timestamp.
func Seed(tickets []remote.Ticket, lookup CompanyLookup, loc *time.Location) (*Index, int) {
	idx := NewIndex()
	excluded := 0
	for _, t := range tickets {
		fp, err := FromTicket(t, lookup, loc)
		if err != nil {
			excluded++
			continue
		}
		idx.set[fp] = struct{}{}
	}
	return idx, excluded
}

// Contains reports whether fp is known upstream or was added during the run.
func (i *Index) Contains(fp Fingerprint) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.set[fp]
	return ok
}

// Add inserts fp and reports whether it was new.
func (i *Index) Add(fp Fingerprint) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.set[fp]; ok {
		return false
	}
	i.set[fp] = struct{}{}
	return true
}

// Len returns the number of distinct fingerprints.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.set)
}

// Lock serialises work on a single fingerprint. Holders of different
// fingerprints never block each other. The returned func releases the lock and
// must be called exactly once.
func (i *Index) Lock(fp Fingerprint) (unlock func()) {
	i.locksMu.Lock()
	l, ok := i.locks[fp]
	if !ok {
		l = &keyLock{}
		i.locks[fp] = l
	}
	l.refs++
	i.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		i.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(i.locks, fp)
		}
		i.locksMu.Unlock()
	}
}
