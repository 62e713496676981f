// Package tracker hands out note derivation indices. The pipeline
// treats it as an external, race-free counter: two concurrent
// reservations for the same (account, pool) pair never return the same
// index.
package tracker

import (
	"fmt"
	"sync"
)

// NoteIndexTracker reserves the next unused derivation index for an
// (account, pool) pair. Implementations must make the reservation
// atomic; the pipeline never read-modify-writes the counter itself.
type NoteIndexTracker interface {
	NextNoteIndex(account string, pool uint64) (uint64, error)
}

type poolKey struct {
	account string
	pool    uint64
}

// InMemory is a mutex-guarded tracker for single-process use and tests.
type InMemory struct {
	mu   sync.Mutex
	next map[poolKey]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{next: make(map[poolKey]uint64)}
}

// NextNoteIndex reserves and returns the next index for (account, pool).
func (t *InMemory) NextNoteIndex(account string, pool uint64) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := poolKey{account: account, pool: pool}
	index := t.next[k]
	t.next[k] = index + 1
	return index, nil
}

// Seed sets the next index to hand out for (account, pool), e.g. after
// scanning the chain for previously used indices.
func (t *InMemory) Seed(account string, pool uint64, next uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next[poolKey{account: account, pool: pool}] = next
}

// Unavailable is a tracker that always fails, for callers that must
// surface tracker outages explicitly.
type Unavailable struct{ Reason string }

func (t Unavailable) NextNoteIndex(string, uint64) (uint64, error) {
	return 0, fmt.Errorf("index tracker unavailable: %s", t.Reason)
}
