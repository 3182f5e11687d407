// Package tracker provides DependencyTracker, the bounded process-local
// cache mapping a fingerprint to the artifact it identifies. It is the
// shared shape behind the five trackers the orchestrator maintains:
// feature-learner, predictor, preprocessor, data-frame, and warning caches.
package tracker

import (
	"container/list"
	"sync"

	"github.com/relauto/engine/fingerprint"
)

// DefaultCapacity is the tracker's default bound: a "small single-digit
// thousands" cache per spec.md §4.2.
const DefaultCapacity = 4096

// DependencyTracker is a bounded, process-local cache mapping
// fingerprint.Fingerprint -> T. It never mutates an existing entry: a
// second Add with a key already present is a no-op (first-writer-wins),
// and entries are only ever dropped by Clear or capacity-driven eviction
// of the oldest insertion.
type DependencyTracker[T any] struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]*list.Element // key -> list element holding *entry[T]
	order    *list.List               // insertion order, oldest at Front
}

type entry[T any] struct {
	key      string
	artifact T
}

// New creates a tracker with the given capacity. A non-positive capacity
// falls back to DefaultCapacity.
func New[T any](capacity int) *DependencyTracker[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &DependencyTracker[T]{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Retrieve returns the artifact stored under fp's canonical key, if any.
// Lookup is a single map access (O(1), satisfies the "logarithmic or
// better" bound spec.md §4.2 requires).
func (t *DependencyTracker[T]) Retrieve(fp fingerprint.Fingerprint) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	el, ok := t.entries[fp.String()]
	if !ok {
		var zero T
		return zero, false
	}
	return el.Value.(*entry[T]).artifact, true
}

// Add inserts (fp, artifact) unless an entry for that key already exists,
// in which case the existing entry is kept (first-writer-wins). The caller
// passes the artifact's fingerprint explicitly; the tracker does not assume
// T implements a particular interface.
func (t *DependencyTracker[T]) Add(fp fingerprint.Fingerprint, artifact T) {
	key := fp.String()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[key]; exists {
		return
	}

	el := t.order.PushBack(&entry[T]{key: key, artifact: artifact})
	t.entries[key] = el

	if t.order.Len() > t.capacity {
		oldest := t.order.Front()
		if oldest != nil {
			t.order.Remove(oldest)
			delete(t.entries, oldest.Value.(*entry[T]).key)
		}
	}
}

// Clear drops all entries.
func (t *DependencyTracker[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]*list.Element)
	t.order.Init()
}

// Len returns the number of entries currently held.
func (t *DependencyTracker[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
