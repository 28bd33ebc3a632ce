package policy

import (
	"sync"
	"time"
)

// Store holds the current policy snapshot and swaps it atomically when a
// new snapshot is loaded. Readers receive a snapshot value and keep it for
// the whole evaluation; a swap never affects an in-flight decision.
type Store struct {
	mu       sync.RWMutex
	current  *Snapshot
	loadTime time.Time
}

// NewStore creates a store holding the given initial snapshot.
func NewStore(initial *Snapshot) *Store {
	return &Store{
		current:  initial,
		loadTime: time.Now().UTC(),
	}
}

// Current returns the snapshot decisions should be evaluated against.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Replace atomically installs a new snapshot. The previous snapshot value
// stays valid for readers that already hold it.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = snap
	s.loadTime = time.Now().UTC()
}

// LoadTime returns when the current snapshot was installed.
func (s *Store) LoadTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadTime
}
