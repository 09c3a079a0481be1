package dataset

import (
	"fmt"
	"sync"
	"time"
)

// LoadResult is what a loader produces for one full ingest pass.
type LoadResult struct {
	Trips    []TripRecord
	Expenses []ExpenseRecord
	Warnings []string
}

// Loader rebuilds the base dataset from the source files.
type Loader func() (LoadResult, error)

// Store is the read-through cache of the normalized base dataset. The base
// is loaded once per cache lifetime and treated as immutable; every view
// works on a filtered copy. Invalidation only happens on explicit user
// action or the scheduled reload.
type Store struct {
	mu       sync.RWMutex
	loader   Loader
	loaded   bool
	trips    []TripRecord
	expenses []ExpenseRecord
	warnings []string
	loadedAt time.Time
}

func NewStore(loader Loader) *Store {
	return &Store{loader: loader}
}

// Snapshot returns the shared base dataset, loading it on first access.
// Callers must not mutate the returned slice elements.
func (s *Store) Snapshot() ([]TripRecord, error) {
	s.mu.RLock()
	if s.loaded {
		trips := s.trips
		s.mu.RUnlock()
		return trips, nil
	}
	s.mu.RUnlock()
	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trips, nil
}

// Expenses returns the cached expense ledger, loading the base on first access.
func (s *Store) Expenses() ([]ExpenseRecord, error) {
	if _, err := s.Snapshot(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expenses, nil
}

// Warnings returns the data-quality warnings recorded at the last load
// (weather fetch failures, dropped-row counts).
func (s *Store) Warnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// LoadedAt reports when the cache was last rebuilt.
func (s *Store) LoadedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt, s.loaded
}

// Invalidate drops the cached base; the next Snapshot triggers a reload.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.trips = nil
	s.expenses = nil
	s.warnings = nil
}

// Reload rebuilds the base dataset through the loader.
func (s *Store) Reload() error {
	if s.loader == nil {
		return fmt.Errorf("no loader configured")
	}
	res, err := s.loader()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = res.Trips
	s.expenses = res.Expenses
	s.warnings = res.Warnings
	s.loaded = true
	s.loadedAt = time.Now()
	return nil
}

// SetExpenses replaces the cached ledger, for the dedicated expense upload.
func (s *Store) SetExpenses(rows []ExpenseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = rows
}
