// internal/store/memory.go
//
// Store interface for in-progress games and its in-memory implementation.
// Only the state needed to resume a game is kept (word, guesses, clock);
// results and scores are never recorded.
//
// Characteristics of the memory store:
//   - Records keyed by game ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: not found")

// Record is the persisted state of one game.
type Record struct {
	ID        string
	Mode      string
	Word      string
	Category  int
	Guessed   string
	TimeLeft  int
	UpdatedAt time.Time
}

// Store persists game records.
// Implementations: memory (this file) and SQLite (sqlite.go).
type Store interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, r Record) error

	// Get retrieves a record by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Delete removes a record; deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteBefore removes records last updated before cutoff and returns
	// how many went.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Close releases resources.
	Close() error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards records map
	records map[string]Record // keyed by Record.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{records: make(map[string]Record)}
}

// Save adds or updates the record in the map.
func (m *memory) Save(ctx context.Context, r Record) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	return nil
}

// Get looks up a record by ID.
func (m *memory) Get(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return Record{}, ErrNotFound
}

// Delete removes the record if present.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// DeleteBefore drops stale records.
func (m *memory) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, r := range m.records {
		if r.UpdatedAt.Before(cutoff) {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

func (m *memory) Close() error { return nil }
