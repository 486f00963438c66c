package activity

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Entries are lost on restart; PostgresRepository keeps them.
type InMemoryRepository struct {
	mu       sync.RWMutex
	entries  []*Entry
	capacity int
}

// NewInMemoryRepository creates a repository that keeps at most capacity entries.
// capacity <= 0 keeps everything.
func NewInMemoryRepository(capacity int) *InMemoryRepository {
	return &InMemoryRepository{capacity: capacity}
}

// Record stores a copy of entry.
func (r *InMemoryRepository) Record(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *entry
	r.entries = append(r.entries, &cpy)
	if r.capacity > 0 && len(r.entries) > r.capacity {
		r.entries = r.entries[len(r.entries)-r.capacity:]
	}
	return nil
}

// List returns the most recent entries, newest first.
func (r *InMemoryRepository) List(_ context.Context, limit int) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	out := make([]*Entry, 0, min(limit, len(r.entries)))
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		cpy := *r.entries[i]
		out = append(out, &cpy)
	}
	return out, nil
}

var _ Repository = (*InMemoryRepository)(nil)
