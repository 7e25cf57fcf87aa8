package history

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and for running without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]*Entry // city -> entries, newest first
}

// NewInMemoryRepository creates a new in-memory history repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[string][]*Entry),
	}
}

// Save stores one entry.
func (r *InMemoryRepository) Save(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *entry
	r.entries[entry.City] = append([]*Entry{&cpy}, r.entries[entry.City]...)
	return nil
}

// ListByCity retrieves the most recent entries for a city, newest first.
func (r *InMemoryRepository) ListByCity(_ context.Context, city string, opts ListOptions) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	stored := r.entries[city]
	if len(stored) > limit {
		stored = stored[:limit]
	}

	entries := make([]*Entry, 0, len(stored))
	for _, entry := range stored {
		cpy := *entry
		entries = append(entries, &cpy)
	}
	return entries, nil
}

// Latest retrieves the most recent entry for a city.
func (r *InMemoryRepository) Latest(_ context.Context, city string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[city]
	if len(stored) == 0 {
		return nil, ErrEntryNotFound
	}

	cpy := *stored[0]
	return &cpy, nil
}
