// Package report is the presentation layer: it renders the coordinator's
// aggregated outcomes as a text report and serves them over HTTP. It is
// read-only and never calls back into the pipeline.
package report

import (
	"sync"
	"time"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/coordinator"
)

// Store holds the latest aggregated outcome set for the HTTP API. The
// scheduler replaces the whole set after every run.
type Store struct {
	mu        sync.RWMutex
	outcomes  map[string]coordinator.Outcome
	updatedAt time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{outcomes: make(map[string]coordinator.Outcome)}
}

// Set replaces the stored outcome set.
func (s *Store) Set(outcomes map[string]coordinator.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = outcomes
	s.updatedAt = time.Now()
}

// Snapshot returns the stored outcomes and when they were produced.
func (s *Store) Snapshot() (map[string]coordinator.Outcome, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outcomes := make(map[string]coordinator.Outcome, len(s.outcomes))
	for city, outcome := range s.outcomes {
		outcomes[city] = outcome
	}
	return outcomes, s.updatedAt
}

// Get returns one city's outcome.
func (s *Store) Get(city string) (coordinator.Outcome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcome, ok := s.outcomes[city]
	return outcome, ok
}
