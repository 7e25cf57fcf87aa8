// Package history persists pipeline run outcomes so past classifications can
// be inspected after the cache has moved on.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
)

// ErrEntryNotFound is returned when no history exists for a city.
var ErrEntryNotFound = errors.New("history entry not found")

// Entry is one city's outcome from one pipeline run.
type Entry struct {
	ID         uuid.UUID
	RunID      uuid.UUID
	City       string
	Provenance airquality.Provenance
	Category   airquality.Category
	Dominant   airquality.Pollutant
	Records    []airquality.PollutantRecord
	FetchedAt  time.Time
	CreatedAt  time.Time
}

// ListOptions contains options for listing history entries.
type ListOptions struct {
	Limit int
}

// Repository defines the interface for history persistence.
type Repository interface {
	// Save stores one entry.
	Save(ctx context.Context, entry *Entry) error

	// ListByCity retrieves the most recent entries for a city, newest first.
	ListByCity(ctx context.Context, city string, opts ListOptions) ([]*Entry, error)

	// Latest retrieves the most recent entry for a city.
	// Returns ErrEntryNotFound if the city has no history.
	Latest(ctx context.Context, city string) (*Entry, error)
}

// FromResult builds an entry from an enriched result.
func FromResult(runID uuid.UUID, result airquality.EnrichedResult) *Entry {
	return &Entry{
		ID:         uuid.New(),
		RunID:      runID,
		City:       result.City,
		Provenance: result.Provenance,
		Category:   result.Classification.Category,
		Dominant:   result.Classification.Dominant,
		Records:    result.Records,
		FetchedAt:  result.FetchedAt,
		CreatedAt:  time.Now(),
	}
}
