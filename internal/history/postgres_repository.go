package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL history repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save stores one entry. Pollutant records are kept as JSONB.
func (r *PostgresRepository) Save(ctx context.Context, entry *Entry) error {
	records, err := json.Marshal(entry.Records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	query := `
		INSERT INTO run_history (
			id, run_id, city, provenance, category, dominant_pollutant,
			records, fetched_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		entry.ID,
		entry.RunID,
		entry.City,
		string(entry.Provenance),
		int(entry.Category),
		string(entry.Dominant),
		records,
		entry.FetchedAt,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// ListByCity retrieves the most recent entries for a city, newest first.
func (r *PostgresRepository) ListByCity(ctx context.Context, city string, opts ListOptions) ([]*Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, run_id, city, provenance, category, dominant_pollutant,
		       records, fetched_at, created_at
		FROM run_history
		WHERE city = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Latest retrieves the most recent entry for a city.
func (r *PostgresRepository) Latest(ctx context.Context, city string) (*Entry, error) {
	query := `
		SELECT id, run_id, city, provenance, category, dominant_pollutant,
		       records, fetched_at, created_at
		FROM run_history
		WHERE city = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	rows, err := r.pool.Query(ctx, query, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEntryNotFound
	}
	return scanEntry(rows)
}

// scanEntry scans one row into an Entry.
func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		entry      Entry
		provenance string
		category   int
		dominant   string
		records    []byte
	)

	err := row.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.City,
		&provenance,
		&category,
		&dominant,
		&records,
		&entry.FetchedAt,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	entry.Provenance = airquality.Provenance(provenance)
	entry.Category = airquality.Category(category)
	entry.Dominant = airquality.Pollutant(dominant)
	if err := json.Unmarshal(records, &entry.Records); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	return &entry, nil
}
