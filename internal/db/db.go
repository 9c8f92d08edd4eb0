// Package db provides PostgreSQL access for catalog reference tables and
// advisor run history.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for every table this package reads or writes
//
//go:embed schema.sql
var Schema string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates any missing tables.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SaveRun stores the outputs of one advisor run under its run id
func (db *DB) SaveRun(ctx context.Context, runID uuid.UUID, trackID, targetTerm string, allocation, recommendations any) error {
	allocationJSON, err := json.Marshal(allocation)
	if err != nil {
		return fmt.Errorf("failed to marshal allocation: %w", err)
	}
	recommendationsJSON, err := json.Marshal(recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO advisor_runs (id, track_id, target_term, allocation, recommendations)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET allocation = $4, recommendations = $5`,
		runID, trackID, targetTerm, allocationJSON, recommendationsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", runID, err)
	}
	return nil
}

// GetRun retrieves a stored run by ID. Returns nil when it does not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, track_id, target_term, created_at FROM advisor_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.TrackID, &run.TargetTerm, &run.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// GetRunRecommendations retrieves the stored recommendation JSON of a run
func (db *DB) GetRunRecommendations(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT recommendations FROM advisor_runs WHERE id = $1`,
		runID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recommendations for run %s: %w", runID, err)
	}
	return content, nil
}

// ListRuns retrieves recent runs of a track, newest first
func (db *DB) ListRuns(ctx context.Context, trackID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, track_id, target_term, created_at
		 FROM advisor_runs WHERE track_id = $1 ORDER BY created_at DESC LIMIT $2`,
		trackID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.TrackID, &run.TargetTerm, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
