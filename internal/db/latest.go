package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dganalyzer/internal/models"
	"dganalyzer/internal/store"
)

var _ store.Store = (*DB)(nil)

// Write replaces the single latest_analysis row.
func (d *DB) Write(ctx context.Context, rec *models.AnalysisRecord) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO latest_analysis (id, dataset, analysis, submitted_at)
		VALUES (1, $1, $2::json, $3)
		ON CONFLICT (id) DO UPDATE
		SET dataset = EXCLUDED.dataset,
		    analysis = EXCLUDED.analysis,
		    submitted_at = EXCLUDED.submitted_at
	`, rec.Dataset, string(rec.Analysis), rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to write latest analysis: %w", err)
	}
	return nil
}

// Read returns the latest_analysis row, or store.ErrNotFound.
func (d *DB) Read(ctx context.Context) (*models.AnalysisRecord, error) {
	var (
		rec      models.AnalysisRecord
		analysis string
	)
	err := d.Pool.QueryRow(ctx, `
		SELECT dataset, analysis::text, submitted_at
		FROM latest_analysis
		WHERE id = 1
	`).Scan(&rec.Dataset, &analysis, &rec.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read latest analysis: %w", err)
	}

	rec.Analysis = json.RawMessage(analysis)
	rec.Timestamp = rec.Timestamp.UTC()
	return &rec, nil
}
