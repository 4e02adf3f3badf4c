// Package store holds the single most recent governance analysis.
package store

import (
	"context"
	"errors"

	"dganalyzer/internal/models"
)

// ErrNotFound is returned by Read when nothing has been written yet.
var ErrNotFound = errors.New("analysis record not found")

// Store persists the latest AnalysisRecord. Write fully replaces whatever was
// there before; readers never observe a partial record.
type Store interface {
	Write(ctx context.Context, rec *models.AnalysisRecord) error
	Read(ctx context.Context) (*models.AnalysisRecord, error)
}

// Pinger is implemented by stores that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func clone(rec *models.AnalysisRecord) *models.AnalysisRecord {
	out := *rec
	out.Analysis = append([]byte(nil), rec.Analysis...)
	return &out
}
