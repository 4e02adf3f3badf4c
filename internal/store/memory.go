package store

import (
	"context"
	"sync"

	"dganalyzer/internal/models"
)

// MemoryStore keeps the record in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *models.AnalysisRecord
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Write(ctx context.Context, rec *models.AnalysisRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = clone(rec)
	return nil
}

func (s *MemoryStore) Read(ctx context.Context) (*models.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return nil, ErrNotFound
	}
	return clone(s.rec), nil
}
