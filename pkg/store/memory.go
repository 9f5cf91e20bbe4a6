package store

import (
	"context"
	"sync"
	"time"

	"github.com/graphscape/graphscape/pkg/errors"
)

// MemoryStore is an in-process LayoutStore for tests and single-shot CLI
// runs that do not want a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[[2]string]*LayoutRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[[2]string]*LayoutRecord{}}
}

// Save upserts the record by (graph hash, config hash).
func (s *MemoryStore) Save(ctx context.Context, rec *LayoutRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	cp := *rec

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[[2]string{rec.GraphHash, rec.ConfigHash}] = &cp
	return nil
}

// Load retrieves the record for (graph hash, config hash).
func (s *MemoryStore) Load(ctx context.Context, graphHash, configHash string) (*LayoutRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[[2]string{graphHash, configHash}]
	if !ok {
		return nil, errors.New(errors.ErrCodeLayoutNotFound,
			"no stored layout for graph %s", graphHash)
	}
	cp := *rec
	return &cp, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements LayoutStore.
var _ LayoutStore = (*MemoryStore)(nil)
