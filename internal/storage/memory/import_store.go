package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// ImportStore is an in-memory implementation of storage.ImportStore.
type ImportStore struct {
	mu   sync.RWMutex
	data map[string]domain.ImportRecord
}

// NewImportStore creates a new in-memory import store.
func NewImportStore() *ImportStore {
	return &ImportStore{data: make(map[string]domain.ImportRecord)}
}

var _ storage.ImportStore = (*ImportStore)(nil)

// Create records a new import batch in pending state.
func (s *ImportStore) Create(_ context.Context, rec *domain.ImportRecord) error {
	if rec == nil || rec.SourceType == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = domain.ImportPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	s.data[rec.ID] = *rec
	return nil
}

// MarkStatus transitions an import to processed or failed.
func (s *ImportStore) MarkStatus(_ context.Context, id string, status domain.ImportStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}
	rec.Status = status
	s.data[id] = rec
	return nil
}

// List retrieves all imports, newest first.
func (s *ImportStore) List(_ context.Context) ([]domain.ImportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ImportRecord, 0, len(s.data))
	for _, rec := range s.data {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
