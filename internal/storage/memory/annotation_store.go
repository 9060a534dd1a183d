package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// AnnotationStore is an in-memory implementation of
// storage.AnnotationStore.
type AnnotationStore struct {
	mu   sync.RWMutex
	data map[string]domain.FillAnnotation // keyed by fill id
}

// NewAnnotationStore creates a new in-memory annotation store.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{data: make(map[string]domain.FillAnnotation)}
}

var _ storage.AnnotationStore = (*AnnotationStore)(nil)

// GetByFillID retrieves the annotation for a fill.
func (s *AnnotationStore) GetByFillID(_ context.Context, fillID string) (*domain.FillAnnotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[fillID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := a
	return &copy, nil
}

// Upsert creates or replaces the annotation for a fill.
func (s *AnnotationStore) Upsert(_ context.Context, fillID, note string, tags []string) (*domain.FillAnnotation, error) {
	if fillID == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	a, exists := s.data[fillID]
	if !exists {
		a = domain.FillAnnotation{
			ID:        uuid.NewString(),
			FillID:    fillID,
			CreatedAt: now,
		}
	} else {
		a.UpdatedAt = &now
	}
	a.Note = note
	a.Tags = append([]string(nil), tags...)

	s.data[fillID] = a
	copy := a
	return &copy, nil
}
