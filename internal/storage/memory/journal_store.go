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

// JournalStore is an in-memory implementation of storage.JournalStore.
type JournalStore struct {
	mu   sync.RWMutex
	data map[string]domain.JournalEntry
}

// NewJournalStore creates a new in-memory journal store.
func NewJournalStore() *JournalStore {
	return &JournalStore{data: make(map[string]domain.JournalEntry)}
}

var _ storage.JournalStore = (*JournalStore)(nil)

// List retrieves all entries, newest first.
func (s *JournalStore) List(_ context.Context) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.JournalEntry, 0, len(s.data))
	for _, e := range s.data {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetByID retrieves one entry.
func (s *JournalStore) GetByID(_ context.Context, id string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := e
	return &copy, nil
}

// Upsert creates or replaces an entry.
func (s *JournalStore) Upsert(_ context.Context, in domain.JournalEntryUpsert) (*domain.JournalEntry, error) {
	if in.Title == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entry domain.JournalEntry
	if in.ID == "" {
		entry = domain.JournalEntry{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
		}
	} else {
		existing, exists := s.data[in.ID]
		if !exists {
			return nil, storage.ErrNotFound
		}
		entry = existing
	}

	entry.TradeRef = in.TradeRef
	entry.AccountID = in.AccountID
	entry.Title = in.Title
	entry.StrategyTag = in.StrategyTag
	entry.Mood = in.Mood
	entry.Mistakes = in.Mistakes
	entry.Lessons = in.Lessons
	entry.ScreenshotURLs = append([]string(nil), in.ScreenshotURLs...)
	entry.CustomTags = append([]string(nil), in.CustomTags...)

	s.data[entry.ID] = entry
	copy := entry
	return &copy, nil
}

// Delete removes an entry.
func (s *JournalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, id)
	return nil
}
