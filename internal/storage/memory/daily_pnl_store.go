package memory

import (
	"context"
	"sort"
	"sync"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// DailyPnLStore is an in-memory implementation of storage.DailyPnLStore.
type DailyPnLStore struct {
	mu   sync.RWMutex
	data map[string]domain.DailyPnLPoint // keyed by account_id|day
}

// NewDailyPnLStore creates a new in-memory daily PnL snapshot store.
func NewDailyPnLStore() *DailyPnLStore {
	return &DailyPnLStore{data: make(map[string]domain.DailyPnLPoint)}
}

var _ storage.DailyPnLStore = (*DailyPnLStore)(nil)

// InsertBulk upserts snapshot points keyed by (account_id, day).
func (s *DailyPnLStore) InsertBulk(_ context.Context, points []domain.DailyPnLPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p.Day == "" {
			return storage.ErrInvalidInput
		}
		s.data[p.AccountID+"|"+p.Day] = p
	}
	return nil
}

// GetByAccount retrieves an account's points ordered by day ASC.
func (s *DailyPnLStore) GetByAccount(_ context.Context, accountID string) ([]domain.DailyPnLPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.DailyPnLPoint
	for _, p := range s.data {
		if p.AccountID == accountID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})
	return result, nil
}
