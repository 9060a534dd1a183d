// Package memory implements the storage interfaces with in-process
// maps. It backs local-only mode and tests; semantics mirror the
// Postgres backend exactly.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/filter"
	"trading-journal/internal/idhash"
	"trading-journal/internal/storage"
)

// FillStore is an in-memory implementation of storage.FillStore.
type FillStore struct {
	mu   sync.RWMutex
	data map[string]domain.Fill // keyed by fill id
	seen map[string]struct{}    // dedup index: account_id|event_id
}

// NewFillStore creates a new in-memory fill store.
func NewFillStore() *FillStore {
	return &FillStore{
		data: make(map[string]domain.Fill),
		seen: make(map[string]struct{}),
	}
}

var _ storage.FillStore = (*FillStore)(nil)

func dedupKey(accountID, eventID string) string {
	return accountID + "|" + eventID
}

// InsertIdempotent adds fills, skipping any whose dedup key was already
// observed. Event ids are derived from the fill's defining fields when
// the caller did not supply one.
func (s *FillStore) InsertIdempotent(_ context.Context, fills []domain.FillInsert) (storage.InsertResult, error) {
	var result storage.InsertResult

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, in := range fills {
		if in.Symbol == "" || !in.Side.Valid() || !in.MarketType.Valid() {
			return storage.InsertResult{}, storage.ErrInvalidInput
		}

		eventID := in.EventID
		if eventID == "" {
			eventID = idhash.EventID(in.TxRef, in.Time, in.Symbol, in.Quantity, in.Price)
		}

		key := dedupKey(in.AccountID, eventID)
		if _, exists := s.seen[key]; exists {
			result.Skipped++
			continue
		}
		s.seen[key] = struct{}{}

		f := domain.Fill{
			ID:         uuid.NewString(),
			Time:       in.Time,
			Symbol:     in.Symbol,
			MarketType: in.MarketType,
			Side:       in.Side,
			Quantity:   in.Quantity,
			Price:      in.Price,
			Fee:        in.Fee,
			FeeType:    in.FeeType,
			OrderType:  in.OrderType,
			TxRef:      in.TxRef,
			EventID:    eventID,
			Tags:       append([]string(nil), in.Tags...),
			AccountID:  in.AccountID,
			ImportID:   in.ImportID,
		}
		s.data[f.ID] = f
		result.Inserted++
	}

	return result, nil
}

// GetByFilter retrieves fills matching the filter, ordered by timestamp
// ASC with the fill id as a deterministic tiebreak.
func (s *FillStore) GetByFilter(_ context.Context, q domain.FillFilter) ([]domain.Fill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Fill
	for _, f := range s.data {
		if filter.MatchFillFilter(f, q) {
			result = append(result, f)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Time.Equal(result[j].Time) {
			return result[i].Time.Before(result[j].Time)
		}
		return result[i].ID < result[j].ID
	})

	if q.Offset > 0 {
		if q.Offset >= len(result) {
			return nil, nil
		}
		result = result[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}
	return result, nil
}

// DeleteByAccount removes all fills of an account and returns the count.
func (s *FillStore) DeleteByAccount(_ context.Context, accountID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, f := range s.data {
		if f.AccountID == accountID {
			delete(s.data, id)
			delete(s.seen, dedupKey(f.AccountID, f.EventID))
			deleted++
		}
	}
	return deleted, nil
}
