package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu      sync.RWMutex
	data    map[string]domain.Account
	wallets map[string]string // wallet address -> account id
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		data:    make(map[string]domain.Account),
		wallets: make(map[string]string),
	}
}

var _ storage.AccountStore = (*AccountStore)(nil)

// Insert adds a new account, assigning its id when empty.
func (s *AccountStore) Insert(_ context.Context, a *domain.Account) error {
	if a == nil || a.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.wallets[a.WalletAddress]; exists {
		return storage.ErrDuplicateKey
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SyncStatus == "" {
		a.SyncStatus = domain.SyncIdle
	}

	s.wallets[a.WalletAddress] = a.ID
	s.data[a.ID] = *a
	return nil
}

// List retrieves all accounts ordered by creation time.
func (s *AccountStore) List(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Account, 0, len(s.data))
	for _, a := range s.data {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetByID retrieves one account.
func (s *AccountStore) GetByID(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := a
	return &copy, nil
}

// UpdateSyncState applies a sync bookkeeping patch.
func (s *AccountStore) UpdateSyncState(_ context.Context, id string, patch domain.SyncStatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}

	if patch.Status != nil {
		a.SyncStatus = *patch.Status
	}
	if patch.LastSyncedAt != nil {
		t := *patch.LastSyncedAt
		a.LastSyncedAt = &t
	}
	if patch.LastSyncedSig != nil {
		a.LastSyncedSig = *patch.LastSyncedSig
	}
	if patch.Error != nil {
		a.SyncErrorMsg = *patch.Error
	}

	s.data[id] = a
	return nil
}
