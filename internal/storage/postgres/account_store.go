package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

const accountColumns = `
	id, chain, wallet_address, label, created_at,
	last_synced_at, last_synced_sig, sync_status, sync_error
`

// Insert adds a new account. Returns ErrDuplicateKey when the wallet
// address is already linked.
func (s *AccountStore) Insert(ctx context.Context, a *domain.Account) error {
	if a.WalletAddress == "" {
		return storage.ErrInvalidInput
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.SyncStatus == "" {
		a.SyncStatus = domain.SyncIdle
	}

	query := `
		INSERT INTO accounts (
			id, chain, wallet_address, label, created_at,
			last_synced_at, last_synced_sig, sync_status, sync_error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		a.ID, a.Chain, a.WalletAddress, a.Label, a.CreatedAt,
		a.LastSyncedAt, a.LastSyncedSig, a.SyncStatus, a.SyncErrorMsg,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// List retrieves all accounts ordered by creation time.
func (s *AccountStore) List(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		err := rows.Scan(
			&a.ID, &a.Chain, &a.WalletAddress, &a.Label, &a.CreatedAt,
			&a.LastSyncedAt, &a.LastSyncedSig, &a.SyncStatus, &a.SyncErrorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// GetByID retrieves one account. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	var a domain.Account
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Chain, &a.WalletAddress, &a.Label, &a.CreatedAt,
		&a.LastSyncedAt, &a.LastSyncedSig, &a.SyncStatus, &a.SyncErrorMsg,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return &a, nil
}

// UpdateSyncState applies a sync bookkeeping patch; nil fields are left
// unchanged.
func (s *AccountStore) UpdateSyncState(ctx context.Context, id string, patch domain.SyncStatePatch) error {
	var (
		sets []string
		args []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Status != nil {
		sets = append(sets, "sync_status = "+arg(*patch.Status))
	}
	if patch.LastSyncedAt != nil {
		sets = append(sets, "last_synced_at = "+arg(*patch.LastSyncedAt))
	}
	if patch.LastSyncedSig != nil {
		sets = append(sets, "last_synced_sig = "+arg(*patch.LastSyncedSig))
	}
	if patch.Error != nil {
		sets = append(sets, "sync_error = "+arg(*patch.Error))
	}
	if len(sets) == 0 {
		// Empty patch still has to confirm the account exists.
		_, err := s.GetByID(ctx, id)
		return err
	}

	query := "UPDATE accounts SET " + strings.Join(sets, ", ") + " WHERE id = " + arg(id)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update account sync state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
