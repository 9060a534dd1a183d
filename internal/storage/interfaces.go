package storage

import (
	"context"

	"trading-journal/internal/domain"
)

// InsertResult reports the outcome of an idempotent batch insert.
type InsertResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// FillStore provides access to fill storage. Fills are append-only:
// they are inserted by imports and syncs, never updated, and removed
// only by a bulk reset.
type FillStore interface {
	// InsertIdempotent adds fills, deriving each fill's event id when
	// absent and silently skipping fills whose (account_id, event_id)
	// already exists. Re-delivering a batch is safe.
	InsertIdempotent(ctx context.Context, fills []domain.FillInsert) (InsertResult, error)

	// GetByFilter retrieves fills matching the filter, ordered by
	// timestamp ASC. Filter translation must match the predicate
	// semantics of the filter package exactly.
	GetByFilter(ctx context.Context, q domain.FillFilter) ([]domain.Fill, error)

	// DeleteByAccount removes all fills of an account (bulk data
	// reset). An empty accountID targets fills without an account.
	DeleteByAccount(ctx context.Context, accountID string) (int, error)
}

// AnnotationStore provides access to per-fill annotations.
type AnnotationStore interface {
	// GetByFillID retrieves the annotation for a fill. Returns
	// ErrNotFound if the fill has none.
	GetByFillID(ctx context.Context, fillID string) (*domain.FillAnnotation, error)

	// Upsert creates or replaces the annotation for a fill; there is at
	// most one per fill.
	Upsert(ctx context.Context, fillID, note string, tags []string) (*domain.FillAnnotation, error)
}

// JournalStore provides CRUD access to journal entries.
type JournalStore interface {
	// List retrieves all entries, newest first.
	List(ctx context.Context) ([]domain.JournalEntry, error)

	// GetByID retrieves one entry. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)

	// Upsert creates the entry when its ID is empty, otherwise replaces
	// the stored entry's editable fields. Returns ErrNotFound when an
	// explicit ID does not exist.
	Upsert(ctx context.Context, entry domain.JournalEntryUpsert) (*domain.JournalEntry, error)

	// Delete removes an entry. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, id string) error
}

// AccountStore provides access to linked trading accounts.
type AccountStore interface {
	// Insert adds a new account. Returns ErrDuplicateKey when the
	// wallet address is already linked.
	Insert(ctx context.Context, a *domain.Account) error

	// List retrieves all accounts ordered by creation time.
	List(ctx context.Context) ([]domain.Account, error)

	// GetByID retrieves one account. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// UpdateSyncState applies a sync bookkeeping patch; nil fields are
	// left unchanged. Returns ErrNotFound if the account does not exist.
	UpdateSyncState(ctx context.Context, id string, patch domain.SyncStatePatch) error
}

// ImportStore provides access to import provenance rows.
type ImportStore interface {
	// Create records a new import batch in pending state.
	Create(ctx context.Context, rec *domain.ImportRecord) error

	// MarkStatus transitions an import to processed or failed. Returns
	// ErrNotFound if the import does not exist.
	MarkStatus(ctx context.Context, id string, status domain.ImportStatus) error

	// List retrieves all imports, newest first.
	List(ctx context.Context) ([]domain.ImportRecord, error)
}

// DailyPnLStore persists per-day analytics snapshots. Snapshots are
// recomputed wholesale per account, so writes replace by (account, day).
type DailyPnLStore interface {
	// InsertBulk upserts snapshot points keyed by (account_id, day).
	InsertBulk(ctx context.Context, points []domain.DailyPnLPoint) error

	// GetByAccount retrieves an account's points ordered by day ASC.
	GetByAccount(ctx context.Context, accountID string) ([]domain.DailyPnLPoint, error)
}
