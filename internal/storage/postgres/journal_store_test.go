package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

func TestJournalStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewJournalStore(pool)

	created, err := store.Upsert(ctx, domain.JournalEntryUpsert{
		Title:       "Breakout session",
		StrategyTag: "breakout",
		Mood:        "focused",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	// Update keeps the id and created_at.
	updated, err := store.Upsert(ctx, domain.JournalEntryUpsert{
		ID:      created.ID,
		Title:   "Breakout session",
		Lessons: "Size down on chop",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt.UTC(), updated.CreatedAt.UTC())
	assert.Equal(t, "Size down on chop", updated.Lessons)
	assert.Empty(t, updated.Mood)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Size down on chop", got.Lessons)

	_, err = store.Upsert(ctx, domain.JournalEntryUpsert{ID: "00000000-0000-0000-0000-000000000000", Title: "ghost"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestJournalStore_ListAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewJournalStore(pool)

	first, err := store.Upsert(ctx, domain.JournalEntryUpsert{Title: "first"})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, domain.JournalEntryUpsert{Title: "second"})
	require.NoError(t, err)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	err = store.Delete(ctx, first.ID)
	require.NoError(t, err)
	err = store.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAnnotationStore_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAnnotationStore(pool)

	a, err := store.Upsert(ctx, "fill-1", "late entry", []string{"mistake"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Nil(t, a.UpdatedAt)

	// Second upsert replaces note and tags, keeps the row.
	b, err := store.Upsert(ctx, "fill-1", "late entry, stopped out", nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "late entry, stopped out", b.Note)
	assert.Empty(t, b.Tags)
	assert.NotNil(t, b.UpdatedAt)

	_, err = store.GetByFillID(ctx, "fill-2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccountStore_InsertAndSyncState(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	acct := &domain.Account{Chain: "solana", WalletAddress: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"}
	require.NoError(t, store.Insert(ctx, acct))
	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, domain.SyncIdle, acct.SyncStatus)

	dup := &domain.Account{Chain: "solana", WalletAddress: acct.WalletAddress}
	assert.ErrorIs(t, store.Insert(ctx, dup), storage.ErrDuplicateKey)

	status := domain.SyncOK
	sig := "5KtP3k"
	err := store.UpdateSyncState(ctx, acct.ID, domain.SyncStatePatch{
		Status:        &status,
		LastSyncedSig: &sig,
	})
	require.NoError(t, err)

	got, err := store.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncOK, got.SyncStatus)
	assert.Equal(t, "5KtP3k", got.LastSyncedSig)
	// Untouched patch fields keep their values.
	assert.Nil(t, got.LastSyncedAt)

	err = store.UpdateSyncState(ctx, "00000000-0000-0000-0000-000000000000", domain.SyncStatePatch{Status: ptr(domain.SyncError)})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	accounts, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestImportStore_Lifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewImportStore(pool)

	rec := &domain.ImportRecord{SourceType: domain.ImportCSV, SourceLabel: "fills.csv"}
	require.NoError(t, store.Create(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, domain.ImportPending, rec.Status)

	require.NoError(t, store.MarkStatus(ctx, rec.ID, domain.ImportProcessed))
	assert.ErrorIs(t, store.MarkStatus(ctx, "00000000-0000-0000-0000-000000000000", domain.ImportFailed), storage.ErrNotFound)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.ImportProcessed, recs[0].Status)
}
