package sync

import (
	"context"
	"fmt"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// Result summarizes one completed account sync.
type Result struct {
	Inserted   int    `json:"inserted"`
	Skipped    int    `json:"skipped"`
	NextCursor Cursor `json:"-"`
}

// Stores is the storage surface a sync run touches.
type Stores struct {
	Fills    storage.FillStore
	Accounts storage.AccountStore
	Imports  storage.ImportStore
}

// RunAccountSync fetches new fills for the account and lands them
// idempotently. The account's sync state moves syncing -> ok on
// success, syncing -> error on any failure, and the import provenance
// row tracks the batch either way.
func RunAccountSync(ctx context.Context, account domain.Account, provider Provider, stores Stores) (Result, error) {
	syncing := domain.SyncRunning
	clearErr := ""
	if err := stores.Accounts.UpdateSyncState(ctx, account.ID, domain.SyncStatePatch{
		Status: &syncing,
		Error:  &clearErr,
	}); err != nil {
		return Result{}, fmt.Errorf("mark account syncing: %w", err)
	}

	importRow := &domain.ImportRecord{
		SourceType:  provider.Source(),
		SourceLabel: fmt.Sprintf("%s sync", provider.Source()),
		AccountID:   account.ID,
	}
	if err := stores.Imports.Create(ctx, importRow); err != nil {
		return Result{}, failSync(ctx, stores, account.ID, nil, fmt.Errorf("create import row: %w", err))
	}

	cursor := Cursor{
		LastSyncedAt:  account.LastSyncedAt,
		LastSyncedSig: account.LastSyncedSig,
	}
	fills, next, err := provider.FetchNewFills(ctx, account.WalletAddress, cursor)
	if err != nil {
		return Result{}, failSync(ctx, stores, account.ID, importRow, fmt.Errorf("fetch fills: %w", err))
	}

	for i := range fills {
		fills[i].AccountID = account.ID
		fills[i].ImportID = importRow.ID
	}

	res, err := stores.Fills.InsertIdempotent(ctx, fills)
	if err != nil {
		return Result{}, failSync(ctx, stores, account.ID, importRow, fmt.Errorf("insert fills: %w", err))
	}

	if err := stores.Imports.MarkStatus(ctx, importRow.ID, domain.ImportProcessed); err != nil {
		return Result{}, failSync(ctx, stores, account.ID, nil, fmt.Errorf("mark import processed: %w", err))
	}

	ok := domain.SyncOK
	patch := domain.SyncStatePatch{
		Status:        &ok,
		LastSyncedAt:  next.LastSyncedAt,
		LastSyncedSig: &next.LastSyncedSig,
		Error:         &clearErr,
	}
	if err := stores.Accounts.UpdateSyncState(ctx, account.ID, patch); err != nil {
		return Result{}, fmt.Errorf("mark account synced: %w", err)
	}

	return Result{Inserted: res.Inserted, Skipped: res.Skipped, NextCursor: next}, nil
}

// failSync records the failure on the account (and the import row when
// one was created) before returning the original error. Secondary
// bookkeeping failures are swallowed.
func failSync(ctx context.Context, stores Stores, accountID string, importRow *domain.ImportRecord, err error) error {
	failed := domain.SyncError
	msg := err.Error()
	_ = stores.Accounts.UpdateSyncState(ctx, accountID, domain.SyncStatePatch{
		Status: &failed,
		Error:  &msg,
	})
	if importRow != nil {
		_ = stores.Imports.MarkStatus(ctx, importRow.ID, domain.ImportFailed)
	}
	return err
}
