package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage/memory"
)

const testWallet = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

func fixedNow() time.Time {
	return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
}

func TestMockProvider_Deterministic(t *testing.T) {
	p := &MockProvider{Now: fixedNow}
	ctx := context.Background()

	a, cursorA, err := p.FetchNewFills(ctx, testWallet, Cursor{})
	require.NoError(t, err)
	b, cursorB, err := p.FetchNewFills(ctx, testWallet, Cursor{})
	require.NoError(t, err)

	require.Len(t, a, 20)
	assert.Equal(t, a, b)
	assert.Equal(t, cursorA.LastSyncedSig, cursorB.LastSyncedSig)

	for i, f := range a {
		assert.True(t, f.Side.Valid())
		assert.True(t, f.MarketType.Valid())
		assert.True(t, f.FeeType.Valid())
		assert.True(t, f.OrderType.Valid())
		assert.GreaterOrEqual(t, f.Quantity, 0.5)
		assert.GreaterOrEqual(t, f.Price, 2.0)
		assert.GreaterOrEqual(t, f.Fee, 0.01)
		assert.NotEmpty(t, f.EventID)
		if i > 0 {
			assert.True(t, f.Time.After(a[i-1].Time), "fills must be chronological")
		}
	}

	// Cursor points at the newest fill.
	last := a[len(a)-1]
	assert.Equal(t, last.TxRef, cursorA.LastSyncedSig)
	assert.Equal(t, last.Time, *cursorA.LastSyncedAt)

	// A different wallet produces a different batch.
	c, _, err := p.FetchNewFills(ctx, "SomeOtherWallet1111111111111111111111111111", Cursor{})
	require.NoError(t, err)
	assert.NotEqual(t, a[0].EventID, c[0].EventID)
}

func TestMockProvider_CursorAdvances(t *testing.T) {
	p := &MockProvider{Now: fixedNow}
	ctx := context.Background()

	_, cursor, err := p.FetchNewFills(ctx, testWallet, Cursor{})
	require.NoError(t, err)

	next, _, err := p.FetchNewFills(ctx, testWallet, cursor)
	require.NoError(t, err)
	assert.True(t, next[0].Time.After(*cursor.LastSyncedAt))
}

func syncStores(t *testing.T) (Stores, *domain.Account) {
	t.Helper()

	stores := Stores{
		Fills:    memory.NewFillStore(),
		Accounts: memory.NewAccountStore(),
		Imports:  memory.NewImportStore(),
	}
	acct := &domain.Account{Chain: "solana", WalletAddress: testWallet}
	require.NoError(t, stores.Accounts.Insert(context.Background(), acct))
	return stores, acct
}

func TestRunAccountSync_HappyPath(t *testing.T) {
	stores, acct := syncStores(t)
	ctx := context.Background()
	provider := &MockProvider{Now: fixedNow}

	res, err := RunAccountSync(ctx, *acct, provider, stores)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Inserted)
	assert.Equal(t, 0, res.Skipped)

	got, err := stores.Accounts.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncOK, got.SyncStatus)
	assert.Empty(t, got.SyncErrorMsg)
	require.NotNil(t, got.LastSyncedAt)
	assert.Equal(t, res.NextCursor.LastSyncedSig, got.LastSyncedSig)

	imports, err := stores.Imports.List(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, domain.ImportMock, imports[0].SourceType)
	assert.Equal(t, domain.ImportProcessed, imports[0].Status)

	fills, err := stores.Fills.GetByFilter(ctx, domain.FillFilter{AccountID: acct.ID})
	require.NoError(t, err)
	assert.Len(t, fills, 20)
	assert.Equal(t, imports[0].ID, fills[0].ImportID)
}

func TestRunAccountSync_RedeliveryDedups(t *testing.T) {
	stores, acct := syncStores(t)
	ctx := context.Background()
	provider := &MockProvider{Now: fixedNow}

	_, err := RunAccountSync(ctx, *acct, provider, stores)
	require.NoError(t, err)

	// Re-running with the stale cursor regenerates the same batch; the
	// event-id dedup turns it all into skips.
	res, err := RunAccountSync(ctx, *acct, provider, stores)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 20, res.Skipped)
}

type failingProvider struct{}

func (failingProvider) Source() domain.ImportSource { return domain.ImportIndexer }

func (failingProvider) FetchNewFills(context.Context, string, Cursor) ([]domain.FillInsert, Cursor, error) {
	return nil, Cursor{}, errors.New("indexer unreachable")
}

func TestRunAccountSync_ProviderFailure(t *testing.T) {
	stores, acct := syncStores(t)
	ctx := context.Background()

	_, err := RunAccountSync(ctx, *acct, failingProvider{}, stores)
	require.Error(t, err)

	got, err := stores.Accounts.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncError, got.SyncStatus)
	assert.Contains(t, got.SyncErrorMsg, "indexer unreachable")

	imports, err := stores.Imports.List(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, domain.ImportFailed, imports[0].Status)
}
