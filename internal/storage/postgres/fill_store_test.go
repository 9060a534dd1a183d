package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/domain"
)

var fillBase = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func testFill(offset time.Duration, symbol string, side domain.Side, accountID string) domain.FillInsert {
	return domain.FillInsert{
		Time:       fillBase.Add(offset),
		Symbol:     symbol,
		MarketType: domain.MarketPerp,
		Side:       side,
		Quantity:   10,
		Price:      1.5,
		Fee:        0.05,
		FeeType:    domain.FeeTaker,
		OrderType:  domain.OrderMarket,
		TxRef:      "sig-" + symbol + offset.String(),
		AccountID:  accountID,
	}
}

func TestFillStore_InsertIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFillStore(pool)

	batch := []domain.FillInsert{
		testFill(0, "SOL/USDC", domain.SideLong, "acct-1"),
		testFill(time.Hour, "SOL/USDC", domain.SideLong, "acct-1"),
	}

	res, err := store.InsertIdempotent(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 0, res.Skipped)

	// Re-delivering the same batch inserts nothing.
	res, err = store.InsertIdempotent(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 2, res.Skipped)

	fills, err := store.GetByFilter(ctx, domain.FillFilter{AccountID: "acct-1"})
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.NotEmpty(t, fills[0].ID)
	assert.NotEmpty(t, fills[0].EventID)
	assert.True(t, fills[0].Time.Before(fills[1].Time))
}

func TestFillStore_DedupScopedToAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFillStore(pool)

	f := testFill(0, "DRV/USDC", domain.SideLong, "acct-1")
	res, err := store.InsertIdempotent(ctx, []domain.FillInsert{f})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	// Same event under another account is a distinct row.
	f.AccountID = "acct-2"
	res, err = store.InsertIdempotent(ctx, []domain.FillInsert{f})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 0, res.Skipped)
}

func TestFillStore_GetByFilter(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFillStore(pool)

	_, err := store.InsertIdempotent(ctx, []domain.FillInsert{
		testFill(0, "SOL/USDC", domain.SideLong, "acct-1"),
		testFill(time.Hour, "DRV/USDC", domain.SideShort, "acct-1"),
		testFill(2*time.Hour, "SOL/USDC", domain.SideLong, "acct-2"),
	})
	require.NoError(t, err)

	fills, err := store.GetByFilter(ctx, domain.FillFilter{Symbol: "SOL/USDC"})
	require.NoError(t, err)
	assert.Len(t, fills, 2)

	fills, err = store.GetByFilter(ctx, domain.FillFilter{Side: domain.SideShort})
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, "DRV/USDC", fills[0].Symbol)

	from := fillBase.Add(30 * time.Minute)
	to := fillBase.Add(90 * time.Minute)
	fills, err = store.GetByFilter(ctx, domain.FillFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, "DRV/USDC", fills[0].Symbol)

	// Bounds are inclusive instants.
	exact := fillBase.Add(time.Hour)
	fills, err = store.GetByFilter(ctx, domain.FillFilter{From: &exact, To: &exact})
	require.NoError(t, err)
	assert.Len(t, fills, 1)

	fills, err = store.GetByFilter(ctx, domain.FillFilter{AccountID: "acct-2", OrderType: domain.OrderMarket})
	require.NoError(t, err)
	assert.Len(t, fills, 1)
}

func TestFillStore_LimitOffset(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFillStore(pool)

	var batch []domain.FillInsert
	for i := 0; i < 5; i++ {
		batch = append(batch, testFill(time.Duration(i)*time.Minute, "JUP/USDC", domain.SideLong, "acct-1"))
	}
	_, err := store.InsertIdempotent(ctx, batch)
	require.NoError(t, err)

	fills, err := store.GetByFilter(ctx, domain.FillFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, fillBase, fills[0].Time.UTC())

	fills, err = store.GetByFilter(ctx, domain.FillFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, fillBase.Add(4*time.Minute), fills[0].Time.UTC())
}

func TestFillStore_DeleteByAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFillStore(pool)

	batch := []domain.FillInsert{
		testFill(0, "SOL/USDC", domain.SideLong, "acct-1"),
		testFill(time.Hour, "SOL/USDC", domain.SideShort, "acct-1"),
		testFill(0, "SOL/USDC", domain.SideLong, "acct-2"),
	}
	_, err := store.InsertIdempotent(ctx, batch)
	require.NoError(t, err)

	n, err := store.DeleteByAccount(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fills, err := store.GetByFilter(ctx, domain.FillFilter{})
	require.NoError(t, err)
	assert.Len(t, fills, 1)

	// Deleting clears the dedup rows too, so a re-import lands.
	res, err := store.InsertIdempotent(ctx, batch[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
}
