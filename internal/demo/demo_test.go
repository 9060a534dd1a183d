package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/derive"
	"trading-journal/internal/domain"
	"trading-journal/internal/storage/memory"
)

var now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func TestFills_Deterministic(t *testing.T) {
	a := Fills(25, 42, now)
	b := Fills(25, 42, now)
	require.Len(t, a, 50)
	assert.Equal(t, a, b)

	c := Fills(25, 43, now)
	assert.NotEqual(t, a, c)
}

func TestFills_WellFormed(t *testing.T) {
	fills := Fills(10, 1, now)
	for i, f := range fills {
		assert.True(t, f.Side.Valid())
		assert.True(t, f.MarketType.Valid())
		assert.True(t, f.FeeType.Valid())
		assert.True(t, f.OrderType.Valid())
		assert.Greater(t, f.Quantity, 0.0)
		assert.Greater(t, f.Price, 0.0)
		assert.GreaterOrEqual(t, f.Fee, 0.0)
		assert.NotEmpty(t, f.TxRef)
		if i > 0 {
			assert.False(t, f.Time.Before(fills[i-1].Time), "fills must be time sorted")
		}
	}
}

func TestFills_DeriveIntoTrades(t *testing.T) {
	store := memory.NewFillStore()
	ctx := context.Background()

	res, err := store.InsertIdempotent(ctx, Fills(20, 7, now))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Inserted)

	stored, err := store.GetByFilter(ctx, domain.FillFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 40)

	trades := derive.Trades(stored)
	require.NotEmpty(t, trades)
	for _, tr := range trades {
		assert.False(t, tr.CloseTime.Before(tr.OpenTime))
		assert.Greater(t, tr.Quantity, 0.0)
		assert.NotEmpty(t, tr.ID)
	}
}
