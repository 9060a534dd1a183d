// Package sync pulls new fills for a linked account from an external
// provider and lands them through the idempotent fill store.
package sync

import (
	"context"
	"fmt"
	"math"
	"time"

	"trading-journal/internal/domain"
	"trading-journal/internal/idhash"
)

// Cursor marks how far an account has been synced. Zero-value fields
// mean "from the beginning".
type Cursor struct {
	LastSyncedAt  *time.Time
	LastSyncedSig string
}

// Provider fetches fills that executed after the cursor position.
type Provider interface {
	// FetchNewFills returns new fills in chronological order together
	// with the cursor to persist once they are stored.
	FetchNewFills(ctx context.Context, walletAddress string, cursor Cursor) ([]domain.FillInsert, Cursor, error)

	// Source labels import provenance rows created for this provider.
	Source() domain.ImportSource
}

// mockSpreadDays is how far back the first mock sync reaches.
const mockSpreadDays = 21

// MockProvider deterministically fabricates fills from the wallet
// address, standing in for a venue indexer in local mode. The same
// wallet and cursor always produce the same batch, so re-syncs dedup to
// zero inserts.
type MockProvider struct {
	// Now allows tests to pin the clock. Defaults to time.Now.
	Now func() time.Time
}

var _ Provider = (*MockProvider)(nil)

// Source implements Provider.
func (p *MockProvider) Source() domain.ImportSource { return domain.ImportMock }

var (
	mockSymbols    = []string{"SOL/USDC", "DRV/USDC", "JUP/USDC", "BONK/USDC", "RNDR/USDC"}
	mockMarkets    = []domain.MarketType{domain.MarketSpot, domain.MarketPerp, domain.MarketOptions}
	mockSides      = []domain.Side{domain.SideLong, domain.SideShort}
	mockOrderTypes = []domain.OrderType{domain.OrderMarket, domain.OrderLimit, domain.OrderStop, domain.OrderOther}
	mockFeeTypes   = []domain.FeeType{domain.FeeMaker, domain.FeeTaker, domain.FeeFunding, domain.FeeOther}
)

// FetchNewFills implements Provider.
func (p *MockProvider) FetchNewFills(_ context.Context, walletAddress string, cursor Cursor) ([]domain.FillInsert, Cursor, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	current := now().UTC().Add(-mockSpreadDays * 24 * time.Hour)
	if cursor.LastSyncedAt != nil {
		current = cursor.LastSyncedAt.UTC()
	}

	const count = 20
	fills := make([]domain.FillInsert, 0, count)
	for i := 0; i < count; i++ {
		gapMinutes := 30 + seededValue(walletAddress, i+17)%(24*60)
		current = current.Add(time.Duration(gapMinutes) * time.Minute)

		symbol := pick(mockSymbols, walletAddress, i+1)
		side := pick(mockSides, walletAddress, i+3)
		qty := round2(0.5 + float64(seededValue(walletAddress, i))/1000*3)
		price := round2(2 + float64(seededValue(walletAddress, i+7))/1000*48)
		fee := round4(0.01 + float64(seededValue(walletAddress, i+13))/1000*0.24)
		txRef := fmt.Sprintf("%s-%s-%d", prefix(walletAddress, 6), current.Format(time.RFC3339), i)

		fills = append(fills, domain.FillInsert{
			Time:       current,
			Symbol:     symbol,
			MarketType: pick(mockMarkets, walletAddress, i+5),
			Side:       side,
			Quantity:   qty,
			Price:      price,
			Fee:        fee,
			FeeType:    pick(mockFeeTypes, walletAddress, i+11),
			OrderType:  pick(mockOrderTypes, walletAddress, i+9),
			TxRef:      txRef,
			EventID:    idhash.EventID(txRef, current, symbol, qty, price),
			Tags:       []string{"sync", "mock"},
		})
	}

	last := fills[len(fills)-1]
	next := Cursor{
		LastSyncedAt:  &last.Time,
		LastSyncedSig: last.TxRef,
	}
	return fills, next, nil
}

// seededValue hashes seed and index into [0, 1000) with the same 32-bit
// wrapping arithmetic the event-id hash uses.
func seededValue(seed string, index int) int {
	raw := fmt.Sprintf("%s-%d", seed, index)
	h := int32(5381)
	for _, b := range []byte(raw) {
		h = h*33 ^ int32(b)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v % 1000)
}

func pick[T any](items []T, seed string, index int) T {
	return items[seededValue(seed, index)%len(items)]
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
