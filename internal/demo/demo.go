// Package demo fabricates a plausible fill history for local mode and
// examples. Generation is seeded, so the same seed always yields the
// same dataset.
package demo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"trading-journal/internal/domain"
)

var (
	symbols     = []string{"SOL/USDC", "DRV/USDC", "JUP/USDC", "BONK/USDC", "RNDR/USDC"}
	marketTypes = []domain.MarketType{domain.MarketSpot, domain.MarketPerp, domain.MarketOptions}
	sides       = []domain.Side{domain.SideLong, domain.SideShort}
	orderTypes  = []domain.OrderType{domain.OrderMarket, domain.OrderLimit, domain.OrderStop, domain.OrderOther}
	feeTypes    = []domain.FeeType{domain.FeeMaker, domain.FeeTaker, domain.FeeFunding, domain.FeeOther}
)

// Fills generates tradeCount round trips (two fills each) spread over
// the 30 days before now, sorted chronologically.
func Fills(tradeCount int, seed int64, now time.Time) []domain.FillInsert {
	rng := rand.New(rand.NewSource(seed))
	fills := make([]domain.FillInsert, 0, tradeCount*2)

	for i := 0; i < tradeCount; i++ {
		symbol := pick(rng, symbols)
		marketType := pick(rng, marketTypes)
		side := pick(rng, sides)
		feeType := pick(rng, feeTypes)
		qty := round2(between(rng, 0.5, 6))
		entryPrice := round2(between(rng, 0.4, 18))
		exitPrice := round2(entryPrice * between(rng, 0.85, 1.25))

		entryTime := now.Add(-time.Duration(between(rng, 1, 30)*24) * time.Hour)
		exitTime := entryTime.Add(time.Duration(between(rng, 5, 240)) * time.Minute)

		fills = append(fills, domain.FillInsert{
			Time:       entryTime,
			Symbol:     symbol,
			MarketType: marketType,
			Side:       side,
			Quantity:   qty,
			Price:      entryPrice,
			Fee:        round4(between(rng, 0.01, 0.2)),
			FeeType:    feeType,
			OrderType:  pick(rng, orderTypes),
			TxRef:      fmt.Sprintf("demo-%d-a", i+1),
			Tags:       []string{"demo", "entry"},
		}, domain.FillInsert{
			Time:       exitTime,
			Symbol:     symbol,
			MarketType: marketType,
			Side:       side,
			Quantity:   qty,
			Price:      exitPrice,
			Fee:        round4(between(rng, 0.01, 0.2)),
			FeeType:    feeType,
			OrderType:  pick(rng, orderTypes),
			TxRef:      fmt.Sprintf("demo-%d-b", i+1),
			Tags:       []string{"demo", "exit"},
		})
	}

	sort.SliceStable(fills, func(i, j int) bool {
		return fills[i].Time.Before(fills[j].Time)
	})
	return fills
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
