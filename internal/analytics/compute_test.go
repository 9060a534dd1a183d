package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/derive"
	"trading-journal/internal/domain"
	"trading-journal/internal/money"
)

var base = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func trade(symbol string, side domain.Side, close time.Time, pnl float64) domain.DerivedTrade {
	return domain.DerivedTrade{
		ID:           symbol + close.Format(time.RFC3339Nano),
		OpenTime:     close.Add(-time.Hour),
		CloseTime:    close,
		Symbol:       symbol,
		Side:         side,
		EntryPrice:   10,
		ExitPrice:    10 + pnl,
		Quantity:     1,
		PnL:          money.FromFloat(pnl),
		DurationSec:  3600,
		TotalFees:    money.FromFloat(0.1),
		OrderTypeMix: map[domain.OrderType]int{domain.OrderMarket: 2},
	}
}

func TestTotalPnL_Empty(t *testing.T) {
	got := TotalPnL(nil)
	assert.Equal(t, money.Money(0), got.PnL)
	assert.Equal(t, 0.0, got.PnLPct)
}

func TestTotalPnL(t *testing.T) {
	trades := []domain.DerivedTrade{
		trade("DRV/USDC", domain.SideLong, base, 3.8),
		trade("SOL/USDC", domain.SideShort, base.Add(time.Hour), -1.1),
	}
	got := TotalPnL(trades)
	assert.Equal(t, money.FromFloat(2.7), got.PnL)
	// 2.7 / 20 entry notional
	assert.InDelta(t, 0.135, got.PnLPct, 1e-9)
}

func TestEquityCurve_OrderAndFinalValue(t *testing.T) {
	trades := []domain.DerivedTrade{
		trade("B", domain.SideLong, base.Add(2*time.Hour), -1),
		trade("A", domain.SideLong, base, 2),
		trade("C", domain.SideLong, base.Add(time.Hour), 0.5),
	}

	curve := EquityCurve(trades)
	require.Len(t, curve, 3)

	for i := 1; i < len(curve); i++ {
		assert.False(t, curve[i].Time.Before(curve[i-1].Time), "curve must be non-decreasing in time")
	}
	assert.Equal(t, TotalPnL(trades).PnL, curve[len(curve)-1].Equity)

	// Idempotent: same input, same sequence.
	assert.Equal(t, curve, EquityCurve(trades))
}

func TestDrawdownSeries(t *testing.T) {
	trades := []domain.DerivedTrade{
		trade("A", domain.SideLong, base, 5),
		trade("A", domain.SideLong, base.Add(time.Hour), -2),
		trade("A", domain.SideLong, base.Add(2*time.Hour), -1),
		trade("A", domain.SideLong, base.Add(3*time.Hour), 4),
	}

	series, maxDD := DrawdownSeries(EquityCurve(trades))
	require.Len(t, series, 4)

	min := money.Money(0)
	for _, p := range series {
		assert.LessOrEqual(t, p.Drawdown, money.Money(0))
		if p.Drawdown < min {
			min = p.Drawdown
		}
	}
	assert.Equal(t, min, maxDD)
	// Peak 5, trough 2: max drawdown -3.
	assert.Equal(t, money.FromFloat(-3), maxDD)
	// At the trough: -3 / 5 = -0.6
	assert.InDelta(t, -0.6, series[2].DrawdownPct, 1e-9)
}

func TestDrawdownSeries_ZeroPeak(t *testing.T) {
	// Losing from the start: peak stays 0, pct guards against /0.
	trades := []domain.DerivedTrade{
		trade("A", domain.SideLong, base, -1),
	}
	series, maxDD := DrawdownSeries(EquityCurve(trades))
	require.Len(t, series, 1)
	assert.Equal(t, money.FromFloat(-1), series[0].Drawdown)
	assert.Equal(t, 0.0, series[0].DrawdownPct)
	assert.Equal(t, money.FromFloat(-1), maxDD)
}

func TestVolumeAndFees(t *testing.T) {
	fills := []domain.Fill{
		{Quantity: 2, Price: 10, Fee: 0.1, FeeType: domain.FeeTaker},
		{Quantity: 1, Price: 8, Fee: 0.05, FeeType: domain.FeeMaker},
		{Quantity: 3, Price: 4, Fee: 0.2, FeeType: domain.FeeTaker},
	}
	got := VolumeAndFees(fills)
	assert.Equal(t, money.FromFloat(40), got.Volume)
	assert.Equal(t, money.FromFloat(0.35), got.FeeTotal)
	assert.Equal(t, money.FromFloat(0.3), got.FeeBreakdown[domain.FeeTaker])
	assert.Equal(t, money.FromFloat(0.05), got.FeeBreakdown[domain.FeeMaker])
}

func TestWinLoss_Empty(t *testing.T) {
	got := WinLoss(nil)
	assert.Equal(t, 0, got.TradeCount)
	assert.Equal(t, 0.0, got.WinRate)
	assert.Equal(t, money.Money(0), got.AvgWin)
	assert.Equal(t, money.Money(0), got.AvgLoss)
	assert.Equal(t, money.Money(0), got.LargestWin)
	assert.Equal(t, money.Money(0), got.LargestLoss)
}

func TestWinLoss(t *testing.T) {
	trades := []domain.DerivedTrade{
		trade("A", domain.SideLong, base, 4),
		trade("A", domain.SideLong, base, 2),
		trade("A", domain.SideLong, base, -3),
		trade("A", domain.SideLong, base, 0), // break-even: neither bucket
	}

	got := WinLoss(trades)
	assert.Equal(t, 4, got.TradeCount)
	assert.Equal(t, 2, got.Wins)
	assert.Equal(t, 1, got.Losses)
	assert.Equal(t, 0.5, got.WinRate)
	assert.Equal(t, money.FromFloat(3), got.AvgWin)
	assert.Equal(t, money.FromFloat(-3), got.AvgLoss)
	assert.Equal(t, money.FromFloat(4), got.LargestWin)
	assert.Equal(t, money.FromFloat(-3), got.LargestLoss)
}

func TestAverageDuration(t *testing.T) {
	assert.Equal(t, 0.0, AverageDuration(nil))

	trades := []domain.DerivedTrade{
		{DurationSec: 100},
		{DurationSec: 200},
	}
	assert.Equal(t, 150.0, AverageDuration(trades))
}

func TestLongShort(t *testing.T) {
	trades := []domain.DerivedTrade{
		trade("A", domain.SideLong, base, 1),
		trade("A", domain.SideLong, base, 1),
		trade("A", domain.SideShort, base, 1),
	}
	got := LongShort(trades)
	assert.Equal(t, 2, got.LongCount)
	assert.Equal(t, 1, got.ShortCount)
	assert.Equal(t, 2.0, got.Ratio)
	assert.Equal(t, BiasLong, got.Bias)
}

func TestLongShort_NoShorts(t *testing.T) {
	trades := []domain.DerivedTrade{
		trade("A", domain.SideLong, base, 1),
		trade("A", domain.SideLong, base, 1),
	}
	got := LongShort(trades)
	assert.Equal(t, 2.0, got.Ratio) // degrades to long count
	assert.Equal(t, BiasLong, got.Bias)
}

func TestLongShort_Balanced(t *testing.T) {
	got := LongShort(nil)
	assert.Equal(t, BiasBalanced, got.Bias)
	assert.Equal(t, 0.0, got.Ratio)
}

func TestOrderTypePerformance_MixedLegsCountBoth(t *testing.T) {
	tr := trade("A", domain.SideLong, base, 2)
	tr.OrderTypeMix = map[domain.OrderType]int{domain.OrderMarket: 1, domain.OrderLimit: 1}

	got := OrderTypePerformance([]domain.DerivedTrade{tr})
	require.Len(t, got, len(domain.OrderTypes))

	assert.Equal(t, 1, got[domain.OrderMarket].Trades)
	assert.Equal(t, 1, got[domain.OrderLimit].Trades)
	assert.Equal(t, money.FromFloat(2), got[domain.OrderMarket].PnL)
	assert.Equal(t, money.FromFloat(2), got[domain.OrderLimit].PnL)
	assert.Equal(t, 1, got[domain.OrderMarket].Wins)
	assert.Equal(t, 0, got[domain.OrderStop].Trades)
	assert.Equal(t, 0, got[domain.OrderOther].Trades)
}

func TestTimePerformance(t *testing.T) {
	// 2026-01-15 is a Thursday.
	trades := []domain.DerivedTrade{
		trade("A", domain.SideLong, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC), 2),
		trade("A", domain.SideLong, time.Date(2026, 1, 15, 9, 45, 0, 0, time.UTC), 1),
		trade("A", domain.SideLong, time.Date(2026, 1, 16, 14, 0, 0, 0, time.UTC), -0.5),
	}

	got := TimePerformance(trades, time.UTC)
	assert.Equal(t, money.FromFloat(3), got.Daily["2026-01-15"])
	assert.Equal(t, money.FromFloat(-0.5), got.Daily["2026-01-16"])
	assert.Equal(t, money.FromFloat(3), got.Weekday["Thu"])
	assert.Equal(t, money.FromFloat(-0.5), got.Weekday["Fri"])
	assert.Equal(t, money.FromFloat(3), got.Hour["09"])
	assert.Equal(t, money.FromFloat(-0.5), got.Hour["14"])
}

func TestSymbolBreakdown(t *testing.T) {
	trades := []domain.DerivedTrade{
		trade("DRV/USDC", domain.SideLong, base, 3.8),
		trade("SOL/USDC", domain.SideShort, base.Add(time.Hour), -1.1),
		trade("DRV/USDC", domain.SideLong, base.Add(2*time.Hour), -0.8),
	}

	rows := SymbolBreakdown(trades)
	require.Len(t, rows, 2)

	totalTrades := 0
	for _, row := range rows {
		totalTrades += row.Trades
	}
	assert.Equal(t, len(trades), totalTrades)

	assert.Equal(t, "DRV/USDC", rows[0].Symbol)
	assert.Equal(t, 2, rows[0].Trades)
	assert.Equal(t, money.FromFloat(3), rows[0].PnL)
	assert.Equal(t, 0.5, rows[0].WinRate)
	assert.Equal(t, money.FromFloat(20), rows[0].Volume)

	assert.Equal(t, "SOL/USDC", rows[1].Symbol)
	assert.Equal(t, 1, rows[1].Trades)
	assert.Equal(t, money.FromFloat(-1.1), rows[1].PnL)
	assert.Equal(t, 0.0, rows[1].WinRate)
}

// End-to-end: the four-fill scenario pairs into two trades with total
// PnL 2.7, exactly and without float drift.
func TestEndToEndScenario(t *testing.T) {
	fills := []domain.Fill{
		{Time: base, Symbol: "DRV/USDC", Side: domain.SideLong, Quantity: 2, Price: 10, Fee: 0.1, FeeType: domain.FeeTaker, OrderType: domain.OrderMarket},
		{Time: base.Add(time.Hour), Symbol: "DRV/USDC", Side: domain.SideLong, Quantity: 2, Price: 12, Fee: 0.1, FeeType: domain.FeeTaker, OrderType: domain.OrderMarket},
		{Time: base.Add(2 * time.Hour), Symbol: "SOL/USDC", Side: domain.SideShort, Quantity: 1, Price: 8, Fee: 0.05, FeeType: domain.FeeMaker, OrderType: domain.OrderLimit},
		{Time: base.Add(3 * time.Hour), Symbol: "SOL/USDC", Side: domain.SideShort, Quantity: 1, Price: 9, Fee: 0.05, FeeType: domain.FeeMaker, OrderType: domain.OrderLimit},
	}

	trades := derive.Trades(fills)
	require.Len(t, trades, 2)

	summary := TotalPnL(trades)
	assert.Equal(t, money.FromFloat(2.7), summary.PnL)
	assert.Greater(t, summary.PnLPct, 0.0)

	curve := EquityCurve(trades)
	require.Len(t, curve, 2)
	assert.Equal(t, money.FromFloat(2.7), curve[1].Equity)
}
