package analytics

import (
	"sort"
	"time"

	"trading-journal/internal/domain"
	"trading-journal/internal/money"
)

// TotalPnL sums realized PnL and entry notional across trades. PnLPct
// is total PnL over total entry notional, 0 when the set is empty or
// all-zero notional.
func TotalPnL(trades []domain.DerivedTrade) PnLSummary {
	var total, totalEntry money.Money
	for _, t := range trades {
		total = total.Add(t.PnL)
		totalEntry = totalEntry.Add(money.FromFloat(t.EntryPrice * t.Quantity))
	}
	return PnLSummary{
		PnL:    total,
		PnLPct: money.Ratio(total, totalEntry),
	}
}

// EquityCurve emits the running cumulative PnL, one point per trade in
// close-time order. Calling twice on the same input yields the same
// sequence.
func EquityCurve(trades []domain.DerivedTrade) []EquityPoint {
	sorted := make([]domain.DerivedTrade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CloseTime.Before(sorted[j].CloseTime)
	})

	curve := make([]EquityPoint, 0, len(sorted))
	var equity money.Money
	for _, t := range sorted {
		equity = equity.Add(t.PnL)
		curve = append(curve, EquityPoint{Time: t.CloseTime, Equity: equity})
	}
	return curve
}

// DrawdownSeries walks the equity curve once, tracking the running peak.
// Every emitted drawdown is <= 0; maxDrawdown is the most negative value
// observed. DrawdownPct is 0 when the running peak is 0.
func DrawdownSeries(curve []EquityPoint) (series []DrawdownPoint, maxDrawdown money.Money) {
	var peak money.Money
	series = make([]DrawdownPoint, 0, len(curve))
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		dd := p.Equity.Sub(peak)
		if dd < maxDrawdown {
			maxDrawdown = dd
		}
		series = append(series, DrawdownPoint{
			Time:        p.Time,
			Drawdown:    dd,
			DrawdownPct: money.Ratio(dd, peak),
		})
	}
	return series, maxDrawdown
}

// VolumeAndFees aggregates over raw fills rather than derived trades, so
// unpaired open legs count toward volume and fees.
func VolumeAndFees(fills []domain.Fill) VolumeFees {
	breakdown := make(map[domain.FeeType]money.Money)
	var volume, feeTotal money.Money
	for _, f := range fills {
		volume = volume.Add(money.FromFloat(f.Quantity * f.Price))
		fee := money.FromFloat(f.Fee)
		feeTotal = feeTotal.Add(fee)
		breakdown[f.FeeType] = breakdown[f.FeeType].Add(fee)
	}
	return VolumeFees{Volume: volume, FeeTotal: feeTotal, FeeBreakdown: breakdown}
}

// WinLoss computes win/loss counts and averages. Trades with pnl exactly
// 0 are excluded from both buckets. Empty buckets yield zero averages
// and extremes, never NaN.
func WinLoss(trades []domain.DerivedTrade) WinLossStats {
	var stats WinLossStats
	var winSum, lossSum money.Money

	stats.TradeCount = len(trades)
	for _, t := range trades {
		switch {
		case t.PnL > 0:
			stats.Wins++
			winSum = winSum.Add(t.PnL)
			if t.PnL > stats.LargestWin {
				stats.LargestWin = t.PnL
			}
		case t.PnL < 0:
			stats.Losses++
			lossSum = lossSum.Add(t.PnL)
			if t.PnL < stats.LargestLoss {
				stats.LargestLoss = t.PnL
			}
		}
	}

	stats.WinRate = money.SafeDiv(float64(stats.Wins), float64(stats.TradeCount))
	stats.AvgWin = winSum.Div(float64(stats.Wins))
	stats.AvgLoss = lossSum.Div(float64(stats.Losses))
	return stats
}

// AverageDuration is the mean trade duration in seconds, 0 when empty.
func AverageDuration(trades []domain.DerivedTrade) float64 {
	var total int64
	for _, t := range trades {
		total += t.DurationSec
	}
	return money.SafeDiv(float64(total), float64(len(trades)))
}

// LongShort counts trades per side. Ratio is long/short; when there are
// no shorts it degrades to the long count so it stays finite.
func LongShort(trades []domain.DerivedTrade) LongShortStats {
	var stats LongShortStats
	for _, t := range trades {
		if t.Side == domain.SideLong {
			stats.LongCount++
		} else {
			stats.ShortCount++
		}
	}

	if stats.ShortCount == 0 {
		stats.Ratio = float64(stats.LongCount)
	} else {
		stats.Ratio = float64(stats.LongCount) / float64(stats.ShortCount)
	}

	switch {
	case stats.LongCount == stats.ShortCount:
		stats.Bias = BiasBalanced
	case stats.LongCount > stats.ShortCount:
		stats.Bias = BiasLong
	default:
		stats.Bias = BiasShort
	}
	return stats
}

// OrderTypePerformance buckets trades by the order types of their legs.
// Every known order type gets a row even when empty; a trade whose legs
// used two different order types contributes its full PnL and fees to
// both buckets.
func OrderTypePerformance(trades []domain.DerivedTrade) map[domain.OrderType]OrderTypeStats {
	result := make(map[domain.OrderType]OrderTypeStats, len(domain.OrderTypes))
	for _, ot := range domain.OrderTypes {
		result[ot] = OrderTypeStats{}
	}

	for _, t := range trades {
		for ot, weight := range t.OrderTypeMix {
			if weight <= 0 {
				continue
			}
			stats := result[ot]
			stats.Trades++
			stats.PnL = stats.PnL.Add(t.PnL)
			stats.Fees = stats.Fees.Add(t.TotalFees)
			if t.PnL > 0 {
				stats.Wins++
			}
			result[ot] = stats
		}
	}
	return result
}

// TimePerformance buckets trade PnL by calendar day, weekday and hour of
// the trade's close time, rendered in loc.
func TimePerformance(trades []domain.DerivedTrade, loc *time.Location) TimeBuckets {
	if loc == nil {
		loc = time.Local
	}
	buckets := TimeBuckets{
		Daily:   make(map[string]money.Money),
		Weekday: make(map[string]money.Money),
		Hour:    make(map[string]money.Money),
	}
	for _, t := range trades {
		local := t.CloseTime.In(loc)
		day := local.Format("2006-01-02")
		weekday := local.Format("Mon")
		hour := local.Format("15")

		buckets.Daily[day] = buckets.Daily[day].Add(t.PnL)
		buckets.Weekday[weekday] = buckets.Weekday[weekday].Add(t.PnL)
		buckets.Hour[hour] = buckets.Hour[hour].Add(t.PnL)
	}
	return buckets
}

// SymbolBreakdown aggregates per distinct symbol, one row per symbol in
// first-seen order over the input.
func SymbolBreakdown(trades []domain.DerivedTrade) []SymbolRow {
	index := make(map[string]int)
	var rows []SymbolRow
	wins := make(map[string]int)

	for _, t := range trades {
		i, ok := index[t.Symbol]
		if !ok {
			i = len(rows)
			index[t.Symbol] = i
			rows = append(rows, SymbolRow{Symbol: t.Symbol})
		}
		rows[i].PnL = rows[i].PnL.Add(t.PnL)
		rows[i].Volume = rows[i].Volume.Add(money.FromFloat(t.EntryPrice * t.Quantity))
		rows[i].Fees = rows[i].Fees.Add(t.TotalFees)
		rows[i].Trades++
		if t.PnL > 0 {
			wins[t.Symbol]++
		}
	}

	for i := range rows {
		rows[i].WinRate = money.SafeDiv(float64(wins[rows[i].Symbol]), float64(rows[i].Trades))
	}
	return rows
}
