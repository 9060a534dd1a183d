// Package derive pairs raw execution fills into round-trip trades.
package derive

import (
	"sort"

	"trading-journal/internal/domain"
	"trading-journal/internal/idhash"
	"trading-journal/internal/money"
)

// Trades derives round-trip trades from an arbitrary-order fill
// collection. Pure function: same fills in, same trades out, ids
// included.
//
// Fills are grouped by (symbol, side); within each group they are sorted
// ascending by timestamp with a stable sort so equal timestamps keep
// their input order, then paired as consecutive non-overlapping duos:
// positions (0,1), (2,3), and so on. A trailing unpaired fill is an open
// position and produces no trade. Output is sorted ascending by close
// time regardless of grouping.
func Trades(fills []domain.Fill) []domain.DerivedTrade {
	groups := make(map[string][]domain.Fill)
	var keys []string
	for _, f := range fills {
		key := string(f.Symbol) + "|" + string(f.Side)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], f)
	}
	// Map iteration order is random; walk groups in a fixed order so the
	// final stable sort sees a deterministic sequence.
	sort.Strings(keys)

	var trades []domain.DerivedTrade
	for _, key := range keys {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Time.Before(group[j].Time)
		})

		for i := 0; i+1 < len(group); i += 2 {
			trades = append(trades, pair(group[i], group[i+1]))
		}
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CloseTime.Before(trades[j].CloseTime)
	})
	return trades
}

// pair computes the economics of one round trip. entry is the earlier
// fill, exit the later one; both share symbol and side.
func pair(entry, exit domain.Fill) domain.DerivedTrade {
	qty := entry.Quantity
	if exit.Quantity < qty {
		qty = exit.Quantity
	}

	entryNotional := money.FromFloat(entry.Price * qty)
	exitNotional := money.FromFloat(exit.Price * qty)
	feeTotal := money.FromFloat(entry.Fee).Add(money.FromFloat(exit.Fee))

	var raw money.Money
	if entry.Side == domain.SideLong {
		raw = exitNotional.Sub(entryNotional)
	} else {
		raw = entryNotional.Sub(exitNotional)
	}
	// Fees reduce PnL on both sides.
	pnl := raw.Sub(feeTotal)

	mix := map[domain.OrderType]int{}
	mix[entry.OrderType]++
	mix[exit.OrderType]++

	durationSec := int64(exit.Time.Sub(entry.Time).Seconds())
	if durationSec < 0 {
		durationSec = 0
	}

	return domain.DerivedTrade{
		ID:           idhash.TradeID(entry.Symbol, entry.Side, entry.Time, exit.Time),
		OpenTime:     entry.Time,
		CloseTime:    exit.Time,
		Symbol:       entry.Symbol,
		Side:         entry.Side,
		EntryPrice:   entry.Price,
		ExitPrice:    exit.Price,
		Quantity:     qty,
		PnL:          pnl,
		ReturnPct:    money.Ratio(pnl, entryNotional),
		DurationSec:  durationSec,
		TotalFees:    feeTotal,
		OrderTypeMix: mix,
	}
}
