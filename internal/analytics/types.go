// Package analytics computes performance statistics over derived trades
// and raw fills. Every function is pure and operates on an input set the
// caller has already filtered; none of them can fail — a ratio with a
// zero denominator resolves to 0 so the dashboard always renders a
// number.
package analytics

import (
	"time"

	"trading-journal/internal/domain"
	"trading-journal/internal/money"
)

// PnLSummary is total realized PnL and its percentage of total entry
// notional.
type PnLSummary struct {
	PnL    money.Money `json:"pnl"`
	PnLPct float64     `json:"pnlPct"`
}

// EquityPoint is one step of the cumulative equity curve, emitted per
// trade at its close time.
type EquityPoint struct {
	Time   time.Time   `json:"ts"`
	Equity money.Money `json:"equity"`
}

// DrawdownPoint is the decline from the running equity peak at one
// curve point. Drawdown is always <= 0.
type DrawdownPoint struct {
	Time        time.Time   `json:"ts"`
	Drawdown    money.Money `json:"drawdown"`
	DrawdownPct float64     `json:"drawdownPct"`
}

// VolumeFees aggregates notional volume and fees over raw fills,
// including unpaired open legs.
type VolumeFees struct {
	Volume       money.Money                    `json:"volume"`
	FeeTotal     money.Money                    `json:"feeTotal"`
	FeeBreakdown map[domain.FeeType]money.Money `json:"feeBreakdown"`
}

// WinLossStats partitions trades into wins (pnl > 0) and losses
// (pnl < 0). Break-even trades belong to neither bucket but still count
// toward TradeCount.
type WinLossStats struct {
	TradeCount  int         `json:"tradeCount"`
	Wins        int         `json:"wins"`
	Losses      int         `json:"losses"`
	WinRate     float64     `json:"winRate"`
	AvgWin      money.Money `json:"avgWin"`
	AvgLoss     money.Money `json:"avgLoss"`
	LargestWin  money.Money `json:"largestWin"`
	LargestLoss money.Money `json:"largestLoss"`
}

// Bias labels the long/short balance of a trade set.
type Bias string

const (
	BiasBalanced Bias = "balanced"
	BiasLong     Bias = "long"
	BiasShort    Bias = "short"
)

// LongShortStats counts trades per side.
type LongShortStats struct {
	LongCount  int     `json:"longCount"`
	ShortCount int     `json:"shortCount"`
	Ratio      float64 `json:"ratio"`
	Bias       Bias    `json:"bias"`
}

// OrderTypeStats aggregates performance for one order type. A trade with
// mixed entry/exit order types contributes to both types' buckets.
type OrderTypeStats struct {
	Trades int         `json:"trades"`
	Wins   int         `json:"wins"`
	PnL    money.Money `json:"pnl"`
	Fees   money.Money `json:"fees"`
}

// TimeBuckets maps calendar-day (YYYY-MM-DD), weekday-name and
// hour-of-day (00-23) keys to summed PnL, bucketed by each trade's close
// time in the requested location.
type TimeBuckets struct {
	Daily   map[string]money.Money `json:"daily"`
	Weekday map[string]money.Money `json:"weekday"`
	Hour    map[string]money.Money `json:"hour"`
}

// SymbolRow is the per-symbol aggregate line of the symbol breakdown
// table. Volume is entry-notional based.
type SymbolRow struct {
	Symbol  string      `json:"symbol"`
	PnL     money.Money `json:"pnl"`
	WinRate float64     `json:"winRate"`
	Volume  money.Money `json:"volume"`
	Fees    money.Money `json:"fees"`
	Trades  int         `json:"trades"`
}
