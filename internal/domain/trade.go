package domain

import (
	"time"

	"trading-journal/internal/money"
)

// DerivedTrade is a synthesized round trip built by pairing two
// consecutive same-symbol, same-side fills in chronological order. It is
// never persisted on its own: it is recomputed from the current fill set
// on every query, and recomputing from the same fills always yields the
// same id and field values.
type DerivedTrade struct {
	ID        string    `json:"id"`
	OpenTime  time.Time `json:"openTs"`
	CloseTime time.Time `json:"closeTs"`
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`

	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	// Quantity is the min of the two legs' quantities.
	Quantity float64 `json:"qty"`

	// PnL is realized and fee-inclusive.
	PnL         money.Money `json:"pnl"`
	ReturnPct   float64     `json:"returnPct"`
	DurationSec int64       `json:"durationSec"`
	TotalFees   money.Money `json:"totalFees"`

	// OrderTypeMix counts one entry per leg's order type; values sum
	// to exactly 2 across keys.
	OrderTypeMix map[OrderType]int `json:"orderTypeMix"`
}

// DailyPnLPoint is a persisted analytics snapshot: realized PnL, fees
// and trade count for one account on one calendar day.
type DailyPnLPoint struct {
	AccountID  string      `json:"accountId"`
	Day        string      `json:"day"` // YYYY-MM-DD
	PnL        money.Money `json:"pnl"`
	Fees       money.Money `json:"fees"`
	TradeCount int         `json:"trades"`
}
