// Package reporting renders performance reports over stored fills:
// markdown for reading, CSV for spreadsheets, and the daily snapshot
// points the report run persists.
package reporting

import (
	"time"

	"trading-journal/internal/analytics"
	"trading-journal/internal/domain"
	"trading-journal/internal/money"
)

// Report is a fully computed performance report for one account and
// filter window.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`
	AccountID   string    `json:"accountId,omitempty"`

	// Filter window, nil side means unbounded.
	RangeStart *time.Time `json:"rangeStart,omitempty"`
	RangeEnd   *time.Time `json:"rangeEnd,omitempty"`

	FillCount  int `json:"fillCount"`
	TradeCount int `json:"tradeCount"`

	Summary        analytics.PnLSummary     `json:"summary"`
	WinLoss        analytics.WinLossStats   `json:"winLoss"`
	LongShort      analytics.LongShortStats `json:"longShort"`
	VolumeFees     analytics.VolumeFees     `json:"volumeFees"`
	MaxDrawdown    money.Money              `json:"maxDrawdown"`
	AvgDurationSec float64                  `json:"avgDurationSeconds"`

	// Chart series: cumulative equity per trade close, the drawdown at
	// each curve point, and PnL bucketed by close day/weekday/hour.
	EquityCurve []analytics.EquityPoint   `json:"equityCurve"`
	Drawdowns   []analytics.DrawdownPoint `json:"drawdowns"`
	TimeBuckets analytics.TimeBuckets     `json:"timeBuckets"`

	OrderTypes map[domain.OrderType]analytics.OrderTypeStats `json:"orderTypes"`
	Symbols    []analytics.SymbolRow                         `json:"symbols"`
	Daily      []domain.DailyPnLPoint                        `json:"daily"`
}
