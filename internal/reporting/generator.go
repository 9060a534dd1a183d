package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"trading-journal/internal/analytics"
	"trading-journal/internal/derive"
	"trading-journal/internal/domain"
	"trading-journal/internal/filter"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
)

// Generator produces reports from stored fills.
type Generator struct {
	fills storage.FillStore
	loc   *time.Location
	now   func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. Time bucketing defaults
// to UTC.
func NewGenerator(fills storage.FillStore) *Generator {
	return &Generator{
		fills: fills,
		loc:   time.UTC,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithLocation sets the location used for calendar bucketing.
func (g *Generator) WithLocation(loc *time.Location) *Generator {
	g.loc = loc
	return g
}

// Generate loads the account's fills matching state, derives trades and
// computes every analytics section.
func (g *Generator) Generate(ctx context.Context, state domain.FilterState, accountID string) (*Report, error) {
	q := filter.ToFillFilter(state, accountID)
	fills, err := g.fills.GetByFilter(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load fills: %w", err)
	}

	// Derivation pairs whatever landed in the window; the trade
	// predicate then re-checks close times against the filter so a pair
	// closing past the end date drops out.
	trades := filter.Trades(derive.Trades(fills), state)

	curve := analytics.EquityCurve(trades)
	drawdowns, maxDD := analytics.DrawdownSeries(curve)

	observability.RecordReportGenerated()

	return &Report{
		GeneratedAt:    g.now(),
		AccountID:      accountID,
		RangeStart:     state.StartDate,
		RangeEnd:       state.EndDate,
		FillCount:      len(fills),
		TradeCount:     len(trades),
		Summary:        analytics.TotalPnL(trades),
		WinLoss:        analytics.WinLoss(trades),
		LongShort:      analytics.LongShort(trades),
		VolumeFees:     analytics.VolumeAndFees(fills),
		MaxDrawdown:    maxDD,
		AvgDurationSec: analytics.AverageDuration(trades),
		EquityCurve:    curve,
		Drawdowns:      drawdowns,
		TimeBuckets:    analytics.TimePerformance(trades, g.loc),
		OrderTypes:     analytics.OrderTypePerformance(trades),
		Symbols:        analytics.SymbolBreakdown(trades),
		Daily:          DailyPoints(trades, accountID, g.loc),
	}, nil
}

// DailyPoints folds trades into per-calendar-day snapshot rows, sorted
// by day. These are what the report run persists to the snapshot store.
func DailyPoints(trades []domain.DerivedTrade, accountID string, loc *time.Location) []domain.DailyPnLPoint {
	byDay := make(map[string]*domain.DailyPnLPoint)
	for _, t := range trades {
		day := t.CloseTime.In(loc).Format("2006-01-02")
		p := byDay[day]
		if p == nil {
			p = &domain.DailyPnLPoint{AccountID: accountID, Day: day}
			byDay[day] = p
		}
		p.PnL = p.PnL.Add(t.PnL)
		p.Fees = p.Fees.Add(t.TotalFees)
		p.TradeCount++
	}

	points := make([]domain.DailyPnLPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}
