// Package filter implements the pure predicate semantics shared by
// in-memory filtering and storage-side query translation. A storage
// backend translating a FillFilter into query clauses must match these
// predicates exactly.
package filter

import (
	"strings"
	"time"

	"trading-journal/internal/domain"
)

// sameOrAfterDay reports whether ts falls on bound's calendar day or a
// later one, comparing dates in ts's location.
func sameOrAfterDay(ts, bound time.Time) bool {
	ty, tm, td := ts.Date()
	by, bm, bd := bound.Date()
	if ty != by {
		return ty > by
	}
	if tm != bm {
		return tm > bm
	}
	return td >= bd
}

func sameOrBeforeDay(ts, bound time.Time) bool {
	ty, tm, td := ts.Date()
	by, bm, bd := bound.Date()
	if ty != by {
		return ty < by
	}
	if tm != bm {
		return tm < bm
	}
	return td <= bd
}

// inDateRange applies the inclusive calendar-date bounds of a
// FilterState. An absent bound leaves that side unbounded.
func inDateRange(ts time.Time, start, end *time.Time) bool {
	if start != nil && !sameOrAfterDay(ts, *start) {
		return false
	}
	if end != nil && !sameOrBeforeDay(ts, *end) {
		return false
	}
	return true
}

// wildcard reports whether a FilterState string field leaves its
// dimension unconstrained.
func wildcard(v string) bool {
	return v == "" || v == domain.FilterAll
}

// MatchFill is the fill-level predicate for a FilterState: date range on
// the fill time, exact symbol/marketType/side match unless wildcarded,
// and case-insensitive substring search over symbol plus tx ref.
func MatchFill(f domain.Fill, state domain.FilterState) bool {
	if !inDateRange(f.Time, state.StartDate, state.EndDate) {
		return false
	}
	if !wildcard(state.Symbol) && f.Symbol != state.Symbol {
		return false
	}
	if !wildcard(state.MarketType) && string(f.MarketType) != state.MarketType {
		return false
	}
	if !wildcard(state.Side) && string(f.Side) != state.Side {
		return false
	}
	if state.Search != "" {
		haystack := strings.ToLower(f.Symbol + " " + f.TxRef)
		if !strings.Contains(haystack, strings.ToLower(state.Search)) {
			return false
		}
	}
	return true
}

// MatchTrade is the derived-trade predicate: the same date-range logic
// applied to the close time, plus symbol and side. Market type is a
// fill-level attribute and does not constrain trades.
func MatchTrade(t domain.DerivedTrade, state domain.FilterState) bool {
	if !inDateRange(t.CloseTime, state.StartDate, state.EndDate) {
		return false
	}
	if !wildcard(state.Symbol) && t.Symbol != state.Symbol {
		return false
	}
	if !wildcard(state.Side) && string(t.Side) != state.Side {
		return false
	}
	return true
}

// Fills returns the subset of fills matching state, preserving order.
func Fills(fills []domain.Fill, state domain.FilterState) []domain.Fill {
	var out []domain.Fill
	for _, f := range fills {
		if MatchFill(f, state) {
			out = append(out, f)
		}
	}
	return out
}

// Trades returns the subset of trades matching state, preserving order.
func Trades(trades []domain.DerivedTrade, state domain.FilterState) []domain.DerivedTrade {
	var out []domain.DerivedTrade
	for _, t := range trades {
		if MatchTrade(t, state) {
			out = append(out, t)
		}
	}
	return out
}

// MatchFillFilter is the storage-level fill predicate. It is what the
// memory store runs directly and what SQL backends must reproduce in
// their WHERE clauses. Unlike FilterState bounds, FillFilter bounds are
// instants and compare directly.
func MatchFillFilter(f domain.Fill, q domain.FillFilter) bool {
	if q.From != nil && f.Time.Before(*q.From) {
		return false
	}
	if q.To != nil && f.Time.After(*q.To) {
		return false
	}
	if q.Symbol != "" && f.Symbol != q.Symbol {
		return false
	}
	if q.MarketType != "" && f.MarketType != q.MarketType {
		return false
	}
	if q.Side != "" && f.Side != q.Side {
		return false
	}
	if q.AccountID != "" && f.AccountID != q.AccountID {
		return false
	}
	if q.OrderType != "" && f.OrderType != q.OrderType {
		return false
	}
	return true
}

// ToFillFilter translates a FilterState into the storage query shape.
// Calendar-date bounds become instants spanning the whole start and end
// days so backend range clauses keep the inclusive semantics.
func ToFillFilter(state domain.FilterState, accountID string) domain.FillFilter {
	q := domain.FillFilter{AccountID: accountID}
	if state.StartDate != nil {
		start := startOfDay(*state.StartDate)
		q.From = &start
	}
	if state.EndDate != nil {
		end := endOfDay(*state.EndDate)
		q.To = &end
	}
	if !wildcard(state.Symbol) {
		q.Symbol = state.Symbol
	}
	if !wildcard(state.MarketType) {
		q.MarketType = domain.MarketType(state.MarketType)
	}
	if !wildcard(state.Side) {
		q.Side = domain.Side(state.Side)
	}
	return q
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
