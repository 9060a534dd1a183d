package domain

import "time"

// FilterAll is the sentinel meaning "no constraint" for the string
// fields of FilterState.
const FilterAll = "all"

// FilterState is the query descriptor driven by the dashboard filter
// bar. It is never persisted. Date bounds are inclusive and compared as
// calendar dates, not instants. An empty or "all" string field leaves
// that dimension unconstrained.
type FilterState struct {
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Symbol     string     `json:"symbol"`
	MarketType string     `json:"marketType"`
	Side       string     `json:"side"`
	Search     string     `json:"search"`
}

// FillFilter is the storage-level fill query. Zero values mean
// unconstrained. Storage backends must translate these clauses with
// exactly the semantics of the in-memory predicates in internal/filter.
type FillFilter struct {
	From       *time.Time
	To         *time.Time
	Symbol     string
	MarketType MarketType
	Side       Side
	AccountID  string
	OrderType  OrderType
	Limit      int
	Offset     int
}
