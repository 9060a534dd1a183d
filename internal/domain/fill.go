package domain

import "time"

// MarketType classifies the venue market a fill executed on.
type MarketType string

const (
	MarketSpot    MarketType = "spot"
	MarketPerp    MarketType = "perp"
	MarketOptions MarketType = "options"
)

// Side is the direction of a position leg.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// FeeType classifies the fee charged on a fill.
type FeeType string

const (
	FeeMaker   FeeType = "maker"
	FeeTaker   FeeType = "taker"
	FeeFunding FeeType = "funding"
	FeeOther   FeeType = "other"
)

// OrderType classifies the order that produced a fill.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
	OrderStop   OrderType = "stop"
	OrderOther  OrderType = "other"
)

// MarketTypes lists all market types in a fixed order.
var MarketTypes = []MarketType{MarketSpot, MarketPerp, MarketOptions}

// Sides lists both position sides.
var Sides = []Side{SideLong, SideShort}

// FeeTypes lists all fee types in a fixed order.
var FeeTypes = []FeeType{FeeMaker, FeeTaker, FeeFunding, FeeOther}

// OrderTypes lists all order types in a fixed order.
var OrderTypes = []OrderType{OrderMarket, OrderLimit, OrderStop, OrderOther}

// Valid reports whether m is a known market type.
func (m MarketType) Valid() bool {
	switch m {
	case MarketSpot, MarketPerp, MarketOptions:
		return true
	}
	return false
}

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideLong || s == SideShort
}

// Valid reports whether f is a known fee type.
func (f FeeType) Valid() bool {
	switch f {
	case FeeMaker, FeeTaker, FeeFunding, FeeOther:
		return true
	}
	return false
}

// Valid reports whether o is a known order type.
func (o OrderType) Valid() bool {
	switch o {
	case OrderMarket, OrderLimit, OrderStop, OrderOther:
		return true
	}
	return false
}

// Fill is a single immutable trade execution record (one leg of a
// position open or close). Created by import, manual entry, demo seed
// or a sync provider; never mutated afterwards.
type Fill struct {
	ID         string     `json:"id"`
	Time       time.Time  `json:"ts"`
	Symbol     string     `json:"symbol"`
	MarketType MarketType `json:"marketType"`
	Side       Side       `json:"side"`
	Quantity   float64    `json:"qty"`   // positive
	Price      float64    `json:"price"` // positive
	Fee        float64    `json:"fee"`   // non-negative
	FeeType    FeeType    `json:"feeType"`
	OrderType  OrderType  `json:"orderType"`

	// TxRef is the venue transaction signature. Not guaranteed globally
	// unique on its own; EventID is the dedup key derived from it plus
	// the fill's defining fields.
	TxRef   string `json:"txRef"`
	EventID string `json:"eventId"`

	Tags      []string `json:"tags"`
	AccountID string   `json:"accountId,omitempty"`
	ImportID  string   `json:"importId,omitempty"`
}

// FillInsert is a Fill before storage assigns its row id. EventID may be
// left empty; the storage layer derives it before inserting.
type FillInsert struct {
	Time       time.Time
	Symbol     string
	MarketType MarketType
	Side       Side
	Quantity   float64
	Price      float64
	Fee        float64
	FeeType    FeeType
	OrderType  OrderType
	TxRef      string
	EventID    string
	Tags       []string
	AccountID  string
	ImportID   string
}

// FillAnnotation is a user-authored note and tag set attached to a
// single fill. One annotation per fill.
type FillAnnotation struct {
	ID        string     `json:"id"`
	FillID    string     `json:"fillId"`
	Note      string     `json:"note"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
