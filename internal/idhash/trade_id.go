package idhash

import (
	"fmt"
	"time"

	"trading-journal/internal/domain"
)

// TradeID composes the deterministic id of a derived trade from its
// instrument, side and the two leg timestamps. The pairing algorithm
// never produces two trades with the same symbol, side and open/close
// instants, so these four fields identify a pairing on their own.
func TradeID(symbol string, side domain.Side, openTime, closeTime time.Time) string {
	return fmt.Sprintf("%s-%s-%d-%d",
		symbol,
		side,
		openTime.UTC().UnixMilli(),
		closeTime.UTC().UnixMilli(),
	)
}
