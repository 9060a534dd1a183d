// Package idhash derives the stable identifiers used for fill
// deduplication and derived-trade identity.
package idhash

import (
	"fmt"
	"strconv"
	"time"
)

// EventID computes the dedup key for a fill from its immutable defining
// fields. When a sync provider or an idempotent batch insert re-delivers
// the same execution, the storage layer uses this key to skip it.
//
// The hash is a djb2-style multiplicative polynomial over the joined
// fields, truncated to 32 bits. This is a deliberate non-cryptographic
// choice: determinism and a low collision rate within one account's fill
// volume are the requirements, not preimage resistance. Changing the
// algorithm would change every stored key, so it must never be swapped
// silently; re-keying existing rows would need an explicit migration.
func EventID(txRef string, ts time.Time, symbol string, qty, price float64) string {
	raw := fmt.Sprintf("%s-%s-%s-%s-%s",
		txRef,
		ts.UTC().Format(time.RFC3339Nano),
		symbol,
		strconv.FormatFloat(qty, 'f', -1, 64),
		strconv.FormatFloat(price, 'f', -1, 64),
	)

	h := int32(5381)
	for _, b := range []byte(raw) {
		h = h*33 ^ int32(b)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return "e" + strconv.FormatInt(v, 16)
}
