package idhash

import (
	"strings"
	"testing"
	"time"
)

func TestEventID_Deterministic(t *testing.T) {
	ts := time.Date(2026, 1, 15, 14, 12, 0, 0, time.UTC)

	results := make([]string, 10)
	for i := range results {
		results[i] = EventID("abc123", ts, "DRV/USDC", 2.5, 8.32)
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("EventID not deterministic: %s != %s", results[i], results[0])
		}
	}
}

func TestEventID_Format(t *testing.T) {
	id := EventID("sig", time.Now(), "SOL/USDC", 1, 8)
	if !strings.HasPrefix(id, "e") {
		t.Errorf("EventID %q should start with 'e'", id)
	}
	if len(id) < 2 {
		t.Errorf("EventID %q too short", id)
	}
}

func TestEventID_DifferentInputsDiffer(t *testing.T) {
	ts := time.Date(2026, 1, 15, 14, 12, 0, 0, time.UTC)
	base := EventID("sig", ts, "SOL/USDC", 1, 8)

	if EventID("other", ts, "SOL/USDC", 1, 8) == base {
		t.Error("different tx ref should change the id")
	}
	if EventID("sig", ts.Add(time.Second), "SOL/USDC", 1, 8) == base {
		t.Error("different timestamp should change the id")
	}
	if EventID("sig", ts, "DRV/USDC", 1, 8) == base {
		t.Error("different symbol should change the id")
	}
	if EventID("sig", ts, "SOL/USDC", 2, 8) == base {
		t.Error("different quantity should change the id")
	}
	if EventID("sig", ts, "SOL/USDC", 1, 9) == base {
		t.Error("different price should change the id")
	}
}

func TestEventID_TimezoneNormalized(t *testing.T) {
	utc := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))

	// Same instant in a different zone must yield the same key.
	if EventID("sig", utc, "SOL/USDC", 1, 8) != EventID("sig", est, "SOL/USDC", 1, 8) {
		t.Error("EventID should be invariant under timezone representation")
	}
}
