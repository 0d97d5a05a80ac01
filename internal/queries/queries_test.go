package queries

import (
	"strings"
	"testing"
)

func TestDetectionCatalog(t *testing.T) {
	if len(Names) != 4 {
		t.Fatalf("query count: %d", len(Names))
	}
	for _, name := range Names {
		q, ok := Detection[name]
		if !ok {
			t.Fatalf("no query registered for %s", name)
		}
		if strings.TrimSpace(q) == "" {
			t.Fatalf("empty query for %s", name)
		}
		// Every detection query reads through a temporal snapshot.
		if !strings.Contains(q, "FOR SYSTEM_TIME") && !strings.Contains(q, "FOR VALID_TIME") {
			t.Errorf("%s: query lacks a temporal predicate", name)
		}
	}
	if len(Detection) != len(Names) {
		t.Fatalf("unlisted queries present: %d registered, %d named", len(Detection), len(Names))
	}
}

func TestDetectionQueryShapes(t *testing.T) {
	cases := []struct {
		name     string
		wantSubs []string
	}{
		{"layering", []string{"num_orders_in_sequence", "cancelled", "counterparties"}},
		{"wash_trading", []string{"beneficial_owner_id", "price_diff_pct", "INTERVAL '5 minutes'"}},
		{"spoofing", []string{"avg_order_size", "cancel_time", "pending"}},
		{"momentum_ignition", []string{"prev_price", "rolling_volume", "trade_frequency"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Detection[tc.name]
			for _, sub := range tc.wantSubs {
				if !strings.Contains(q, sub) {
					t.Errorf("query missing %q", sub)
				}
			}
		})
	}
}
