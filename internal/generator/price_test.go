package generator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func TestPrice_NormalRegime(t *testing.T) {
	g := newTestGenerator(t, Settings{Seed: 11})

	base := mustDecimal(t, "150.0")
	// Volatility 0.02 plus half a cent of rounding slack.
	maxDrift := mustDecimal(t, "0.025")

	for i := 0; i < 5_000; i++ {
		p := g.price("AAPL", false)
		drift := p.Sub(base).Abs()
		if drift.GreaterThan(maxDrift) {
			t.Fatalf("sample %d: price %s drifts %s from base, beyond volatility", i, p, drift)
		}
		if p.Exponent() < -2 {
			t.Fatalf("sample %d: price %s not rounded to cents", i, p)
		}
	}
}

func TestPrice_SuspiciousRegime(t *testing.T) {
	g := newTestGenerator(t, Settings{Seed: 11})

	base := mustDecimal(t, "150.0")
	lo := mustDecimal(t, "0.145")
	hi := mustDecimal(t, "0.255")

	sawUp, sawDown := false, false
	for i := 0; i < 5_000; i++ {
		p := g.price("AAPL", true)
		drift := p.Sub(base)
		abs := drift.Abs()
		if abs.LessThan(lo) || abs.GreaterThan(hi) {
			t.Fatalf("sample %d: price %s drift %s outside the suspicious band", i, p, drift)
		}
		if drift.IsPositive() {
			sawUp = true
		}
		if drift.IsNegative() {
			sawDown = true
		}
	}
	if !sawUp || !sawDown {
		t.Fatalf("suspicious drift direction not random: up=%v down=%v", sawUp, sawDown)
	}
}

func TestPrice_Reproducible(t *testing.T) {
	g1 := newTestGenerator(t, Settings{Seed: 99})
	g2 := newTestGenerator(t, Settings{Seed: 99})

	for i := 0; i < 100; i++ {
		p1 := g1.price("MSFT", i%5 == 0)
		p2 := g2.price("MSFT", i%5 == 0)
		if !p1.Equal(p2) {
			t.Fatalf("sample %d: %s != %s with identical seeds", i, p1, p2)
		}
	}
}
