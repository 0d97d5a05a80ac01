package generator

import (
	"github.com/shopspring/decimal"
)

// price generates a price for a security, rounded to two decimal places and
// returned as an exact decimal.
//
// Normal regime: variation ~ Uniform(-volatility, +volatility), direction
// fixed positive. Suspicious regime: variation ~ Uniform(0.15, 0.25) with
// random sign.
//
// The combination rule is additive: base + direction*variation. The upstream
// dataset this generator reproduces uses the additive form rather than
// base*(1+direction*variation); detection queries are calibrated against it,
// so it is preserved here. See DESIGN.md before changing.
func (g *Generator) price(ticker string, suspicious bool) decimal.Decimal {
	sec := g.securities[ticker]
	base := sec.BasePrice.InexactFloat64()

	var variation float64
	direction := 1.0
	if suspicious {
		variation = 0.15 + g.rng.Float64()*0.10
		if g.rng.Float64() <= 0.5 {
			direction = -1.0
		}
	} else {
		variation = -sec.Volatility + g.rng.Float64()*2*sec.Volatility
	}

	return decimal.NewFromFloat(base + direction*variation).Round(2)
}
