package scenario

import (
	"time"

	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/generator"
)

// WashTrading emits 3-5 matched buy/sell pairs 15 minutes apart between two
// counterparties. Party B is chosen among counterparties sharing party A's
// beneficial owner (the canonical wash signature); when none exists, a
// random counterparty stands in. Each sell leg is forced to match its buy
// leg's price, quantity, and symbol exactly.
func WashTrading(g *generator.Generator, baseTime time.Time) []*models.Trade {
	var docs []*models.Trade
	rng := g.Rand()

	cpA := g.RandomCounterparty()

	var related []*models.Counterparty
	for _, cp := range g.LiveCounterparties() {
		if cp.BeneficialOwnerID == cpA.BeneficialOwnerID && cp.ID != cpA.ID {
			related = append(related, cp)
		}
	}
	var cpB *models.Counterparty
	if len(related) > 0 {
		cpB = related[rng.Intn(len(related))]
	} else {
		cpB = g.RandomCounterparty()
	}

	numPairs := 3 + rng.Intn(3)
	for i := 0; i < numPairs; i++ {
		buyTime := baseTime.Add(time.Duration(15*i) * time.Minute)
		buy := g.GenerateTrade(buyTime, generator.TradeParams{
			Suspicious:     true,
			ScenarioType:   models.ScenarioWashTrading,
			CounterpartyID: cpA.ID,
			Side:           models.SideBuy,
		})
		buy.PatternRole = models.RoleWashBuy

		sellTime := buyTime.Add(time.Duration(1+rng.Intn(5)) * time.Minute)
		sell := g.GenerateTrade(sellTime, generator.TradeParams{
			Suspicious:     true,
			ScenarioType:   models.ScenarioWashTrading,
			CounterpartyID: cpB.ID,
			Side:           models.SideSell,
		})
		sell.Quantity = buy.Quantity
		sell.Price = buy.Price
		sell.Symbol = buy.Symbol
		sell.PatternRole = models.RoleWashSell

		docs = append(docs, buy, sell)
	}

	return docs
}
