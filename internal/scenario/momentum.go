package scenario

import (
	"time"

	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/generator"
)

// MomentumIgnition emits 3-5 aggressive buy "ignition" trades 10s apart from
// an institutional counterparty, then, after a five-minute gap for momentum
// traders to pile in, 2-4 sell-side profit-taking trades 30s apart. Both
// phases are pinned to a single symbol.
func MomentumIgnition(g *generator.Generator, baseTime time.Time) []*models.Trade {
	var docs []*models.Trade
	rng := g.Rand()

	tickers := g.Tickers()
	symbol := tickers[rng.Intn(len(tickers))]
	manipulator := pickByAccountType(g, "I")

	numIgnition := 3 + rng.Intn(3)
	for i := 0; i < numIgnition; i++ {
		ignition := g.GenerateTrade(baseTime.Add(time.Duration(10*i)*time.Second), generator.TradeParams{
			Suspicious:     true,
			ScenarioType:   models.ScenarioMomentumIgnition,
			CounterpartyID: manipulator.ID,
			Side:           models.SideBuy,
		})
		ignition.Symbol = symbol
		ignition.PatternRole = models.RoleMomentumIgnition
		docs = append(docs, ignition)
	}

	profitStart := baseTime.Add(5 * time.Minute)
	numProfit := 2 + rng.Intn(3)
	for i := 0; i < numProfit; i++ {
		profit := g.GenerateTrade(profitStart.Add(time.Duration(30*i)*time.Second), generator.TradeParams{
			Suspicious:     true,
			ScenarioType:   models.ScenarioMomentumIgnition,
			CounterpartyID: manipulator.ID,
			Side:           models.SideSell,
		})
		profit.Symbol = symbol
		profit.PatternRole = models.RoleProfitTaking
		docs = append(docs, profit)
	}

	return docs
}
