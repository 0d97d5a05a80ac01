package scenario

import (
	"time"

	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/generator"
)

// Spoofing emits one oversized (10x) pending sell order from an
// institutional or proprietary counterparty, 2-4 smaller opposite-side
// executions on the same symbol 30-120s later, then cancels the spoof order
// two minutes after it was placed, appending both resulting versions.
func Spoofing(g *generator.Generator, baseTime time.Time) []*models.Trade {
	var docs []*models.Trade
	rng := g.Rand()

	spoofer := pickByAccountType(g, "I", "P")

	spoof := g.GenerateTrade(baseTime, generator.TradeParams{
		Suspicious:     true,
		ScenarioType:   models.ScenarioSpoofing,
		CounterpartyID: spoofer.ID,
		Side:           models.SideSell,
	})
	spoof.Quantity *= 10
	spoof.PatternRole = models.RoleSpoofOrder
	spoof.TradeStatus = models.TradePending
	docs = append(docs, spoof)

	numReal := 2 + rng.Intn(3)
	for i := 0; i < numReal; i++ {
		real := g.GenerateTrade(baseTime.Add(time.Duration(30+rng.Intn(91))*time.Second), generator.TradeParams{
			Suspicious:     true,
			ScenarioType:   models.ScenarioSpoofing,
			CounterpartyID: spoofer.ID,
			Side:           models.SideBuy,
		})
		real.Symbol = spoof.Symbol
		real.PatternRole = models.RoleActualExecution
		docs = append(docs, real)
	}

	closed, cancelled := g.GenerateTradeCorrection(spoof, baseTime.Add(2*time.Minute))
	cancelled.TradeStatus = models.TradeCancelled
	docs = append(docs, closed, cancelled)

	return docs
}

// pickByAccountType picks a random live counterparty whose account type is
// one of the given codes, falling back to any counterparty when none match.
func pickByAccountType(g *generator.Generator, codes ...string) *models.Counterparty {
	var candidates []*models.Counterparty
	for _, cp := range g.LiveCounterparties() {
		for _, code := range codes {
			if cp.AccountType == code {
				candidates = append(candidates, cp)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return g.RandomCounterparty()
	}
	return candidates[g.Rand().Intn(len(candidates))]
}
