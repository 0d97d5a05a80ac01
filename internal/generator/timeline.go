package generator

import (
	"time"

	"github.com/bitempo/tradegen/internal/domain/models"
)

// GenerateDataset runs the day-by-day simulation over the configured date
// range (closed interval) and returns the ordered trade and counterparty
// document collections.
//
// Per day:
//   - N ~ Uniform(10, maxTrades) trades at random minute offsets, each
//     suspicious with probability 0.15;
//   - each trade has a 0.10 chance of a correction 1-2 days later, issued
//     only when the correction date stays within the range; both resulting
//     versions are appended;
//   - with probability 0.10 one live counterparty undergoes a change event,
//     appending both resulting versions and repointing the live index.
//
// The counterparty collection always begins with the initial nine open
// versions. An inverted date range yields zero days of activity but still
// returns the initial counterparties; rejecting that configuration is the
// caller's job.
func (g *Generator) GenerateDataset() (trades []*models.Trade, counterparties []*models.Counterparty) {
	counterparties = append(counterparties, g.LiveCounterparties()...)

	for day := g.start; !day.After(g.end); day = day.AddDate(0, 0, 1) {
		numTrades := minTradesPerDay + g.rng.Intn(g.maxTrades-minTradesPerDay+1)

		for i := 0; i < numTrades; i++ {
			tradeTime := day.Add(time.Duration(g.rng.Intn(1440)) * time.Minute)
			trade := g.GenerateTrade(tradeTime, TradeParams{
				Suspicious: g.rng.Float64() < 0.15,
			})
			trades = append(trades, trade)

			if g.rng.Float64() < 0.1 {
				correctionTime := tradeTime.AddDate(0, 0, 1+g.rng.Intn(2))
				if !correctionTime.After(g.end) {
					closed, corrected := g.GenerateTradeCorrection(trade, correctionTime)
					trades = append(trades, closed, corrected)
				}
			}
		}

		if g.rng.Float64() < 0.1 {
			cp := g.RandomCounterparty()
			closed, updated := g.GenerateCounterpartyChange(cp, day)
			counterparties = append(counterparties, closed, updated)
		}
	}

	return trades, counterparties
}
