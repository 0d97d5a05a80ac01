// Package scenario synthesizes market-manipulation trade sequences with the
// temporal and relational shapes the detection queries look for. Every
// builder takes the live generator state and a scenario start time and
// returns an ordered document list; emission order encodes the narrative
// (layers before execution before cancellations) and must be preserved.
package scenario

import (
	"time"

	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/generator"
)

// Layering emits a layering pattern: 4-6 suspicious sell-side "layer" trades
// 30s apart from one manipulator, a 3x-sized buy-side execution two minutes
// in, then a cancellation of every layer 1-30s after the real execution.
// Each layer carries a 1-based layer_sequence; cancellations append both the
// closed original and the cancelled successor version.
func Layering(g *generator.Generator, baseTime time.Time) []*models.Trade {
	var docs []*models.Trade
	rng := g.Rand()

	manipulator := g.RandomCounterparty()

	numLayers := 4 + rng.Intn(3)
	layers := make([]*models.Trade, 0, numLayers)
	for i := 0; i < numLayers; i++ {
		layer := g.GenerateTrade(baseTime.Add(time.Duration(30*i)*time.Second), generator.TradeParams{
			Suspicious:     true,
			ScenarioType:   models.ScenarioLayering,
			CounterpartyID: manipulator.ID,
			Side:           models.SideSell,
		})
		layer.LayerSequence = i + 1
		layer.PatternRole = models.RoleDeceptiveLayer
		layers = append(layers, layer)
		docs = append(docs, layer)
	}

	// The real intent: a larger execution on the opposite side once the
	// layers have built artificial pressure.
	executionTime := baseTime.Add(2 * time.Minute)
	real := g.GenerateTrade(executionTime, generator.TradeParams{
		Suspicious:     true,
		ScenarioType:   models.ScenarioLayering,
		CounterpartyID: manipulator.ID,
		Side:           models.SideBuy,
	})
	real.Quantity *= 3
	real.PatternRole = models.RoleActualExecution
	docs = append(docs, real)

	// Rapid cancellations of the layers, in sequence order.
	for _, layer := range layers {
		cancelTime := executionTime.Add(time.Duration(1+rng.Intn(30)) * time.Second)
		closed, cancelled := g.GenerateTradeCorrection(layer, cancelTime)
		cancelled.TradeStatus = models.TradeCancelled
		docs = append(docs, closed, cancelled)
	}

	return docs
}
