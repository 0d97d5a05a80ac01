package scenario

import (
	"time"

	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/generator"
)

// All runs the four manipulation scenarios at staggered offsets from
// baseTime (layering +0, wash trading +30m, spoofing +1h, momentum ignition
// +2h) so their temporal windows never collide, and concatenates the
// resulting documents in scenario order.
func All(g *generator.Generator, baseTime time.Time) []*models.Trade {
	var docs []*models.Trade

	docs = append(docs, Layering(g, baseTime)...)
	docs = append(docs, WashTrading(g, baseTime.Add(30*time.Minute))...)
	docs = append(docs, Spoofing(g, baseTime.Add(time.Hour))...)
	docs = append(docs, MomentumIgnition(g, baseTime.Add(2*time.Hour))...)

	return docs
}
