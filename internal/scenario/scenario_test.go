package scenario

import (
	"testing"
	"time"

	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/generator"
)

var scenarioBase = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, seed int64) *generator.Generator {
	t.Helper()
	g, err := generator.New(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		generator.Settings{Seed: seed},
	)
	if err != nil {
		t.Fatalf("generator.New: %v", err)
	}
	return g
}

func TestLayering(t *testing.T) {
	g := newTestGenerator(t, 42)
	docs := Layering(g, scenarioBase)

	var layers, cancelled, closed []*models.Trade
	var real *models.Trade
	for _, d := range docs {
		switch {
		case d.PatternRole == models.RoleDeceptiveLayer && d.TradeStatus == models.TradeCancelled:
			cancelled = append(cancelled, d)
		case d.PatternRole == models.RoleDeceptiveLayer && d.ValidTo != nil:
			closed = append(closed, d)
		case d.PatternRole == models.RoleDeceptiveLayer:
			layers = append(layers, d)
		case d.PatternRole == models.RoleActualExecution:
			if real != nil {
				t.Fatal("more than one actual execution")
			}
			real = d
		default:
			t.Fatalf("unexpected document role %q status %q", d.PatternRole, d.TradeStatus)
		}
	}

	n := len(layers)
	if n < 4 || n > 6 {
		t.Fatalf("layer count %d outside [4, 6]", n)
	}
	if len(docs) != 3*n+1 {
		t.Fatalf("document count %d, want %d", len(docs), 3*n+1)
	}

	manipulator := layers[0].CounterpartyID
	for i, layer := range layers {
		if layer.LayerSequence != i+1 {
			t.Fatalf("layer %d sequence %d", i, layer.LayerSequence)
		}
		if layer.Side != models.SideSell {
			t.Fatalf("layer %d side %q", i, layer.Side)
		}
		if layer.CounterpartyID != manipulator {
			t.Fatalf("layer %d from %s, want single manipulator %s", i, layer.CounterpartyID, manipulator)
		}
		if layer.ScenarioType != models.ScenarioLayering {
			t.Fatalf("layer %d scenario %q", i, layer.ScenarioType)
		}
		want := scenarioBase.Add(time.Duration(30*i) * time.Second)
		if !layer.ExecutionTimestamp.Equal(want) {
			t.Fatalf("layer %d at %v, want %v", i, layer.ExecutionTimestamp, want)
		}
	}

	if real == nil {
		t.Fatal("no actual execution emitted")
	}
	executionTime := scenarioBase.Add(2 * time.Minute)
	if !real.ExecutionTimestamp.Equal(executionTime) {
		t.Fatalf("execution at %v, want %v", real.ExecutionTimestamp, executionTime)
	}
	if real.Side != models.SideBuy || real.CounterpartyID != manipulator {
		t.Fatalf("execution side %q counterparty %q", real.Side, real.CounterpartyID)
	}
	if real.Quantity%3 != 0 || real.Quantity < 300 || real.Quantity > 3000 {
		t.Fatalf("execution quantity %d is not a tripled base draw", real.Quantity)
	}

	if len(closed) != n || len(cancelled) != n {
		t.Fatalf("cancellations: %d closed, %d cancelled, want %d each", len(closed), len(cancelled), n)
	}
	cancelledByID := map[string]*models.Trade{}
	for _, c := range cancelled {
		cancelledByID[c.ID] = c
	}
	for i, layer := range layers {
		c, ok := cancelledByID[layer.ID]
		if !ok {
			t.Fatalf("layer %d never cancelled", i)
		}
		delay := c.ValidFrom.Sub(executionTime)
		if delay < time.Second || delay > 30*time.Second {
			t.Fatalf("layer %d cancelled %v after execution", i, delay)
		}
	}
	for _, cl := range closed {
		c := cancelledByID[cl.ID]
		if c == nil || !c.ValidFrom.Equal(cl.ValidTo.Time) {
			t.Fatalf("closed version of %s does not meet its cancellation", cl.ID)
		}
	}
}

func TestWashTrading(t *testing.T) {
	g := newTestGenerator(t, 42)
	docs := WashTrading(g, scenarioBase)

	if len(docs)%2 != 0 {
		t.Fatalf("odd document count %d", len(docs))
	}
	pairs := len(docs) / 2
	if pairs < 3 || pairs > 5 {
		t.Fatalf("pair count %d outside [3, 5]", pairs)
	}

	for i := 0; i < pairs; i++ {
		buy, sell := docs[2*i], docs[2*i+1]

		if buy.PatternRole != models.RoleWashBuy || sell.PatternRole != models.RoleWashSell {
			t.Fatalf("pair %d roles %q/%q", i, buy.PatternRole, sell.PatternRole)
		}
		if buy.Side != models.SideBuy || sell.Side != models.SideSell {
			t.Fatalf("pair %d sides %q/%q", i, buy.Side, sell.Side)
		}
		if !sell.Price.Equal(buy.Price) || sell.Quantity != buy.Quantity || sell.Symbol != buy.Symbol {
			t.Fatalf("pair %d legs do not offset: %s %d %s vs %s %d %s",
				i, buy.Price, buy.Quantity, buy.Symbol, sell.Price, sell.Quantity, sell.Symbol)
		}
		if buy.ScenarioType != models.ScenarioWashTrading || sell.ScenarioType != models.ScenarioWashTrading {
			t.Fatalf("pair %d scenario %q/%q", i, buy.ScenarioType, sell.ScenarioType)
		}

		wantBuy := scenarioBase.Add(time.Duration(15*i) * time.Minute)
		if !buy.ExecutionTimestamp.Equal(wantBuy) {
			t.Fatalf("pair %d buy at %v, want %v", i, buy.ExecutionTimestamp, wantBuy)
		}
		gap := sell.ExecutionTimestamp.Sub(buy.ExecutionTimestamp.Time)
		if gap < time.Minute || gap > 5*time.Minute {
			t.Fatalf("pair %d sell %v after buy", i, gap)
		}
	}

	// One party per side for the whole sequence.
	for i := 0; i < pairs; i++ {
		if docs[2*i].CounterpartyID != docs[0].CounterpartyID {
			t.Fatalf("pair %d buyer changed", i)
		}
		if docs[2*i+1].CounterpartyID != docs[1].CounterpartyID {
			t.Fatalf("pair %d seller changed", i)
		}
	}
}

func TestSpoofing(t *testing.T) {
	g := newTestGenerator(t, 42)
	docs := Spoofing(g, scenarioBase)

	spoof := docs[0]
	if spoof.PatternRole != models.RoleSpoofOrder || spoof.TradeStatus != models.TradePending {
		t.Fatalf("first document role %q status %q", spoof.PatternRole, spoof.TradeStatus)
	}
	if spoof.Side != models.SideSell {
		t.Fatalf("spoof side %q", spoof.Side)
	}
	if spoof.Quantity%10 != 0 || spoof.Quantity < 1000 || spoof.Quantity > 10000 {
		t.Fatalf("spoof quantity %d is not a 10x base draw", spoof.Quantity)
	}
	if !spoof.ExecutionTimestamp.Equal(scenarioBase) {
		t.Fatalf("spoof at %v", spoof.ExecutionTimestamp)
	}

	executions := docs[1 : len(docs)-2]
	if len(executions) < 2 || len(executions) > 4 {
		t.Fatalf("execution count %d outside [2, 4]", len(executions))
	}
	for i, ex := range executions {
		if ex.PatternRole != models.RoleActualExecution || ex.Side != models.SideBuy {
			t.Fatalf("execution %d role %q side %q", i, ex.PatternRole, ex.Side)
		}
		if ex.Symbol != spoof.Symbol || ex.CounterpartyID != spoof.CounterpartyID {
			t.Fatalf("execution %d not aligned with spoof order", i)
		}
		delay := ex.ExecutionTimestamp.Sub(scenarioBase)
		if delay < 30*time.Second || delay > 120*time.Second {
			t.Fatalf("execution %d delay %v outside [30s, 120s]", i, delay)
		}
	}

	closed, cancelled := docs[len(docs)-2], docs[len(docs)-1]
	cancelTime := scenarioBase.Add(2 * time.Minute)
	if closed.ID != spoof.ID || cancelled.ID != spoof.ID {
		t.Fatal("cancellation versions must share the spoof order id")
	}
	if closed.ValidTo == nil || !closed.ValidTo.Equal(cancelTime) {
		t.Fatalf("closed.ValidTo %v, want %v", closed.ValidTo, cancelTime)
	}
	if cancelled.TradeStatus != models.TradeCancelled || !cancelled.ValidFrom.Equal(cancelTime) {
		t.Fatalf("cancelled status %q at %v", cancelled.TradeStatus, cancelled.ValidFrom)
	}
}

func TestMomentumIgnition(t *testing.T) {
	g := newTestGenerator(t, 42)
	docs := MomentumIgnition(g, scenarioBase)

	var ignition, profit []*models.Trade
	for _, d := range docs {
		switch d.PatternRole {
		case models.RoleMomentumIgnition:
			ignition = append(ignition, d)
		case models.RoleProfitTaking:
			profit = append(profit, d)
		default:
			t.Fatalf("unexpected role %q", d.PatternRole)
		}
	}

	if n := len(ignition); n < 3 || n > 5 {
		t.Fatalf("ignition count %d outside [3, 5]", n)
	}
	if n := len(profit); n < 2 || n > 4 {
		t.Fatalf("profit-taking count %d outside [2, 4]", n)
	}

	symbol := ignition[0].Symbol
	manipulator := ignition[0].CounterpartyID
	for i, d := range docs {
		if d.Symbol != symbol {
			t.Fatalf("document %d symbol %q, phases must share %q", i, d.Symbol, symbol)
		}
		if d.CounterpartyID != manipulator {
			t.Fatalf("document %d counterparty %q", i, d.CounterpartyID)
		}
		if d.ScenarioType != models.ScenarioMomentumIgnition {
			t.Fatalf("document %d scenario %q", i, d.ScenarioType)
		}
	}

	for i, d := range ignition {
		if d.Side != models.SideBuy {
			t.Fatalf("ignition %d side %q", i, d.Side)
		}
		want := scenarioBase.Add(time.Duration(10*i) * time.Second)
		if !d.ExecutionTimestamp.Equal(want) {
			t.Fatalf("ignition %d at %v, want %v", i, d.ExecutionTimestamp, want)
		}
	}

	profitStart := scenarioBase.Add(5 * time.Minute)
	for i, d := range profit {
		if d.Side != models.SideSell {
			t.Fatalf("profit %d side %q", i, d.Side)
		}
		want := profitStart.Add(time.Duration(30*i) * time.Second)
		if !d.ExecutionTimestamp.Equal(want) {
			t.Fatalf("profit %d at %v, want %v", i, d.ExecutionTimestamp, want)
		}
	}
}

func TestAll_StaggeredWindows(t *testing.T) {
	g := newTestGenerator(t, 42)
	docs := All(g, scenarioBase)

	earliest := map[string]time.Time{}
	for _, d := range docs {
		at := d.ExecutionTimestamp.Time
		if first, ok := earliest[d.ScenarioType]; !ok || at.Before(first) {
			earliest[d.ScenarioType] = at
		}
	}

	offsets := map[string]time.Duration{
		models.ScenarioLayering:         0,
		models.ScenarioWashTrading:      30 * time.Minute,
		models.ScenarioSpoofing:         time.Hour,
		models.ScenarioMomentumIgnition: 2 * time.Hour,
	}
	for scen, offset := range offsets {
		got, ok := earliest[scen]
		if !ok {
			t.Fatalf("scenario %s missing from composed output", scen)
		}
		if want := scenarioBase.Add(offset); !got.Equal(want) {
			t.Fatalf("scenario %s starts at %v, want %v", scen, got, want)
		}
	}

	// Closed validity windows from different scenarios never overlap.
	type window struct {
		scen     string
		from, to time.Time
	}
	var windows []window
	for _, d := range docs {
		if d.ValidTo != nil {
			windows = append(windows, window{d.ScenarioType, d.ValidFrom.Time, d.ValidTo.Time})
		}
	}
	for i, a := range windows {
		for _, b := range windows[i+1:] {
			if a.scen == b.scen {
				continue
			}
			if a.from.Before(b.to) && b.from.Before(a.to) {
				t.Fatalf("windows overlap across scenarios %s and %s", a.scen, b.scen)
			}
		}
	}
}
