package generator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bitempo/tradegen/internal/domain/models"
)

// ErrTooFewCounterparties is returned when the counterparty universe is too
// small to form any trading relationship. Fatal at construction, never retried.
var ErrTooFewCounterparties = errors.New("need at least 2 counterparties to establish trading relationships")

const defaultMaxTradesPerDay = 25

// minTradesPerDay is the floor of the daily trade-count draw.
const minTradesPerDay = 10

// SecuritySpec configures one instrument of the generated universe.
// BasePrice is a decimal string so config values never round-trip through
// binary floating point.
type SecuritySpec struct {
	Ticker     string
	BasePrice  string
	Volatility float64
}

// Settings carries the optional knobs of a generator run.
type Settings struct {
	// Securities overrides the default four-instrument universe when non-empty.
	Securities []SecuritySpec
	// TradesPerDay is the daily trade-count ceiling; <= 0 means the default (25).
	TradesPerDay int
	// Seed seeds the generator's private random source; 0 derives a seed from
	// the wall clock, making the run non-reproducible.
	Seed int64
}

// Generator produces bitemporal trade and counterparty documents over a
// configured date range.
//
// All randomness flows through a single injected *rand.Rand owned by the
// generator, so a fixed Seed reproduces a run exactly. The generator is not
// safe for concurrent use; every operation is synchronous CPU-bound work
// over in-memory state.
type Generator struct {
	rng *rand.Rand

	start time.Time
	end   time.Time

	securities map[string]models.Security
	tickers    []string // stable iteration order for reproducibility
	traders    []models.Trader

	// live indexes the currently open version of each counterparty by
	// logical id; cpIDs preserves creation order for deterministic draws.
	live  map[string]*models.Counterparty
	cpIDs []string

	// relationships maps counterparty id to its legitimate trading partners.
	// Built once; the wash-trading synthesizer deliberately matches on
	// beneficial owner instead (see DESIGN.md).
	relationships map[string][]string

	maxTrades int
}

// TradeParams are the optional attributes of a generated trade. Zero values
// mean "let the generator choose".
type TradeParams struct {
	Suspicious     bool
	ScenarioType   string // defaults to "normal"
	CounterpartyID string // unknown or empty ids degrade to a random live counterparty
	Side           string // "B" or "S"; empty picks randomly
}

// New constructs a generator for the closed date interval [start, end].
//
// Returns a configuration error when a configured security carries an
// unparseable base price or when the counterparty universe cannot support
// trading relationships.
func New(start, end time.Time, s Settings) (*Generator, error) {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	maxTrades := s.TradesPerDay
	if maxTrades <= 0 {
		maxTrades = defaultMaxTradesPerDay
	}
	if maxTrades < minTradesPerDay {
		maxTrades = minTradesPerDay
	}

	g := &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		start:     start.UTC(),
		end:       end.UTC(),
		maxTrades: maxTrades,
	}

	var err error
	g.securities, g.tickers, err = buildSecurities(s.Securities)
	if err != nil {
		return nil, err
	}

	g.traders = g.buildTraders()

	counterparties := g.buildCounterparties()
	g.live = make(map[string]*models.Counterparty, len(counterparties))
	g.cpIDs = make([]string, 0, len(counterparties))
	for _, cp := range counterparties {
		g.live[cp.ID] = cp
		g.cpIDs = append(g.cpIDs, cp.ID)
	}

	g.relationships, err = g.buildRelationships()
	if err != nil {
		return nil, err
	}

	return g, nil
}

// Rand exposes the generator's random source so scenario builders share the
// same deterministic stream.
func (g *Generator) Rand() *rand.Rand { return g.rng }

// Tickers returns the instrument universe in stable order.
func (g *Generator) Tickers() []string { return g.tickers }

// LiveCounterparties returns the currently open counterparty versions in
// creation order.
func (g *Generator) LiveCounterparties() []*models.Counterparty {
	out := make([]*models.Counterparty, 0, len(g.cpIDs))
	for _, id := range g.cpIDs {
		out = append(out, g.live[id])
	}
	return out
}

// RandomCounterparty picks a uniformly random live counterparty.
func (g *Generator) RandomCounterparty() *models.Counterparty {
	return g.live[g.cpIDs[g.rng.Intn(len(g.cpIDs))]]
}

// Relationships returns the counterparty trading-partner map.
func (g *Generator) Relationships() map[string][]string { return g.relationships }

// GenerateTrade produces a single open trade version at the given execution
// time. An unknown CounterpartyID degrades to a random live counterparty
// rather than failing.
func (g *Generator) GenerateTrade(at time.Time, p TradeParams) *models.Trade {
	symbol := g.tickers[g.rng.Intn(len(g.tickers))]

	cp, ok := g.live[p.CounterpartyID]
	if !ok {
		cp = g.RandomCounterparty()
	}

	trader := g.traders[g.rng.Intn(len(g.traders))]

	side := p.Side
	if side == "" {
		side = models.SideBuy
		if g.rng.Intn(2) == 1 {
			side = models.SideSell
		}
	}

	scenario := p.ScenarioType
	if scenario == "" {
		scenario = models.ScenarioNormal
	}

	algoID := "NONE"
	if trader.AlgoEnabled {
		algoID = trader.TraderID
	}

	venues := [...]string{"NYSE", "NASDAQ", "ARCA", "BATS"}

	return &models.Trade{
		ID:           uuid.NewString(),
		Type:         "trade",
		ScenarioType: scenario,

		ExecutionTimestamp: models.NewTimestamp(at),
		Symbol:             symbol,
		Price:              g.price(symbol, p.Suspicious),
		Quantity:           int64(100 + g.rng.Intn(901)),
		Side:               side,

		ExecutingBrokerID: cp.ExecutingBrokerID,
		ExecutingTraderID: trader.TraderID,
		ClearingBrokerID:  cp.ClearingBrokerID,
		ClearingAccount:   cp.ClearingAccount,
		BeneficialOwnerID: cp.BeneficialOwnerID,
		AccountType:       cp.AccountType,
		CounterpartyID:    cp.ID,

		ValidFrom: models.NewTimestamp(at),
		ValidTo:   nil,

		TradeReportTime:   models.NewTimestamp(at.Add(time.Duration(1+g.rng.Intn(5)) * time.Second)),
		SettlementDate:    models.NewDate(at.AddDate(0, 0, 2)),
		TradeStatus:       models.TradeExecuted,
		ExecutionVenue:    venues[g.rng.Intn(len(venues))],
		ExecutionCapacity: cp.AccountType,
		AlgoID:            algoID,
	}
}

// GenerateTradeCorrection closes the given trade version at correction time
// and opens a corrected successor: re-priced within ±2%, status "corrected",
// with a correction reason from the fixed catalog. Both versions share the
// trade's id; closed.ValidTo equals corrected.ValidFrom exactly.
func (g *Generator) GenerateTradeCorrection(trade *models.Trade, at time.Time) (closed, corrected *models.Trade) {
	reasons := [...]string{
		"Price adjustment",
		"Quantity revision",
		"Settlement instruction update",
		"Counterparty correction",
	}

	return Correct(trade, at, func(t *models.Trade) {
		drift := decimal.NewFromFloat(1 + (g.rng.Float64()*0.04 - 0.02))
		t.Price = t.Price.Mul(drift).Round(2)
		t.TradeStatus = models.TradeCorrected
		t.CorrectionReason = reasons[g.rng.Intn(len(reasons))]
	})
}

// GenerateCounterpartyChange closes the given counterparty version at change
// time and opens an updated successor with reassigned status and risk rating,
// a rescaled trading limit, and an incremented update sequence.
//
// When the input is the live version of its id, the generator's live index is
// repointed to the new open version, so at most one open version per id ever
// exists.
func (g *Generator) GenerateCounterpartyChange(cp *models.Counterparty, at time.Time) (closed, updated *models.Counterparty) {
	statuses := [...]string{models.CounterpartyActive, models.CounterpartySuspended, models.CounterpartyRestricted}
	ratings := [...]string{"A", "B", "C", "D"}

	closed, updated = Correct(cp, at, func(c *models.Counterparty) {
		c.Status = statuses[g.rng.Intn(len(statuses))]
		c.RiskRating = ratings[g.rng.Intn(len(ratings))]
		scale := decimal.NewFromFloat(0.5 + g.rng.Float64())
		c.TradingLimit = c.TradingLimit.Mul(scale).Round(2)
		c.UpdateSequence++
	})

	if g.live[cp.ID] == cp {
		g.live[cp.ID] = updated
	}
	return closed, updated
}
