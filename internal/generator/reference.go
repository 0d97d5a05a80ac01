package generator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bitempo/tradegen/internal/domain/models"
)

// deskCatalog is the fixed set of desk/strategy pairings traders are drawn from.
var deskCatalog = [...][2]string{
	{"Cash Equity", "Market Making"},
	{"Program Trading", "Customer Facilitation"},
	{"Equity Cash", "Principal Trading"},
	{"Delta One", "ETF Market Making"},
	{"Portfolio Trading", "Agency Trading"},
}

// accountTypes maps the single-letter account type codes to their categories.
var accountTypes = []struct {
	Code     string
	Category string
}{
	{"R", "Retail"},
	{"I", "Institution"},
	{"M", "Market Maker"},
	{"B", "Broker-Dealer"},
	{"P", "Proprietary"},
}

// riskRatings is the weighted rating distribution; each rating fixes the
// initial trading-limit ceiling.
var riskRatings = []struct {
	Rating      string
	Limit       int64
	Probability float64
}{
	{"A", 5_000_000, 0.4},
	{"B", 2_000_000, 0.3},
	{"C", 1_000_000, 0.2},
	{"D", 500_000, 0.1},
}

// buildSecurities returns the instrument universe plus a stable ticker order.
// A caller-supplied list is used verbatim, with base prices coerced to exact
// decimals; otherwise the fixed default set applies.
func buildSecurities(specs []SecuritySpec) (map[string]models.Security, []string, error) {
	if len(specs) == 0 {
		specs = []SecuritySpec{
			{Ticker: "AAPL", BasePrice: "150.0", Volatility: 0.02},
			{Ticker: "GOOGL", BasePrice: "2800.0", Volatility: 0.025},
			{Ticker: "MSFT", BasePrice: "300.0", Volatility: 0.018},
			{Ticker: "AMZN", BasePrice: "3300.0", Volatility: 0.03},
		}
	}

	securities := make(map[string]models.Security, len(specs))
	tickers := make([]string, 0, len(specs))
	for _, spec := range specs {
		base, err := decimal.NewFromString(spec.BasePrice)
		if err != nil {
			return nil, nil, fmt.Errorf("security %s: invalid base price %q: %w", spec.Ticker, spec.BasePrice, err)
		}
		securities[spec.Ticker] = models.Security{
			Ticker:     spec.Ticker,
			BasePrice:  base,
			Volatility: spec.Volatility,
		}
		tickers = append(tickers, spec.Ticker)
	}
	return securities, tickers, nil
}

// buildTraders produces the fixed set of five desk traders with randomized
// permissions and a random subset of tradable markets.
func (g *Generator) buildTraders() []models.Trader {
	traders := make([]models.Trader, 0, 5)
	for i := 1; i <= 5; i++ {
		pairing := deskCatalog[g.rng.Intn(len(deskCatalog))]
		numMarkets := len(g.tickers)
		if numMarkets > 2 {
			numMarkets = 2 + g.rng.Intn(len(g.tickers)-1)
		}
		traders = append(traders, models.Trader{
			TraderID:     fmt.Sprintf("TR%03d", i),
			Desk:         pairing[0],
			StrategyType: pairing[1],
			AlgoEnabled:  g.rng.Intn(2) == 1,
			Permissions: models.TraderPermissions{
				MaxOrderSize: 10_000 + g.rng.Intn(90_001),
				Markets:      g.sampleTickers(numMarkets),
				RiskLimit:    1_000_000 + g.rng.Intn(4_000_001),
			},
		})
	}
	return traders
}

// buildCounterparties produces the fixed set of nine counterparties with
// complete regulatory and business attributes. Each starts as the open
// version valid from the run start date, update sequence 1.
func (g *Generator) buildCounterparties() []*models.Counterparty {
	creditStatuses := [...]string{"Approved", "Watch", "Restricted"}
	settlementMethods := [...]string{"DTC", "FED", "SWIFT"}

	counterparties := make([]*models.Counterparty, 0, 9)
	for i := 1; i <= 9; i++ {
		rating := g.drawRiskRating()

		counterparties = append(counterparties, &models.Counterparty{
			ID:   fmt.Sprintf("CP%03d", i),
			Type: "counterparty",

			ExecutingBrokerID: fmt.Sprintf("EXEC%d", i),
			ClearingBrokerID:  fmt.Sprintf("CLR%d", i),
			ClearingAccount:   fmt.Sprintf("CA%06d", i),
			CorrespondentID:   fmt.Sprintf("CORR%d", i),
			BeneficialOwnerID: fmt.Sprintf("BO%06d", i),

			AccountType: accountTypes[g.rng.Intn(len(accountTypes))].Code,
			// Category is drawn independently of the type code, matching the
			// upstream dataset this generator replays.
			AccountCategory: accountTypes[g.rng.Intn(len(accountTypes))].Category,
			Status:          models.CounterpartyActive,
			RiskRating:      rating.Rating,
			TradingLimit:    decimal.NewFromInt(rating.Limit),

			ValidFrom:      models.NewTimestamp(g.start),
			ValidTo:        nil,
			UpdateSequence: 1,

			CreditStatus:      creditStatuses[g.rng.Intn(len(creditStatuses))],
			MarginRequirement: 25 + g.rng.Intn(76),
			SettlementInstructions: models.SettlementInstructions{
				DefaultCurrency:  "USD",
				SettlementMethod: settlementMethods[g.rng.Intn(len(settlementMethods))],
				SettlementCycle:  "T+2",
			},
		})
	}
	return counterparties
}

// buildRelationships samples 2..min(4, N-1) distinct trading partners for
// each counterparty. Returns ErrTooFewCounterparties when no relationship
// can be formed at all.
func (g *Generator) buildRelationships() (map[string][]string, error) {
	if len(g.cpIDs) < 2 {
		return nil, ErrTooFewCounterparties
	}

	relationships := make(map[string][]string, len(g.cpIDs))
	for _, id := range g.cpIDs {
		maxPartners := len(g.cpIDs) - 1
		if maxPartners > 4 {
			maxPartners = 4
		}
		minPartners := 2
		if minPartners > maxPartners {
			minPartners = maxPartners
		}
		numPartners := minPartners + g.rng.Intn(maxPartners-minPartners+1)

		others := make([]string, 0, len(g.cpIDs)-1)
		for _, other := range g.cpIDs {
			if other != id {
				others = append(others, other)
			}
		}
		g.rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
		relationships[id] = others[:numPartners]
	}
	return relationships, nil
}

// drawRiskRating samples from the weighted rating distribution.
func (g *Generator) drawRiskRating() struct {
	Rating      string
	Limit       int64
	Probability float64
} {
	roll := g.rng.Float64()
	cumulative := 0.0
	for _, r := range riskRatings {
		cumulative += r.Probability
		if roll < cumulative {
			return r
		}
	}
	return riskRatings[len(riskRatings)-1]
}

// sampleTickers returns n distinct tickers from the universe.
func (g *Generator) sampleTickers(n int) []string {
	if n > len(g.tickers) {
		n = len(g.tickers)
	}
	perm := g.rng.Perm(len(g.tickers))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, g.tickers[idx])
	}
	return out
}
