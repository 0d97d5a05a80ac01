package models

import "github.com/shopspring/decimal"

// Security is a tradable instrument in the generated universe.
// Immutable for the lifetime of a generator run.
type Security struct {
	Ticker     string          `json:"ticker"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Volatility float64         `json:"volatility"`
}

// TraderPermissions limits what a trader may do.
type TraderPermissions struct {
	MaxOrderSize int      `json:"max_order_size"`
	Markets      []string `json:"markets"`
	RiskLimit    int      `json:"risk_limit"`
}

// Trader is a desk trader created once at generator init and never mutated.
type Trader struct {
	TraderID     string            `json:"trader_id"`
	Desk         string            `json:"desk"`
	StrategyType string            `json:"strategy_type"`
	AlgoEnabled  bool              `json:"algo_enabled"`
	Permissions  TraderPermissions `json:"permissions"`
}
