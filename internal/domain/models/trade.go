package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade lifecycle statuses. A correction moves executed → corrected; a
// cancellation moves executed or pending → cancelled. Status transitions
// live only on the new version of a corrected trade.
const (
	TradeExecuted  = "executed"
	TradePending   = "pending"
	TradeCorrected = "corrected"
	TradeCancelled = "cancelled"
)

// Trade sides.
const (
	SideBuy  = "B"
	SideSell = "S"
)

// Scenario classifications stamped on every trade document.
const (
	ScenarioNormal           = "normal"
	ScenarioLayering         = "layering"
	ScenarioWashTrading      = "wash_trading"
	ScenarioSpoofing         = "spoofing"
	ScenarioMomentumIgnition = "momentum_ignition"
)

// Pattern roles identifying a trade's narrative function inside a
// synthesized manipulation scenario.
const (
	RoleDeceptiveLayer   = "deceptive_layer"
	RoleActualExecution  = "actual_execution"
	RoleWashBuy          = "wash_buy"
	RoleWashSell         = "wash_sell"
	RoleSpoofOrder       = "spoof_order"
	RoleMomentumIgnition = "momentum_ignition"
	RoleProfitTaking     = "profit_taking"
)

// Trade is one bitemporal version of a trade execution record.
//
// ID is globally unique per execution event; a correction produces a second
// version carrying the same ID, with the prior version's ValidTo closed at
// the correction instant.
type Trade struct {
	ID           string `json:"_id"`
	Type         string `json:"type"`
	ScenarioType string `json:"scenario_type"`

	// Execution details
	ExecutionTimestamp Timestamp       `json:"execution_timestamp"`
	Symbol             string          `json:"symbol"`
	Price              decimal.Decimal `json:"price"`
	Quantity           int64           `json:"quantity"`
	Side               string          `json:"side"`

	// Counterparty references
	ExecutingBrokerID string `json:"executing_broker_id"`
	ExecutingTraderID string `json:"executing_trader_id"`
	ClearingBrokerID  string `json:"clearing_broker_id"`
	ClearingAccount   string `json:"clearing_account"`
	BeneficialOwnerID string `json:"beneficial_owner_id"`
	AccountType       string `json:"account_type"`
	CounterpartyID    string `json:"counterparty_id"`

	// Temporal validity
	ValidFrom Timestamp  `json:"_valid_from"`
	ValidTo   *Timestamp `json:"_valid_to"`

	TradeReportTime   Timestamp `json:"trade_report_time"`
	SettlementDate    Date      `json:"settlement_date"`
	TradeStatus       string    `json:"trade_status"`
	ExecutionVenue    string    `json:"execution_venue"`
	ExecutionCapacity string    `json:"execution_capacity"`
	AlgoID            string    `json:"algo_id"`
	CorrectionReason  string    `json:"correction_reason,omitempty"`

	// Scenario tagging; only set on synthesized manipulation documents.
	PatternRole   string `json:"pattern_role,omitempty"`
	LayerSequence int    `json:"layer_sequence,omitempty"`
}

// Clone returns a deep copy, so closing one version never mutates another.
func (t *Trade) Clone() *Trade {
	dup := *t
	if t.ValidTo != nil {
		v := *t.ValidTo
		dup.ValidTo = &v
	}
	return &dup
}

// CloseValidity ends this version's validity window at the given instant.
func (t *Trade) CloseValidity(at time.Time) {
	v := NewTimestamp(at)
	t.ValidTo = &v
}

// OpenValidity starts a fresh open-ended validity window at the given instant.
func (t *Trade) OpenValidity(at time.Time) {
	t.ValidFrom = NewTimestamp(at)
	t.ValidTo = nil
}
