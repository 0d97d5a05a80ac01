package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Counterparty statuses assigned by change events.
const (
	CounterpartyActive     = "active"
	CounterpartySuspended  = "suspended"
	CounterpartyRestricted = "restricted"
)

// SettlementInstructions describe how a counterparty settles.
type SettlementInstructions struct {
	DefaultCurrency  string `json:"default_currency"`
	SettlementMethod string `json:"settlement_method"`
	SettlementCycle  string `json:"settlement_cycle"`
}

// Counterparty is one bitemporal version of a trading counterparty.
//
// Logical identity is ID; many versions may share an ID as long as their
// [ValidFrom, ValidTo) windows are disjoint. The currently effective version
// is the one with ValidTo == nil. UpdateSequence starts at 1 and increments
// on every new version.
type Counterparty struct {
	ID   string `json:"_id"`
	Type string `json:"type"`

	// Regulatory identifiers
	ExecutingBrokerID string `json:"executing_broker_id"`
	ClearingBrokerID  string `json:"clearing_broker_id"`
	ClearingAccount   string `json:"clearing_account"`
	CorrespondentID   string `json:"correspondent_id"`
	BeneficialOwnerID string `json:"beneficial_owner_id"`

	// Business attributes
	AccountType     string          `json:"account_type"`
	AccountCategory string          `json:"account_category"`
	Status          string          `json:"status"`
	RiskRating      string          `json:"risk_rating"`
	TradingLimit    decimal.Decimal `json:"trading_limit"`

	// Temporal validity
	ValidFrom      Timestamp  `json:"_valid_from"`
	ValidTo        *Timestamp `json:"_valid_to"`
	UpdateSequence int        `json:"cp_update_sequence"`

	CreditStatus           string                 `json:"credit_status"`
	MarginRequirement      int                    `json:"margin_requirement"`
	SettlementInstructions SettlementInstructions `json:"settlement_instructions"`
}

// Clone returns a deep copy, so closing one version never mutates another.
func (c *Counterparty) Clone() *Counterparty {
	dup := *c
	if c.ValidTo != nil {
		v := *c.ValidTo
		dup.ValidTo = &v
	}
	return &dup
}

// CloseValidity ends this version's validity window at the given instant.
func (c *Counterparty) CloseValidity(at time.Time) {
	v := NewTimestamp(at)
	c.ValidTo = &v
}

// OpenValidity starts a fresh open-ended validity window at the given instant.
func (c *Counterparty) OpenValidity(at time.Time) {
	c.ValidFrom = NewTimestamp(at)
	c.ValidTo = nil
}
