package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleCounterparty() *Counterparty {
	return &Counterparty{
		ID:   "CP001",
		Type: "counterparty",

		ExecutingBrokerID: "EXEC1",
		ClearingBrokerID:  "CLR1",
		ClearingAccount:   "CA000001",
		CorrespondentID:   "CORR1",
		BeneficialOwnerID: "BO000001",

		AccountType:     "I",
		AccountCategory: "Institution",
		Status:          CounterpartyActive,
		RiskRating:      "A",
		TradingLimit:    decimal.NewFromInt(5_000_000),

		ValidFrom:      NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		UpdateSequence: 1,

		CreditStatus:      "Approved",
		MarginRequirement: 50,
		SettlementInstructions: SettlementInstructions{
			DefaultCurrency:  "USD",
			SettlementMethod: "DTC",
			SettlementCycle:  "T+2",
		},
	}
}

func TestCounterpartyMarshalShape(t *testing.T) {
	data, err := json.Marshal(sampleCounterparty())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc := string(data)

	wantSubs := []string{
		`"_id":"CP001"`,
		`"_valid_from":"2024-01-01T00:00:00.000000Z"`,
		`"_valid_to":null`,
		`"cp_update_sequence":1`,
		`"trading_limit":"5000000"`,
		`"settlement_instructions":{"default_currency":"USD","settlement_method":"DTC","settlement_cycle":"T+2"}`,
	}
	for _, sub := range wantSubs {
		if !strings.Contains(doc, sub) {
			t.Errorf("document missing %s:\n%s", sub, doc)
		}
	}
}

func TestCounterpartyCloneIsDeep(t *testing.T) {
	orig := sampleCounterparty()
	orig.CloseValidity(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	dup := orig.Clone()
	dup.CloseValidity(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	dup.Status = CounterpartySuspended

	if orig.ValidTo.String() != "2024-02-01T00:00:00.000000Z" {
		t.Fatalf("clone mutation leaked into original: %s", orig.ValidTo.String())
	}
	if orig.Status != CounterpartyActive {
		t.Fatalf("clone mutation leaked into original status: %s", orig.Status)
	}
}
