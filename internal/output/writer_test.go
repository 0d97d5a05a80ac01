package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitempo/tradegen/internal/domain/models"
)

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "trades.json")

	docs := []*models.Trade{{
		ID:                 "trade-1",
		Type:               "trade",
		ScenarioType:       models.ScenarioNormal,
		ExecutionTimestamp: models.NewTimestamp(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)),
		Symbol:             "AAPL",
		Price:              decimal.RequireFromString("150.25"),
		Quantity:           500,
		Side:               models.SideBuy,
		ValidFrom:          models.NewTimestamp(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)),
		TradeStatus:        models.TradeExecuted,
	}}

	if err := WriteJSON(path, docs); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var back []map[string]any
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 1 {
		t.Fatalf("documents: got %d", len(back))
	}
	if back[0]["_id"] != "trade-1" {
		t.Fatalf("_id: %v", back[0]["_id"])
	}
	if back[0]["price"] != "150.25" {
		t.Fatalf("price should survive as an exact string, got %v", back[0]["price"])
	}
	if v, present := back[0]["_valid_to"]; !present || v != nil {
		t.Fatalf("_valid_to should be an explicit null, got %v (present=%v)", v, present)
	}
	if !strings.Contains(string(data), "\n    ") {
		t.Fatal("output should be indented")
	}
}

func TestWriteJSON_UnmarshalableValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := WriteJSON(path, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sql", "queries.sql")

	if err := WriteText(path, "-- layering\nSELECT 1;\n"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "-- layering\nSELECT 1;\n" {
		t.Fatalf("content: %q", data)
	}
}
