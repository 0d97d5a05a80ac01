package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/logger"
)

// DocumentRepository defines the contract for pushing generated bitemporal
// documents into XTDB and running detection queries against them.
type DocumentRepository interface {
	InsertTradeBatch(ctx context.Context, trades []*models.Trade) (int, error)
	InsertCounterpartyBatch(ctx context.Context, counterparties []*models.Counterparty) (int, error)
	ExecuteDetectionQuery(ctx context.Context, query string) ([]map[string]any, error)
}

type documentRepository struct {
	db        *sql.DB
	batchSize int
}

// NewDocumentRepository wraps an open XTDB connection. batchSize controls
// how many documents each transaction carries; values <= 0 fall back to 500.
func NewDocumentRepository(db *sql.DB, batchSize int) DocumentRepository {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &documentRepository{db: db, batchSize: batchSize}
}

// insertTradeSQL lists every trade column except _valid_to, which XTDB
// derives from supersession: inserting the closed version of an id after the
// open one ends the earlier validity window.
const insertTradeSQL = `
INSERT INTO trades (
    _id, type, scenario_type, execution_timestamp,
    symbol, price, quantity, side,
    executing_broker_id, executing_trader_id,
    clearing_broker_id, clearing_account,
    beneficial_owner_id, account_type, counterparty_id,
    trade_report_time, settlement_date, trade_status,
    execution_venue, execution_capacity, algo_id,
    _valid_from
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
          $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

const insertCounterpartySQL = `
INSERT INTO counterparties (
    _id, type, executing_broker_id, clearing_broker_id,
    clearing_account, correspondent_id, beneficial_owner_id,
    account_type, account_category, status, risk_rating,
    trading_limit, credit_status, margin_requirement,
    settlement_currency, settlement_method, settlement_cycle,
    cp_update_sequence, _valid_from
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
          $12, $13, $14, $15, $16, $17, $18, $19)`

// InsertTradeBatch streams trades into XTDB in per-batch transactions.
// A failed batch is rolled back and aborts the stream; the count of rows
// already committed is returned alongside the error.
func (r *documentRepository) InsertTradeBatch(ctx context.Context, trades []*models.Trade) (int, error) {
	log := logger.With("storage")
	inserted := 0

	for start := 0; start < len(trades); start += r.batchSize {
		end := min(start+r.batchSize, len(trades))

		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return inserted, fmt.Errorf("begin trade batch: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, insertTradeSQL)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("prepare trade insert: %w", err)
		}

		for _, t := range trades[start:end] {
			if _, err := stmt.ExecContext(ctx,
				t.ID, t.Type, t.ScenarioType, t.ExecutionTimestamp.String(),
				t.Symbol, t.Price, t.Quantity, t.Side,
				t.ExecutingBrokerID, t.ExecutingTraderID,
				t.ClearingBrokerID, t.ClearingAccount,
				t.BeneficialOwnerID, t.AccountType, t.CounterpartyID,
				t.TradeReportTime.String(), t.SettlementDate.String(), t.TradeStatus,
				t.ExecutionVenue, t.ExecutionCapacity, t.AlgoID,
				t.ValidFrom.String(),
			); err != nil {
				_ = stmt.Close()
				_ = tx.Rollback()
				return inserted, fmt.Errorf("insert trade %s: %w", t.ID, err)
			}
		}

		if err := stmt.Close(); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("close trade stmt: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return inserted, fmt.Errorf("commit trade batch: %w", err)
		}
		inserted += end - start
		log.Debug().Int("committed", inserted).Int("total", len(trades)).Msg("trade batch committed")
	}

	return inserted, nil
}

// InsertCounterpartyBatch streams counterparty versions into XTDB in
// per-batch transactions, same protocol as trades.
func (r *documentRepository) InsertCounterpartyBatch(ctx context.Context, counterparties []*models.Counterparty) (int, error) {
	log := logger.With("storage")
	inserted := 0

	for start := 0; start < len(counterparties); start += r.batchSize {
		end := min(start+r.batchSize, len(counterparties))

		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return inserted, fmt.Errorf("begin counterparty batch: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, insertCounterpartySQL)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("prepare counterparty insert: %w", err)
		}

		for _, cp := range counterparties[start:end] {
			if _, err := stmt.ExecContext(ctx,
				cp.ID, cp.Type, cp.ExecutingBrokerID, cp.ClearingBrokerID,
				cp.ClearingAccount, cp.CorrespondentID, cp.BeneficialOwnerID,
				cp.AccountType, cp.AccountCategory, cp.Status, cp.RiskRating,
				cp.TradingLimit, cp.CreditStatus, cp.MarginRequirement,
				cp.SettlementInstructions.DefaultCurrency,
				cp.SettlementInstructions.SettlementMethod,
				cp.SettlementInstructions.SettlementCycle,
				cp.UpdateSequence, cp.ValidFrom.String(),
			); err != nil {
				_ = stmt.Close()
				_ = tx.Rollback()
				return inserted, fmt.Errorf("insert counterparty %s: %w", cp.ID, err)
			}
		}

		if err := stmt.Close(); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("close counterparty stmt: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return inserted, fmt.Errorf("commit counterparty batch: %w", err)
		}
		inserted += end - start
		log.Debug().Int("committed", inserted).Int("total", len(counterparties)).Msg("counterparty batch committed")
	}

	return inserted, nil
}

// ExecuteDetectionQuery runs one detection query and returns generic row
// maps keyed by column name.
func (r *documentRepository) ExecuteDetectionQuery(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("detection query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("detection query columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("detection query scan: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("detection query rows: %w", err)
	}
	return results, nil
}
