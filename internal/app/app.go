package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bitempo/tradegen/config"
	"github.com/bitempo/tradegen/internal/domain/models"
	"github.com/bitempo/tradegen/internal/generator"
	"github.com/bitempo/tradegen/internal/logger"
	"github.com/bitempo/tradegen/internal/output"
	"github.com/bitempo/tradegen/internal/queries"
	"github.com/bitempo/tradegen/internal/scenario"
	"github.com/bitempo/tradegen/internal/storage"
)

// Empty generated collections are a failure at this layer, not inside the
// generation core.
var (
	ErrNoTrades         = errors.New("trade generation produced an empty collection")
	ErrNoCounterparties = errors.New("counterparty generation produced an empty collection")
)

// Indirections for unit testing.
var (
	dbOpener = InitXTDB
	repoCtor = func(db *sql.DB, batchSize int) storage.DocumentRepository {
		return storage.NewDocumentRepository(db, batchSize)
	}
	scenarioBase = func() time.Time { return time.Now().UTC() }
)

// Run executes a full generation pass:
//
//  1. Build the generator and simulate the configured date range.
//  2. Append the enabled manipulation scenarios at staggered offsets.
//  3. Write the trade and counterparty document files plus the detection SQL.
//  4. In "full" mode, ingest both collections into XTDB concurrently and run
//     the detection queries.
func Run(ctx context.Context, cfg config.Config) error {
	log := logger.With("app")

	specs := make([]generator.SecuritySpec, 0, len(cfg.Securities))
	for _, sec := range cfg.Securities {
		specs = append(specs, generator.SecuritySpec{
			Ticker:     sec.Ticker,
			BasePrice:  sec.BasePrice,
			Volatility: sec.Volatility,
		})
	}

	g, err := generator.New(cfg.DateRange.StartDate, cfg.DateRange.EndDate, generator.Settings{
		Securities:   specs,
		TradesPerDay: cfg.Generation.TradesPerDay,
		Seed:         cfg.Generation.Seed,
	})
	if err != nil {
		return fmt.Errorf("build generator: %w", err)
	}

	log.Info().
		Time("start", cfg.DateRange.StartDate).
		Time("end", cfg.DateRange.EndDate).
		Msg("generating base dataset")

	trades, counterparties := g.GenerateDataset()
	if len(trades) == 0 {
		return ErrNoTrades
	}
	if len(counterparties) == 0 {
		return ErrNoCounterparties
	}
	log.Info().Int("trades", len(trades)).Int("counterparties", len(counterparties)).Msg("base dataset generated")

	trades = append(trades, runScenarios(g, cfg.Scenarios)...)

	if err := writeOutputs(cfg.Output, trades, counterparties); err != nil {
		return err
	}

	if cfg.Execution.Mode != "full" {
		log.Info().Msg("local mode, skipping database operations")
		return nil
	}

	return ingestAndDetect(ctx, cfg, trades, counterparties)
}

// runScenarios appends each enabled manipulation scenario at its staggered
// offset from a shared base time so the scenario windows never collide.
func runScenarios(g *generator.Generator, toggles config.ScenarioToggles) []*models.Trade {
	log := logger.With("scenario")
	base := scenarioBase()

	var docs []*models.Trade
	if toggles.Layering {
		log.Info().Msg("generating layering scenario")
		docs = append(docs, scenario.Layering(g, base)...)
	}
	if toggles.WashTrading {
		log.Info().Msg("generating wash trading scenario")
		docs = append(docs, scenario.WashTrading(g, base.Add(30*time.Minute))...)
	}
	if toggles.Spoofing {
		log.Info().Msg("generating spoofing scenario")
		docs = append(docs, scenario.Spoofing(g, base.Add(time.Hour))...)
	}
	if toggles.MomentumIgnition {
		log.Info().Msg("generating momentum ignition scenario")
		docs = append(docs, scenario.MomentumIgnition(g, base.Add(2*time.Hour))...)
	}
	return docs
}

// writeOutputs persists the document collections and the detection SQL text.
func writeOutputs(out config.OutputConfig, trades []*models.Trade, counterparties []*models.Counterparty) error {
	log := logger.With("output")

	if err := output.WriteJSON(out.TradesFile, trades); err != nil {
		return err
	}
	if err := output.WriteJSON(out.CounterpartiesFile, counterparties); err != nil {
		return err
	}

	var sb strings.Builder
	for _, name := range queries.Names {
		sb.WriteString("-- ")
		sb.WriteString(name)
		sb.WriteString("\n")
		sb.WriteString(queries.Detection[name])
		sb.WriteString(";\n\n")
	}
	if err := output.WriteText(out.SQLFile, sb.String()); err != nil {
		return err
	}

	log.Info().
		Str("trades_file", out.TradesFile).
		Str("counterparties_file", out.CounterpartiesFile).
		Str("sql_file", out.SQLFile).
		Msg("output files written")
	return nil
}

// ingestAndDetect pushes both collections into XTDB concurrently, then runs
// the detection queries and logs per-query hit counts.
func ingestAndDetect(ctx context.Context, cfg config.Config, trades []*models.Trade, counterparties []*models.Counterparty) error {
	log := logger.With("ingestion")

	if limit := cfg.Execution.TestMode; limit > 0 {
		log.Info().Int("limit", limit).Msg("test mode, capping ingestion")
		if len(trades) > limit {
			trades = trades[:limit]
		}
		if len(counterparties) > limit {
			counterparties = counterparties[:limit]
		}
	}

	db, err := dbOpener(cfg)
	if err != nil {
		return fmt.Errorf("connect xtdb: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := repoCtor(db, cfg.Execution.BatchSize)

	start := time.Now()
	gr, gctx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		n, err := repo.InsertTradeBatch(gctx, trades)
		if err != nil {
			return fmt.Errorf("ingest trades (committed %d): %w", n, err)
		}
		log.Info().Int("rows", n).Msg("trades ingested")
		return nil
	})
	gr.Go(func() error {
		n, err := repo.InsertCounterpartyBatch(gctx, counterparties)
		if err != nil {
			return fmt.Errorf("ingest counterparties (committed %d): %w", n, err)
		}
		log.Info().Int("rows", n).Msg("counterparties ingested")
		return nil
	})
	if err := gr.Wait(); err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("ingestion complete")

	for _, name := range queries.Names {
		rows, err := repo.ExecuteDetectionQuery(ctx, queries.Detection[name])
		if err != nil {
			log.Error().Str("query", name).Err(err).Msg("detection query failed")
			continue
		}
		log.Info().Str("query", name).Int("hits", len(rows)).Msg("detection query complete")
	}
	return nil
}
