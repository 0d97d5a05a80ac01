package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/bitempo/tradegen/config"
	"github.com/bitempo/tradegen/internal/app"
	"github.com/bitempo/tradegen/internal/logger"
)

// main is the entry point of the tradegen application.
//
// It generates a bitemporal trade/counterparty dataset with synthesized
// manipulation patterns, writes the document files, and (in "full" mode)
// ingests everything into XTDB and runs the detection queries.
//
// Flags:
//   - --config: Path to the YAML configuration file. Default: "config.yaml".
//   - --mode:   Override execution_mode.mode ("local_only" or "full").
func main() {
	logger.Init()

	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	mode := flag.String("mode", "", "Override execution mode: local_only or full")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		logger.L().Fatal().Err(err).Msg("configuration error")
	}
	cfg := config.AppConfig
	if *mode != "" {
		switch *mode {
		case "local_only", "full":
			cfg.Execution.Mode = *mode
		default:
			logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
		}
	}

	// SIGINT/SIGTERM cancels in-flight ingestion; generation itself is fast
	// and runs to completion.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		logger.L().Fatal().Err(err).Msg("run failed")
	}
	logger.L().Info().Msg("data generation complete")
}
