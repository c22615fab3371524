// Package main regenerates report artifacts from a persisted scan run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/DeanFinancials/deanfi-collectors/internal/config"
	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/observability"
	"github.com/DeanFinancials/deanfi-collectors/internal/reporting"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (built-in defaults if empty)")
	runID := flag.String("run-id", "", "Run to report on (latest finished run if empty)")
	outputDir := flag.String("output-dir", "", "Artifact directory (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.App.LogLevel)

	if cfg.Storage.PostgresDSN == "" {
		logger.Fatal().Msg("storage.postgres_dsn is required to regenerate reports")
	}

	dir := cfg.Output.Dir
	if *outputDir != "" {
		dir = *outputDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	runs := postgres.NewScanRunStore(pool)
	run, err := lookupRun(ctx, runs, *runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Fatal().Str("run_id", *runID).Msg("no such run")
		}
		logger.Fatal().Err(err).Msg("run lookup failed")
	}
	logger.Info().
		Str("run_id", run.RunID).
		Int("trades", run.TradeCount).
		Msg("regenerating report")

	trades, err := postgres.NewWhaleTradeStore(pool).GetByRunID(ctx, run.RunID)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading trades failed")
	}
	sweeps, err := postgres.NewSweepStore(pool).GetByRunID(ctx, run.RunID)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading sweeps failed")
	}

	result := reporting.RebuildRunResult(run, trades, sweeps)
	gen := reporting.NewGenerator(cfg.Scan.TopN)
	summary, detail := gen.Build(result)
	if err := reporting.WriteArtifacts(dir, summary, detail); err != nil {
		logger.Fatal().Err(err).Msg("writing artifacts failed")
	}
	logger.Info().Str("dir", dir).Msg("artifacts written")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func lookupRun(ctx context.Context, runs storage.ScanRunStore, runID string) (*domain.ScanRun, error) {
	if runID != "" {
		return runs.GetByID(ctx, runID)
	}
	return runs.GetLatest(ctx)
}
