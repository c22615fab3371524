// Package main runs one whale scan over the configured universe and
// writes the run artifacts, optionally persisting results to Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/DeanFinancials/deanfi-collectors/internal/config"
	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
	"github.com/DeanFinancials/deanfi-collectors/internal/idhash"
	"github.com/DeanFinancials/deanfi-collectors/internal/marketdata"
	"github.com/DeanFinancials/deanfi-collectors/internal/observability"
	"github.com/DeanFinancials/deanfi-collectors/internal/reporting"
	"github.com/DeanFinancials/deanfi-collectors/internal/scanner"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage/migrations"
	pgstore "github.com/DeanFinancials/deanfi-collectors/internal/storage/postgres"
	"github.com/DeanFinancials/deanfi-collectors/internal/universe"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (built-in defaults if empty)")
	outputDir := flag.String("output-dir", "", "Output directory override")
	lookbackDays := flag.Int("lookback-days", 0, "Lookback trading days override")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *lookbackDays > 0 {
		cfg.Scan.LookbackDays = *lookbackDays
	}

	logger := observability.NewLogger(cfg.App.LogLevel)

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn().Str("signal", sig.String()).Msg("shutdown requested, cancelling scan")
		cancel()
	}()

	key := os.Getenv(cfg.MarketData.KeyEnvVar)
	secret := os.Getenv(cfg.MarketData.SecretEnvVar)
	if key == "" || secret == "" {
		logger.Fatal().
			Str("key_env", cfg.MarketData.KeyEnvVar).
			Str("secret_env", cfg.MarketData.SecretEnvVar).
			Msg("market data credentials not set")
	}

	uni, live := universe.Resolve(ctx, &http.Client{Timeout: 30 * time.Second}, nil)
	logger.Info().Int("symbols", len(uni.ListSymbols())).Bool("live", live).Msg("universe resolved")

	source := marketdata.NewAlpacaClient(cfg.MarketData.BaseURL, key, secret,
		marketdata.WithFeed(cfg.MarketData.Feed),
		marketdata.WithMaxRetries(cfg.Scan.MaxRetries),
	)

	sc, err := scanner.New(scanner.Options{
		Source:   source,
		Universe: uni,
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid scanner configuration")
	}

	startedAt := time.Now().UTC()
	result, err := sc.Run(ctx)
	if err != nil {
		observability.RecordScanRun("error", time.Since(startedAt).Seconds())
		logger.Fatal().Err(err).Msg("scan failed")
	}
	finishedAt := time.Now().UTC()

	observability.RecordScanRun("ok", finishedAt.Sub(startedAt).Seconds())
	observability.RecordWhaleTrades(result.Aggregates.Overall.TradeCount)
	observability.RecordSweeps(result.Aggregates.Overall.SweepCount)
	observability.DefaultMetrics.LastSuccessfulScan.Set(float64(finishedAt.Unix()))

	summary, detail := reporting.NewGenerator(cfg.Scan.TopN).Build(result)
	if err := reporting.WriteArtifacts(cfg.Output.Dir, summary, detail); err != nil {
		logger.Fatal().Err(err).Msg("write artifacts failed")
	}
	logger.Info().Str("dir", cfg.Output.Dir).Msg("artifacts written")

	if cfg.Storage.PostgresDSN != "" {
		if err := persist(ctx, cfg.Storage.PostgresDSN, result, startedAt, finishedAt, logger); err != nil {
			logger.Fatal().Err(err).Msg("persist failed")
		}
	}

	logger.Info().
		Int("whale_trades", result.Aggregates.Overall.TradeCount).
		Int("symbols_failed", result.SymbolsFailed).
		Str("sentiment", string(result.Aggregates.Overall.Sentiment.Direction)).
		Msg("scan complete")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

// persist writes the run summary, retained trades, and sweeps. Trades
// already stored by an earlier overlapping run are skipped, not errors;
// the deterministic trade ID makes the duplicate check exact.
func persist(ctx context.Context, dsn string, result *scanner.RunResult, startedAt, finishedAt time.Time, logger zerolog.Logger) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	runID := idhash.ComputeRunID(result.WindowStart.UnixMilli(), result.WindowEnd.UnixMilli(), startedAt.UnixMilli())

	overall := result.Aggregates.Overall
	run := &domain.ScanRun{
		RunID:          runID,
		StartedAtMs:    startedAt.UnixMilli(),
		FinishedAtMs:   finishedAt.UnixMilli(),
		WindowStartMs:  result.WindowStart.UnixMilli(),
		WindowEndMs:    result.WindowEnd.UnixMilli(),
		TradingDays:    result.TradingDays,
		SymbolsScanned: result.SymbolsScanned,
		SymbolsFailed:  result.SymbolsFailed,
		TradeCount:     overall.TradeCount,
		TotalNotional:  overall.TotalValue,
		SweepCount:     overall.SweepCount,
		Sentiment:      overall.Sentiment.Direction,
		NetValue:       overall.Sentiment.NetValue,
	}
	if err := pgstore.NewScanRunStore(pool).Insert(ctx, run); err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}

	tradeStore := pgstore.NewWhaleTradeStore(pool)
	var stored, skipped int
	for _, ticker := range result.Aggregates.Tickers {
		for i := range ticker.Trades {
			err := tradeStore.Insert(ctx, runID, &ticker.Trades[i])
			switch {
			case errors.Is(err, storage.ErrDuplicateKey):
				skipped++
			case err != nil:
				return fmt.Errorf("insert whale trade: %w", err)
			default:
				stored++
			}
		}
	}

	sweepStore := pgstore.NewSweepStore(pool)
	var sweepsStored int
	for _, ticker := range result.Aggregates.Tickers {
		for i := range ticker.Sweeps {
			err := sweepStore.Insert(ctx, runID, &ticker.Sweeps[i])
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			if err != nil {
				return fmt.Errorf("insert sweep: %w", err)
			}
			sweepsStored++
		}
	}

	logger.Info().
		Str("run_id", runID).
		Int("trades_stored", stored).
		Int("trades_skipped", skipped).
		Int("sweeps_stored", sweepsStored).
		Msg("run persisted")
	return nil
}
