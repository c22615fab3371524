// Package main records the live trade and quote stream into the
// ClickHouse tick archive.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/DeanFinancials/deanfi-collectors/internal/config"
	"github.com/DeanFinancials/deanfi-collectors/internal/ingestion"
	"github.com/DeanFinancials/deanfi-collectors/internal/marketdata"
	"github.com/DeanFinancials/deanfi-collectors/internal/observability"
	chstore "github.com/DeanFinancials/deanfi-collectors/internal/storage/clickhouse"
	"github.com/DeanFinancials/deanfi-collectors/internal/storage/migrations"
	"github.com/DeanFinancials/deanfi-collectors/internal/universe"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (built-in defaults if empty)")
	symbols := flag.String("symbols", "", "Comma-separated symbols (full universe if empty)")
	flushInterval := flag.Duration("flush-interval", ingestion.DefaultFlushInterval, "Archive flush interval")
	batchSize := flag.Int("batch-size", ingestion.DefaultBatchSize, "Archive batch size")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.App.LogLevel)

	if cfg.Storage.ClickhouseDSN == "" {
		logger.Fatal().Msg("storage.clickhouse_dsn is required for the recorder")
	}

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn().Str("signal", sig.String()).Msg("shutdown requested, draining recorder")
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

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("clickhouse migrations failed")
	}
	defer conn.Close()

	subscription := resolveSymbols(ctx, *symbols, logger)
	logger.Info().Int("symbols", len(subscription)).Msg("subscribing")

	stream, err := marketdata.NewStreamClient(ctx, cfg.MarketData.StreamURL, key, secret, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("stream connect failed")
	}
	if err := stream.Subscribe(subscription); err != nil {
		logger.Fatal().Err(err).Msg("subscribe failed")
	}

	recorder := ingestion.NewRecorder(ingestion.RecorderOptions{
		Trades:        stream.Trades(),
		Quotes:        stream.Quotes(),
		TradeStore:    chstore.NewTickTradeStore(conn),
		QuoteStore:    chstore.NewTickQuoteStore(conn),
		FlushInterval: *flushInterval,
		BatchSize:     *batchSize,
		Logger:        logger,
	})

	err = recorder.Run(ctx)
	if closeErr := stream.Close(); closeErr != nil {
		logger.Warn().Err(closeErr).Msg("stream close error")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("recorder failed")
	}
	logger.Info().Msg("recorder stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func resolveSymbols(ctx context.Context, override string, logger zerolog.Logger) []string {
	if override != "" {
		return universe.Deduplicate(strings.Split(override, ","))
	}
	uni, live := universe.Resolve(ctx, &http.Client{Timeout: 30 * time.Second}, nil)
	logger.Info().Bool("live", live).Msg("universe resolved")
	return uni.ListSymbols()
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
