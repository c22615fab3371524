// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DeanFinancials/deanfi-collectors/internal/classify"
	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// App captures process-wide runtime settings.
type App struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

// MarketData describes connectivity to the market-data provider. Keys come
// from the environment, never the YAML file.
type MarketData struct {
	BaseURL      string `yaml:"base_url"`
	StreamURL    string `yaml:"stream_url"`
	Feed         string `yaml:"feed"`
	KeyEnvVar    string `yaml:"key_env_var"`
	SecretEnvVar string `yaml:"secret_env_var"`
}

// Tier is one rung of the whale threshold table.
type Tier struct {
	MinSize     int64   `yaml:"min_size"`
	MinNotional float64 `yaml:"min_notional"`
	Label       string  `yaml:"label"`
}

// Scan groups the orchestration knobs for one collector run.
type Scan struct {
	LookbackDays   int     `yaml:"lookback_days"`
	Workers        int     `yaml:"workers"`
	RequestsPerMin int     `yaml:"requests_per_min"`
	FetchTimeoutMs int     `yaml:"fetch_timeout_ms"`
	MaxRetries     int     `yaml:"max_retries"`
	TargetMax      int     `yaml:"target_max"`
	TargetMin      int     `yaml:"target_min"`
	HardMaxTrades  int     `yaml:"hard_max_trades"`
	TopN           int     `yaml:"top_n"`
	SweepWindowSec float64 `yaml:"sweep_window_sec"`
	SweepMinGroup  int     `yaml:"sweep_min_group"`

	Tiers           []Tier             `yaml:"tiers"`
	SizeMultipliers map[string]float64 `yaml:"size_multipliers"`
	DarkPoolVenues  []string           `yaml:"dark_pool_venues"`
}

// Storage holds the optional persistence backends. Empty DSNs disable the
// corresponding backend; the run then keeps everything in memory.
type Storage struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Output controls where run artifacts are written.
type Output struct {
	Dir string `yaml:"dir"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App        App        `yaml:"app"`
	MarketData MarketData `yaml:"market_data"`
	Scan       Scan       `yaml:"scan"`
	Storage    Storage    `yaml:"storage"`
	Output     Output     `yaml:"output"`
}

// Load reads a YAML file from disk, hydrates a Config struct, and
// validates it. Validation failures are fatal before any fetching begins.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "whale-collector"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = "https://data.alpaca.markets"
	}
	if c.MarketData.StreamURL == "" {
		c.MarketData.StreamURL = "wss://stream.data.alpaca.markets/v2/sip"
	}
	if c.MarketData.Feed == "" {
		c.MarketData.Feed = "sip"
	}
	if c.MarketData.KeyEnvVar == "" {
		c.MarketData.KeyEnvVar = "APCA_API_KEY_ID"
	}
	if c.MarketData.SecretEnvVar == "" {
		c.MarketData.SecretEnvVar = "APCA_API_SECRET_KEY"
	}
	if c.Scan.LookbackDays == 0 {
		c.Scan.LookbackDays = 1
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 8
	}
	if c.Scan.RequestsPerMin == 0 {
		c.Scan.RequestsPerMin = 200
	}
	if c.Scan.FetchTimeoutMs == 0 {
		c.Scan.FetchTimeoutMs = 30_000
	}
	if c.Scan.MaxRetries == 0 {
		c.Scan.MaxRetries = 3
	}
	if c.Scan.TargetMax == 0 {
		c.Scan.TargetMax = 50
	}
	if c.Scan.TargetMin == 0 {
		c.Scan.TargetMin = 3
	}
	if c.Scan.HardMaxTrades == 0 {
		c.Scan.HardMaxTrades = 200
	}
	if c.Scan.TopN == 0 {
		c.Scan.TopN = 10
	}
	if c.Scan.SweepWindowSec == 0 {
		c.Scan.SweepWindowSec = 60
	}
	if c.Scan.SweepMinGroup == 0 {
		c.Scan.SweepMinGroup = 3
	}
	if len(c.Scan.Tiers) == 0 {
		c.Scan.Tiers = []Tier{
			{MinSize: 5_000, MinNotional: 1_000_000, Label: "Notable"},
			{MinSize: 10_000, MinNotional: 2_500_000, Label: "Large"},
			{MinSize: 50_000, MinNotional: 10_000_000, Label: "Whale"},
		}
	}
	if len(c.Scan.DarkPoolVenues) == 0 {
		c.Scan.DarkPoolVenues = classify.DefaultDarkPoolVenues
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
}

// Validate fails fast on configuration that would corrupt a run.
func (c *Config) Validate() error {
	if err := classify.ValidateTiers(c.ThresholdTiers()); err != nil {
		return err
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan: workers must be >= 1, got %d", c.Scan.Workers)
	}
	if c.Scan.RequestsPerMin < 1 {
		return fmt.Errorf("scan: requests_per_min must be >= 1, got %d", c.Scan.RequestsPerMin)
	}
	if c.Scan.SweepWindowSec <= 0 {
		return fmt.Errorf("scan: sweep_window_sec must be positive, got %v", c.Scan.SweepWindowSec)
	}
	if c.Scan.SweepMinGroup < 2 {
		return fmt.Errorf("scan: sweep_min_group must be >= 2, got %d", c.Scan.SweepMinGroup)
	}
	for symbol, m := range c.Scan.SizeMultipliers {
		if m <= 0 {
			return fmt.Errorf("scan: size multiplier for %s must be positive, got %v", symbol, m)
		}
	}
	return nil
}

// ThresholdTiers converts the YAML tier table to domain tiers.
func (c *Config) ThresholdTiers() []domain.ThresholdTier {
	tiers := make([]domain.ThresholdTier, len(c.Scan.Tiers))
	for i, t := range c.Scan.Tiers {
		tiers[i] = domain.ThresholdTier{MinSize: t.MinSize, MinNotional: t.MinNotional, Label: t.Label}
	}
	return tiers
}

// FetchTimeout returns the per-ticker fetch deadline.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Scan.FetchTimeoutMs) * time.Millisecond
}

// Multiplier returns the per-symbol tier multiplier, defaulting to 1.
func (c *Config) Multiplier(symbol string) float64 {
	if m, ok := c.Scan.SizeMultipliers[symbol]; ok {
		return m
	}
	return 1.0
}
