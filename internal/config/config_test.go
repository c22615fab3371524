package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "whale-collector-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.MarketData.BaseURL != "https://data.example.com" {
		t.Fatalf("unexpected MarketData.BaseURL: %s", cfg.MarketData.BaseURL)
	}
	if cfg.MarketData.Feed != "iex" {
		t.Fatalf("unexpected MarketData.Feed: %s", cfg.MarketData.Feed)
	}
	// Unset fields pick up defaults.
	if cfg.MarketData.KeyEnvVar != "APCA_API_KEY_ID" {
		t.Fatalf("unexpected key env var: %s", cfg.MarketData.KeyEnvVar)
	}
	if cfg.Scan.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Scan.Workers)
	}
	if cfg.Scan.RequestsPerMin != 120 {
		t.Fatalf("unexpected requests per min: %d", cfg.Scan.RequestsPerMin)
	}
	if cfg.Scan.SweepWindowSec != 45 {
		t.Fatalf("unexpected sweep window: %v", cfg.Scan.SweepWindowSec)
	}
	if len(cfg.Scan.Tiers) != 3 || cfg.Scan.Tiers[2].Label != "Whale" {
		t.Fatalf("unexpected tiers: %+v", cfg.Scan.Tiers)
	}
	if cfg.Multiplier("AAPL") != 2.0 {
		t.Fatalf("unexpected AAPL multiplier: %v", cfg.Multiplier("AAPL"))
	}
	if cfg.Multiplier("XOM") != 1.0 {
		t.Fatalf("unexpected default multiplier: %v", cfg.Multiplier("XOM"))
	}
	if cfg.Output.Dir != "out" {
		t.Fatalf("unexpected output dir: %s", cfg.Output.Dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Scan.Tiers) != 3 {
		t.Fatalf("expected 3 default tiers, got %d", len(cfg.Scan.Tiers))
	}
	if cfg.Scan.SweepMinGroup != 3 {
		t.Fatalf("unexpected default sweep min group: %d", cfg.Scan.SweepMinGroup)
	}
}

func TestLoadRejectsNonMonotonicTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := `scan:
  tiers:
    - { min_size: 10000, min_notional: 2500000, label: Large }
    - { min_size: 5000, min_notional: 1000000, label: Notable }
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for non-monotonic tiers")
	}
}

func TestValidateRejectsBadMultiplier(t *testing.T) {
	cfg := Default()
	cfg.Scan.SizeMultipliers = map[string]float64{"AAPL": -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative multiplier")
	}
}
