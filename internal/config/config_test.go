package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("explicit missing config file should be an error")
	}

	// No explicit path falls back to defaults when no config file exists.
	wd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Providers.Active != ProviderPolygon {
		t.Fatalf("active provider = %q", cfg.Providers.Active)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Fatalf("read timeout = %s", cfg.Server.ReadTimeout)
	}
	if cfg.Chart.Width != 640 || cfg.Chart.Height != 480 || cfg.Chart.Quarters != 4 {
		t.Fatalf("chart defaults = %+v", cfg.Chart)
	}
	if cfg.Targets.RevenueYoYPct != 10.0 {
		t.Fatalf("revenue target = %v", cfg.Targets.RevenueYoYPct)
	}
	if len(cfg.Market.Tickers) != 4 {
		t.Fatalf("tickers = %v", cfg.Market.Tickers)
	}
	if cfg.Export.OutputDir != "reports" {
		t.Fatalf("output dir = %q", cfg.Export.OutputDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
providers:
  active: fmp
  fmp:
    api_key: test-key
    request_timeout: 5s
market:
  allow_free_text: true
chart:
  quarters: 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Providers.Active != ProviderFMP {
		t.Fatalf("active provider = %q", cfg.Providers.Active)
	}
	active := cfg.ActiveProvider()
	if active.APIKey != "test-key" {
		t.Fatalf("api key = %q", active.APIKey)
	}
	if active.RequestTimeout != 5*time.Second {
		t.Fatalf("request timeout = %s", active.RequestTimeout)
	}
	if active.BaseURL != "https://financialmodelingprep.com" {
		t.Fatalf("base url should keep its default: %q", active.BaseURL)
	}
	if cfg.Chart.Quarters != 8 {
		t.Fatalf("quarters = %d", cfg.Chart.Quarters)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Providers: ProvidersConfig{
				Active:  ProviderPolygon,
				Polygon: ProviderConfig{StatementLimit: 50},
			},
			Market: MarketConfig{Tickers: []string{"AAPL"}},
			Chart:  ChartConfig{Width: 640, Height: 480, Quarters: 4},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := base()
	cfg.Providers.Active = "bloomberg"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown provider should be rejected")
	}

	cfg = base()
	cfg.Chart.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero chart width should be rejected")
	}

	cfg = base()
	cfg.Market.Tickers = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty universe without free text should be rejected")
	}
	cfg.Market.AllowFreeText = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("free text universe rejected: %v", err)
	}
}

func TestTickerAllowed(t *testing.T) {
	cfg := &Config{Market: MarketConfig{Tickers: []string{"AAPL", "MSFT"}}}

	if !cfg.TickerAllowed("aapl") {
		t.Fatal("listed ticker should be allowed case-insensitively")
	}
	if cfg.TickerAllowed("TSLA") {
		t.Fatal("unlisted ticker should be rejected")
	}

	cfg.Market.AllowFreeText = true
	if !cfg.TickerAllowed("TSLA") {
		t.Fatal("free text mode allows any ticker")
	}
}
