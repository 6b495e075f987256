package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"stock-report-builder/internal/logging"
)

// Provider identifiers accepted in providers.active.
const (
	ProviderPolygon = "polygon"
	ProviderFMP     = "fmp"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Market    MarketConfig    `mapstructure:"market"`
	Targets   TargetsConfig   `mapstructure:"targets"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig governs the interactive dashboard listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ProvidersConfig selects and parameterises the market data providers.
type ProvidersConfig struct {
	Active  string         `mapstructure:"active"`
	Polygon ProviderConfig `mapstructure:"polygon"`
	FMP     ProviderConfig `mapstructure:"fmp"`
}

// ProviderConfig covers one REST provider. API keys are injected here at
// load time and nowhere else.
type ProviderConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	StatementLimit int           `mapstructure:"statement_limit"`
}

// MarketConfig describes the ticker universe.
type MarketConfig struct {
	Tickers       []string `mapstructure:"tickers"`
	AllowFreeText bool     `mapstructure:"allow_free_text"`
}

// TargetsConfig holds default percent targets for the dashboard form.
type TargetsConfig struct {
	RevenueYoYPct float64 `mapstructure:"revenue_yoy_pct"`
	EPSYoYPct     float64 `mapstructure:"eps_yoy_pct"`
	MarginPct     float64 `mapstructure:"margin_pct"`
}

// ChartConfig sets renderer output dimensions.
type ChartConfig struct {
	Width    int `mapstructure:"width"`
	Height   int `mapstructure:"height"`
	Quarters int `mapstructure:"quarters"`
}

// ExportConfig sets report export behaviour.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stockreport")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("providers.active", ProviderPolygon)
	v.SetDefault("providers.polygon.base_url", "https://api.polygon.io")
	v.SetDefault("providers.polygon.request_timeout", "10s")
	v.SetDefault("providers.polygon.user_agent", "stockreport/1.0")
	v.SetDefault("providers.polygon.statement_limit", 50)
	v.SetDefault("providers.fmp.base_url", "https://financialmodelingprep.com")
	v.SetDefault("providers.fmp.request_timeout", "10s")
	v.SetDefault("providers.fmp.user_agent", "stockreport/1.0")
	v.SetDefault("providers.fmp.statement_limit", 50)

	v.SetDefault("market.tickers", []string{"AAPL", "MSFT", "NVDA", "V"})
	v.SetDefault("market.allow_free_text", false)

	v.SetDefault("targets.revenue_yoy_pct", 10.0)
	v.SetDefault("targets.eps_yoy_pct", 10.0)
	v.SetDefault("targets.margin_pct", 10.0)

	v.SetDefault("chart.width", 640)
	v.SetDefault("chart.height", 480)
	v.SetDefault("chart.quarters", 4)

	v.SetDefault("export.output_dir", "reports")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	switch c.Providers.Active {
	case ProviderPolygon, ProviderFMP:
	default:
		return fmt.Errorf("providers.active must be %q or %q", ProviderPolygon, ProviderFMP)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be greater than zero")
	}
	if c.Chart.Quarters <= 0 {
		return fmt.Errorf("chart.quarters must be greater than zero")
	}
	if c.ActiveProvider().StatementLimit <= 0 {
		return fmt.Errorf("statement_limit must be greater than zero")
	}
	if len(c.Market.Tickers) == 0 && !c.Market.AllowFreeText {
		return fmt.Errorf("market.tickers cannot be empty unless market.allow_free_text is set")
	}
	return nil
}

// ActiveProvider returns the settings for the selected provider.
func (c *Config) ActiveProvider() ProviderConfig {
	if c.Providers.Active == ProviderFMP {
		return c.Providers.FMP
	}
	return c.Providers.Polygon
}

// TickerAllowed reports whether a ticker may be queried.
func (c *Config) TickerAllowed(ticker string) bool {
	if c.Market.AllowFreeText {
		return true
	}
	for _, t := range c.Market.Tickers {
		if strings.EqualFold(t, ticker) {
			return true
		}
	}
	return false
}
