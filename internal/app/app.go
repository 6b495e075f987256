package app

import (
	"github.com/rs/zerolog"

	"stock-report-builder/internal/chart"
	"stock-report-builder/internal/config"
	"stock-report-builder/internal/fetcher"
	"stock-report-builder/internal/transform"
)

// App aggregates configuration and shared dependencies for the CLI
// commands and the dashboard server.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	provider *fetcher.Memo
	renderer *chart.Renderer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// Provider returns the memoising market data client for the configured
// provider. The memo persists across calls; callers reset it at the
// start of a new interaction.
func (a *App) Provider() *fetcher.Memo {
	if a.provider != nil {
		return a.provider
	}

	settings := a.Config.ActiveProvider()
	var inner fetcher.Provider
	switch a.Config.Providers.Active {
	case config.ProviderFMP:
		inner = fetcher.NewFMP(fetcher.FMPOptions{
			BaseURL:        settings.BaseURL,
			APIKey:         settings.APIKey,
			Timeout:        settings.RequestTimeout,
			UserAgent:      settings.UserAgent,
			StatementLimit: settings.StatementLimit,
		}, a.Logger)
	default:
		inner = fetcher.NewPolygon(fetcher.PolygonOptions{
			BaseURL:        settings.BaseURL,
			APIKey:         settings.APIKey,
			Timeout:        settings.RequestTimeout,
			UserAgent:      settings.UserAgent,
			StatementLimit: settings.StatementLimit,
		}, a.Logger)
	}

	a.provider = fetcher.NewMemo(inner)
	return a.provider
}

// Renderer returns the shared chart renderer.
func (a *App) Renderer() *chart.Renderer {
	if a.renderer == nil {
		a.renderer = chart.NewRenderer(chart.Options{
			Width:    a.Config.Chart.Width,
			Height:   a.Config.Chart.Height,
			Quarters: a.Config.Chart.Quarters,
		}, a.Logger)
	}
	return a.renderer
}

// DefaultTargets materialises the configured target percentages.
func (a *App) DefaultTargets() transform.Targets {
	return transform.Targets{
		RevenueYoYPct: decimalFromFloat(a.Config.Targets.RevenueYoYPct),
		EPSYoYPct:     decimalFromFloat(a.Config.Targets.EPSYoYPct),
		MarginPct:     decimalFromFloat(a.Config.Targets.MarginPct),
	}
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Ticker string
	Limit  int
}

// ExportFormat names a report output format.
type ExportFormat string

// Supported export formats.
const (
	FormatPPTX ExportFormat = "pptx"
	FormatPDF  ExportFormat = "pdf"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat validates a CLI format value.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatPPTX, FormatPDF, FormatCSV:
		return ExportFormat(s), nil
	}
	return "", errUnknownFormat(s)
}
