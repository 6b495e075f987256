package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stock-report-builder/internal/chart"
	"stock-report-builder/internal/export"
	"stock-report-builder/internal/fetcher"
	"stock-report-builder/internal/transform"
)

// Chart kinds produced for a report.
const (
	ChartRevenue = "revenue"
	ChartEPS     = "eps"
	ChartMargin  = "margin"
	ChartRanges  = "ranges"
)

// Decision is the three-way recommendation enum.
type Decision string

// Recommendation values.
const (
	DecisionBuy  Decision = "Buy"
	DecisionHold Decision = "Hold"
	DecisionSell Decision = "Sell"
)

// ParseDecision validates a recommendation value, defaulting to Hold.
func ParseDecision(s string) Decision {
	switch Decision(s) {
	case DecisionBuy, DecisionSell:
		return Decision(s)
	default:
		return DecisionHold
	}
}

// ReportRequest carries one interaction's inputs: the ticker plus the
// ephemeral user-entered metadata. Nothing in it survives the render
// cycle.
type ReportRequest struct {
	Ticker   string
	Targets  transform.Targets
	Bands    chart.Bands
	Decision Decision
	Comments string
	Author   string
}

// Report is the assembled view for one render cycle.
type Report struct {
	Request ReportRequest

	Series        *transform.Series
	TargetMisses  []transform.TargetMiss
	LastClose     decimal.Decimal
	LastCloseAsOf time.Time
	PriceKnown    bool
	Charts        map[string][]byte

	// NoData marks an empty or failed fetch; Warning carries the
	// non-fatal upstream message shown to the user.
	NoData  bool
	Warning string
}

// PeriodLabel is the most recent quarter's label, used in headings.
func (r *Report) PeriodLabel() string {
	if r.Series.Len() == 0 {
		return ""
	}
	return r.Series.Latest().PeriodLabel
}

// Document assembles the exporter payload in reading order.
func (r *Report) Document() export.Document {
	charts := make([][]byte, 0, 4)
	for _, kind := range []string{ChartRevenue, ChartEPS, ChartMargin, ChartRanges} {
		if png, ok := r.Charts[kind]; ok {
			charts = append(charts, png)
		}
	}
	return export.Document{
		Ticker:      r.Request.Ticker,
		PeriodLabel: r.PeriodLabel(),
		Decision:    string(r.Request.Decision),
		Comments:    r.Request.Comments,
		Author:      r.Request.Author,
		Charts:      charts,
	}
}

// BuildReport runs one full interaction cycle: fetch, normalize,
// derive, evaluate targets, render charts. Upstream failures and empty
// datasets degrade to a no-data report with a warning; they never fail
// the interaction.
func (a *App) BuildReport(ctx context.Context, req ReportRequest) (*Report, error) {
	return a.buildReport(ctx, a.Provider(), req)
}

func (a *App) buildReport(ctx context.Context, provider fetcher.Provider, req ReportRequest) (*Report, error) {
	req.Ticker = fetcher.NormalizeTicker(req.Ticker)
	if req.Ticker == "" {
		return nil, errors.New("ticker required")
	}

	report := &Report{
		Request: req,
		Series:  &transform.Series{Ticker: req.Ticker},
		Charts:  make(map[string][]byte),
	}

	series, err := a.fetchSeries(ctx, provider, req.Ticker)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		report.NoData = true
		if fetcher.IsUpstream(err) {
			report.Warning = err.Error()
			a.Logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("statement fetch failed")
		} else if errors.Is(err, transform.ErrNoData) {
			a.Logger.Info().Str("ticker", req.Ticker).Msg("no quarterly data found")
		} else {
			report.Warning = err.Error()
			a.Logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("could not build series")
		}
		return report, nil
	}
	report.Series = series
	report.TargetMisses = transform.EvaluateTargets(series, req.Targets)

	lastClose, asOf, err := provider.LastClose(ctx, req.Ticker)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.Logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("last close fetch failed")
		if report.Warning == "" {
			report.Warning = fmt.Sprintf("last close unavailable: %v", err)
		}
	} else {
		report.LastClose = lastClose
		report.LastCloseAsOf = asOf
		report.PriceKnown = true
	}

	a.renderCharts(report)
	return report, nil
}

// fetchSeries fetches raw statements and normalizes them for the active
// schema.
func (a *App) fetchSeries(ctx context.Context, provider fetcher.Provider, ticker string) (*transform.Series, error) {
	statements, err := provider.QuarterlyStatements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var records []transform.QuarterRecord
	var skipped int
	switch provider.Name() {
	case "fmp":
		records, skipped = transform.NormalizeFMPStatements(statements)
	default:
		records, skipped = transform.NormalizePolygonReports(statements)
	}
	if skipped > 0 {
		a.Logger.Warn().Int("skipped", skipped).Str("ticker", ticker).Msg("skipped malformed statement rows")
	}

	return transform.BuildSeries(ticker, records)
}

func (a *App) renderCharts(report *Report) {
	if report.NoData {
		return
	}

	renderer := a.Renderer()
	metrics := []struct {
		kind   string
		column string
		opts   chart.MetricBarOptions
	}{
		{ChartRevenue, transform.MetricRevenueYoY, chart.MetricBarOptions{
			Title: "Revenue YoY Growth Rate (%)", Color: chart.ColorRevenue, TargetPct: report.Request.Targets.RevenueYoYPct,
		}},
		{ChartEPS, transform.MetricEPSYoY, chart.MetricBarOptions{
			Title: "EPS YoY Growth Rate (%)", Color: chart.ColorEPS, TargetPct: report.Request.Targets.EPSYoYPct,
		}},
		{ChartMargin, transform.MetricMargin, chart.MetricBarOptions{
			Title: "Pre-tax Profit Margin (%)", Color: chart.ColorMargin, TargetPct: report.Request.Targets.MarginPct,
		}},
	}

	for _, m := range metrics {
		png, err := renderer.MetricBar(report.Series, m.column, m.opts)
		if err != nil {
			if errors.Is(err, chart.ErrNoRenderableData) {
				a.Logger.Debug().Str("chart", m.kind).Str("ticker", report.Request.Ticker).Msg("no renderable data")
				continue
			}
			a.Logger.Error().Err(err).Str("chart", m.kind).Msg("chart render failed")
			continue
		}
		report.Charts[m.kind] = png
	}

	if report.PriceKnown {
		png, err := renderer.PriceBands(report.Request.Bands, report.LastClose)
		if err != nil {
			a.Logger.Error().Err(err).Str("chart", ChartRanges).Msg("chart render failed")
		} else {
			report.Charts[ChartRanges] = png
		}
	}
}

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
