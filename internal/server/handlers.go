package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"stock-report-builder/internal/app"
	"stock-report-builder/internal/chart"
	"stock-report-builder/internal/export"
	"stock-report-builder/internal/fetcher"
	"stock-report-builder/internal/transform"
)

// Health returns a liveness payload.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard renders the input form and, when a ticker was submitted,
// runs a full report cycle. Every submit is a fresh interaction, so the
// request memo is reset first.
func (s *Server) Dashboard(c echo.Context) error {
	view := s.defaultView()

	ticker := fetcher.NormalizeTicker(c.QueryParam("ticker"))
	if ticker == "" {
		return s.render(c, view)
	}

	view.Form = readForm(c)
	view.Form.Ticker = ticker

	if !s.app.Config.TickerAllowed(ticker) {
		view.Error = fmt.Sprintf("ticker %s is not in the configured list", ticker)
		return s.render(c, view)
	}

	s.app.Provider().Reset()

	req := app.ReportRequest{
		Ticker: ticker,
		Targets: transform.Targets{
			RevenueYoYPct: formDecimal(c, "target_revenue", s.app.Config.Targets.RevenueYoYPct),
			EPSYoYPct:     formDecimal(c, "target_eps", s.app.Config.Targets.EPSYoYPct),
			MarginPct:     formDecimal(c, "target_margin", s.app.Config.Targets.MarginPct),
		},
		Bands:    readBands(c),
		Decision: app.ParseDecision(c.QueryParam("decision")),
		Comments: c.QueryParam("comments"),
		Author:   c.QueryParam("author"),
	}

	report, err := s.app.BuildReport(c.Request().Context(), req)
	if err != nil {
		return err
	}
	s.setLatest(report)

	s.fillReportView(&view, report)
	return s.render(c, view)
}

// Chart serves one of the most recent report's rendered PNGs.
func (s *Server) Chart(c echo.Context) error {
	report := s.getLatest()
	if report == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no report built yet")
	}

	png, ok := report.Charts[c.Param("kind")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such chart")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

var exportContentTypes = map[app.ExportFormat]string{
	app.FormatPPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	app.FormatPDF:  "application/pdf",
	app.FormatCSV:  "text/csv",
}

// Export streams the most recent report as a file download.
func (s *Server) Export(c echo.Context) error {
	format, err := app.ParseExportFormat(c.Param("format"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report := s.getLatest()
	if report == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no report built yet")
	}
	if report.NoData {
		return echo.NewHTTPError(http.StatusConflict, "latest report has no data to export")
	}

	var buf bytes.Buffer
	switch format {
	case app.FormatCSV:
		err = export.WriteCSV(&buf, report.Series)
	case app.FormatPDF:
		err = export.PDF(&buf, report.Document())
	case app.FormatPPTX:
		err = export.PPTX(&buf, report.Document())
	}
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s-report.%s", report.Request.Ticker, format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, exportContentTypes[format], buf.Bytes())
}

func (s *Server) defaultView() dashboardView {
	cfg := s.app.Config
	return dashboardView{
		Tickers:       cfg.Market.Tickers,
		AllowFreeText: cfg.Market.AllowFreeText,
		Form: formValues{
			Decision:      string(app.DecisionHold),
			TargetRevenue: trimFloat(cfg.Targets.RevenueYoYPct),
			TargetEPS:     trimFloat(cfg.Targets.EPSYoYPct),
			TargetMargin:  trimFloat(cfg.Targets.MarginPct),
		},
	}
}

func (s *Server) fillReportView(view *dashboardView, report *app.Report) {
	view.HasReport = true
	view.Ticker = report.Request.Ticker
	view.NoData = report.NoData
	view.Warning = report.Warning
	if report.NoData {
		return
	}

	view.PeriodLabel = report.PeriodLabel()
	if report.PriceKnown {
		view.PriceKnown = true
		view.LastClose = report.LastClose.StringFixed(2)
		view.LastCloseAsOf = report.LastCloseAsOf.Format("2006-01-02")
	}

	for _, kind := range []string{app.ChartRevenue, app.ChartEPS, app.ChartMargin, app.ChartRanges} {
		if _, ok := report.Charts[kind]; ok {
			view.ChartKinds = append(view.ChartKinds, kind)
		}
	}

	for _, miss := range report.TargetMisses {
		view.Misses = append(view.Misses, missView{
			Metric: metricLabel(miss.Metric),
			Value:  formatMissValue(miss.Value),
			Target: miss.Target.StringFixed(1),
		})
	}
}

func metricLabel(metric string) string {
	switch metric {
	case transform.MetricRevenueYoY:
		return "Revenue YoY growth"
	case transform.MetricEPSYoY:
		return "EPS YoY growth"
	case transform.MetricMargin:
		return "Pre-tax profit margin"
	}
	return metric
}

func formatMissValue(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.StringFixed(1) + "%"
}

func readForm(c echo.Context) formValues {
	return formValues{
		Decision:      string(app.ParseDecision(c.QueryParam("decision"))),
		Comments:      c.QueryParam("comments"),
		Author:        c.QueryParam("author"),
		TargetRevenue: c.QueryParam("target_revenue"),
		TargetEPS:     c.QueryParam("target_eps"),
		TargetMargin:  c.QueryParam("target_margin"),
		BuyLower:      c.QueryParam("buy_lower"),
		BuyUpper:      c.QueryParam("buy_upper"),
		HoldUpper:     c.QueryParam("hold_upper"),
		SellUpper:     c.QueryParam("sell_upper"),
	}
}

// readBands builds contiguous price bands from the form. The hold band
// starts where buy ends and sell starts where hold ends, so the bands
// cannot overlap or leave gaps whatever the user types.
func readBands(c echo.Context) chart.Bands {
	buyLower := formDecimal(c, "buy_lower", 0)
	buyUpper := formDecimal(c, "buy_upper", 0)
	if buyUpper.LessThan(buyLower) {
		buyUpper = buyLower
	}
	holdUpper := formDecimal(c, "hold_upper", 0)
	if holdUpper.LessThan(buyUpper) {
		holdUpper = buyUpper
	}
	sellUpper := formDecimal(c, "sell_upper", 0)
	if sellUpper.LessThan(holdUpper) {
		sellUpper = holdUpper
	}
	return chart.Bands{
		BuyLower:  buyLower,
		BuyUpper:  buyUpper,
		HoldUpper: holdUpper,
		SellUpper: sellUpper,
	}
}

func formDecimal(c echo.Context, name string, fallback float64) decimal.Decimal {
	raw := c.QueryParam(name)
	if raw == "" {
		return decimal.NewFromFloat(fallback)
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NewFromFloat(fallback)
	}
	return parsed
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
