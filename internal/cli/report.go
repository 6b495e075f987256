package cli

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stock-report-builder/internal/app"
	"stock-report-builder/internal/chart"
)

var (
	reportTicker   string
	reportFormat   string
	reportOut      string
	reportDecision string
	reportComments string
	reportAuthor   string

	targetRevenue float64
	targetEPS     float64
	targetMargin  float64

	bandBuyFrom float64
	bandBuyTo   float64
	bandHoldTo  float64
	bandSellTo  float64
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a report for a ticker and export it to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := app.ParseExportFormat(reportFormat)
		if err != nil {
			return err
		}
		return getApp().ExportReport(cmd.Context(), buildRequest(cmd), format, reportOut)
	},
}

// buildRequest assembles a report request from the shared report flags,
// falling back to configured targets for flags left unset.
func buildRequest(cmd *cobra.Command) app.ReportRequest {
	a := getApp()
	targets := a.DefaultTargets()
	if cmd.Flags().Changed("target-revenue") {
		targets.RevenueYoYPct = decimal.NewFromFloat(targetRevenue)
	}
	if cmd.Flags().Changed("target-eps") {
		targets.EPSYoYPct = decimal.NewFromFloat(targetEPS)
	}
	if cmd.Flags().Changed("target-margin") {
		targets.MarginPct = decimal.NewFromFloat(targetMargin)
	}

	return app.ReportRequest{
		Ticker:   reportTicker,
		Targets:  targets,
		Bands:    buildBands(),
		Decision: app.ParseDecision(reportDecision),
		Comments: reportComments,
		Author:   reportAuthor,
	}
}

// buildBands clamps each upper bound to at least the previous one so
// the three ranges stay contiguous.
func buildBands() chart.Bands {
	bands := chart.Bands{
		BuyLower:  decimal.NewFromFloat(bandBuyFrom),
		BuyUpper:  decimal.NewFromFloat(bandBuyTo),
		HoldUpper: decimal.NewFromFloat(bandHoldTo),
		SellUpper: decimal.NewFromFloat(bandSellTo),
	}
	if bands.BuyUpper.LessThan(bands.BuyLower) {
		bands.BuyUpper = bands.BuyLower
	}
	if bands.HoldUpper.LessThan(bands.BuyUpper) {
		bands.HoldUpper = bands.BuyUpper
	}
	if bands.SellUpper.LessThan(bands.HoldUpper) {
		bands.SellUpper = bands.HoldUpper
	}
	return bands
}

func registerReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reportTicker, "ticker", "", "Ticker symbol to report on")
	cmd.Flags().StringVar(&reportFormat, "format", "pptx", "Export format: pptx, pdf, or csv")
	cmd.Flags().StringVar(&reportOut, "out", "", "Output path (defaults to the configured output directory)")
	cmd.Flags().StringVar(&reportDecision, "decision", string(app.DecisionHold), "Recommendation: Buy, Hold, or Sell")
	cmd.Flags().StringVar(&reportComments, "comments", "", "Free-form comments for the report")
	cmd.Flags().StringVar(&reportAuthor, "author", "", "Report author name")

	cmd.Flags().Float64Var(&targetRevenue, "target-revenue", 0, "Revenue YoY growth target in percent (defaults to config)")
	cmd.Flags().Float64Var(&targetEPS, "target-eps", 0, "EPS YoY growth target in percent (defaults to config)")
	cmd.Flags().Float64Var(&targetMargin, "target-margin", 0, "Pre-tax margin target in percent (defaults to config)")

	cmd.Flags().Float64Var(&bandBuyFrom, "buy-from", 0, "Buy range lower bound in dollars")
	cmd.Flags().Float64Var(&bandBuyTo, "buy-to", 0, "Buy range upper bound in dollars")
	cmd.Flags().Float64Var(&bandHoldTo, "hold-to", 0, "Hold range upper bound in dollars")
	cmd.Flags().Float64Var(&bandSellTo, "sell-to", 0, "Sell range upper bound in dollars")
}

func init() {
	registerReportFlags(reportCmd)
	_ = reportCmd.MarkFlagRequired("ticker")
}
