package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stock-report-builder/internal/transform"
)

// ErrNoRenderableData indicates the requested column has no defined
// values in the series.
var ErrNoRenderableData = errors.New("chart: no renderable data")

// Metric colors follow the original report styling.
var (
	ColorRevenue = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	ColorEPS     = drawing.Color{R: 0, G: 0, B: 200, A: 255}
	ColorMargin  = drawing.Color{R: 128, G: 128, B: 0, A: 255}
	colorTarget  = drawing.Color{R: 200, G: 0, B: 0, A: 255}
	colorBand    = drawing.Color{R: 130, G: 130, B: 130, A: 255}
)

// Options size the rendered PNGs.
type Options struct {
	Width    int
	Height   int
	Quarters int
}

// Renderer turns a derived quarterly series into annotated PNG bar
// charts with fixed pixel dimensions.
type Renderer struct {
	opts   Options
	logger zerolog.Logger
}

// NewRenderer constructs a Renderer.
func NewRenderer(opts Options, logger zerolog.Logger) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	if opts.Quarters <= 0 {
		opts.Quarters = 4
	}
	return &Renderer{opts: opts, logger: logger.With().Str("component", "chart_renderer").Logger()}
}

// MetricBarOptions parameterise one metric chart.
type MetricBarOptions struct {
	Title     string
	Color     drawing.Color
	TargetPct decimal.Decimal
}

// MetricBar renders the last quarters of one derived column as a bar
// chart, oldest to newest, with a dashed gridline at the target percent.
// Rows where the column is undefined are skipped.
func (r *Renderer) MetricBar(series *transform.Series, metric string, opts MetricBarOptions) ([]byte, error) {
	type point struct {
		label string
		value float64
	}

	points := make([]point, 0, r.opts.Quarters)
	for _, row := range series.Rows {
		if len(points) == r.opts.Quarters {
			break
		}
		value := metricValue(row, metric)
		if value == nil {
			continue
		}
		points = append(points, point{label: row.PeriodLabel, value: value.InexactFloat64()})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s for %s", ErrNoRenderableData, metric, series.Ticker)
	}

	// points were collected newest-first; bars read left to right.
	bars := make([]chart.Value, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		bars = append(bars, chart.Value{
			Value: p.value,
			Label: fmt.Sprintf("%s (%.1f%%)", p.label, p.value),
			Style: chart.Style{FillColor: opts.Color, StrokeColor: opts.Color},
		})
	}

	target := opts.TargetPct.InexactFloat64()
	min, max := valueBounds(bars, target)

	graph := chart.BarChart{
		Title:    opts.Title,
		Width:    r.opts.Width,
		Height:   r.opts.Height,
		BarWidth: barWidth(r.opts.Width, len(bars)),
		YAxis: chart.YAxis{
			ValueFormatter: percentFormatter,
			Range:          &chart.ContinuousRange{Min: min, Max: max},
			GridLines: []chart.GridLine{
				{Value: target, Style: chart.Style{
					StrokeColor:     colorTarget,
					StrokeWidth:     2.0,
					StrokeDashArray: []float64{5.0, 5.0},
				}},
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", metric, err)
	}
	return buf.Bytes(), nil
}

// Bands are the user-maintained buy/hold/sell price thresholds. The
// upper bound of each band is the lower bound of the next, so four
// numbers describe three bands.
type Bands struct {
	BuyLower  decimal.Decimal
	BuyUpper  decimal.Decimal
	HoldUpper decimal.Decimal
	SellUpper decimal.Decimal
}

// PriceBands renders the three price bands with a gridline at the last
// closing price.
func (r *Renderer) PriceBands(bands Bands, lastClose decimal.Decimal) ([]byte, error) {
	type band struct {
		name  string
		lower decimal.Decimal
		upper decimal.Decimal
	}
	layout := []band{
		{name: "Buy", lower: bands.BuyLower, upper: bands.BuyUpper},
		{name: "Hold", lower: bands.BuyUpper, upper: bands.HoldUpper},
		{name: "Sell", lower: bands.HoldUpper, upper: bands.SellUpper},
	}

	bars := make([]chart.Value, 0, len(layout))
	for _, b := range layout {
		bars = append(bars, chart.Value{
			Value: b.upper.InexactFloat64(),
			Label: fmt.Sprintf("%s $%s-$%s", b.name, b.lower.StringFixed(0), b.upper.StringFixed(0)),
			Style: chart.Style{FillColor: colorBand, StrokeColor: colorBand},
		})
	}

	closePrice := lastClose.InexactFloat64()
	_, max := valueBounds(bars, closePrice)

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Buy, Hold, Sell Ranges (last close $%s)", lastClose.StringFixed(2)),
		Width:    r.opts.Width,
		Height:   r.opts.Height,
		BarWidth: barWidth(r.opts.Width, len(bars)),
		YAxis: chart.YAxis{
			ValueFormatter: dollarFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: max},
			GridLines: []chart.GridLine{
				{Value: closePrice, Style: chart.Style{
					StrokeColor: drawing.ColorBlack,
					StrokeWidth: 1.0,
				}},
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render price bands chart: %w", err)
	}
	return buf.Bytes(), nil
}

func metricValue(row transform.Row, metric string) *decimal.Decimal {
	switch metric {
	case transform.MetricRevenueYoY:
		return row.RevenueYoYChange
	case transform.MetricEPSYoY:
		return row.EPSYoYChange
	case transform.MetricMargin:
		return row.PreTaxProfitMargin
	default:
		return nil
	}
}

// valueBounds pads the axis range so bars and the annotation line never
// sit on the chart edge.
func valueBounds(bars []chart.Value, annotation float64) (float64, float64) {
	min, max := 0.0, annotation
	for _, bar := range bars {
		if bar.Value < min {
			min = bar.Value
		}
		if bar.Value > max {
			max = bar.Value
		}
	}
	if annotation < min {
		min = annotation
	}
	span := max - min
	if span == 0 {
		span = 1
	}
	return min - span*0.1, max + span*0.1
}

func barWidth(chartWidth, bars int) int {
	if bars == 0 {
		return 60
	}
	width := chartWidth / (bars * 2)
	if width < 20 {
		width = 20
	}
	return width
}

func percentFormatter(v interface{}) string {
	if value, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", value)
	}
	return ""
}

func dollarFormatter(v interface{}) string {
	if value, ok := v.(float64); ok {
		return fmt.Sprintf("$%.0f", value)
	}
	return ""
}
