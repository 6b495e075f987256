package transform

import "github.com/shopspring/decimal"

// Targets are the user's percent thresholds for the latest quarter.
type Targets struct {
	RevenueYoYPct decimal.Decimal
	EPSYoYPct     decimal.Decimal
	MarginPct     decimal.Decimal
}

// TargetMiss records one metric falling short of its target in the most
// recent quarter. Metrics with undefined values are reported as misses
// with a nil Value so the caller can distinguish "below target" from
// "not computable".
type TargetMiss struct {
	Metric string
	Value  *decimal.Decimal
	Target decimal.Decimal
}

// Metric names used in TargetMiss.
const (
	MetricRevenueYoY = "revenue_yoy_change"
	MetricEPSYoY     = "eps_yoy_change"
	MetricMargin     = "pre_tax_profit_margin"
)

// EvaluateTargets compares the latest quarter against the user's
// targets and returns the metrics that miss them.
func EvaluateTargets(series *Series, targets Targets) []TargetMiss {
	if series.Len() == 0 {
		return nil
	}
	latest := series.Latest()

	var misses []TargetMiss
	check := func(metric string, value *decimal.Decimal, target decimal.Decimal) {
		if value == nil || value.LessThan(target) {
			misses = append(misses, TargetMiss{Metric: metric, Value: value, Target: target})
		}
	}

	check(MetricRevenueYoY, latest.RevenueYoYChange, targets.RevenueYoYPct)
	check(MetricEPSYoY, latest.EPSYoYChange, targets.EPSYoYPct)
	check(MetricMargin, latest.PreTaxProfitMargin, targets.MarginPct)

	return misses
}
