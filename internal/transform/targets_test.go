package transform

import (
	"testing"

	"github.com/shopspring/decimal"
)

func targets(revenue, eps, margin int64) Targets {
	return Targets{
		RevenueYoYPct: decimal.NewFromInt(revenue),
		EPSYoYPct:     decimal.NewFromInt(eps),
		MarginPct:     decimal.NewFromInt(margin),
	}
}

func TestEvaluateTargetsAllMet(t *testing.T) {
	series, err := BuildSeries("aapl", []QuarterRecord{
		record(2024, PeriodQ4, 125, 25, 2.5),
		record(2023, PeriodQ4, 100, 18, 2.0),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}

	if misses := EvaluateTargets(series, targets(10, 10, 10)); len(misses) != 0 {
		t.Fatalf("misses = %v, want none", misses)
	}
}

func TestEvaluateTargetsBelowTarget(t *testing.T) {
	series, err := BuildSeries("aapl", []QuarterRecord{
		record(2024, PeriodQ4, 105, 5, 2.1),
		record(2023, PeriodQ4, 100, 18, 2.0),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}

	misses := EvaluateTargets(series, targets(10, 10, 10))
	if len(misses) != 3 {
		t.Fatalf("misses = %d, want 3", len(misses))
	}
	for _, miss := range misses {
		if miss.Value == nil {
			t.Fatalf("%s: value should be defined", miss.Metric)
		}
	}
}

func TestEvaluateTargetsUndefinedCountsAsMiss(t *testing.T) {
	series, err := BuildSeries("aapl", []QuarterRecord{
		record(2024, PeriodQ4, 125, 25, 2.5),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}

	misses := EvaluateTargets(series, targets(10, 10, 10))
	if len(misses) != 2 {
		t.Fatalf("misses = %d, want 2 (both YoY metrics undefined)", len(misses))
	}
	for _, miss := range misses {
		if miss.Value != nil {
			t.Fatalf("%s: value should be nil", miss.Metric)
		}
		if miss.Metric == MetricMargin {
			t.Fatal("margin is defined here and above target")
		}
	}
}

func TestEvaluateTargetsEmptySeries(t *testing.T) {
	if misses := EvaluateTargets(&Series{Ticker: "aapl"}, targets(10, 10, 10)); misses != nil {
		t.Fatalf("misses = %v, want nil", misses)
	}
}
