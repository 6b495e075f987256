package transform

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func record(year int, period string, revenue, income, eps float64) QuarterRecord {
	return QuarterRecord{
		FiscalYear:   year,
		FiscalPeriod: period,
		Revenue:      decimal.NewFromFloat(revenue),
		PreTaxIncome: decimal.NewFromFloat(income),
		DilutedEPS:   decimal.NewFromFloat(eps),
	}
}

func TestBuildSeriesDerivations(t *testing.T) {
	records := []QuarterRecord{
		record(2024, PeriodQ4, 125, 25, 2.5),
		record(2023, PeriodQ4, 100, 18, 2.0),
	}

	series, err := BuildSeries("aapl", records)
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}
	if series.Ticker != "aapl" {
		t.Fatalf("ticker = %q", series.Ticker)
	}
	if series.Len() != 2 {
		t.Fatalf("len = %d, want 2", series.Len())
	}

	latest := series.Latest()
	if latest.FiscalYear != 2024 || latest.FiscalPeriod != PeriodQ4 {
		t.Fatalf("latest = %s, want Q4 2024", latest.Key())
	}
	if latest.PeriodLabel != "Q4 2024" {
		t.Fatalf("period label = %q", latest.PeriodLabel)
	}

	if latest.RevenueYoYChange == nil {
		t.Fatal("revenue YoY should be defined")
	}
	if latest.RevenueYoYChange.StringFixed(1) != "25.0" {
		t.Fatalf("revenue YoY = %s, want 25.0", latest.RevenueYoYChange)
	}
	if latest.PreTaxProfitMargin == nil || latest.PreTaxProfitMargin.StringFixed(1) != "20.0" {
		t.Fatalf("margin = %v, want 20.0", latest.PreTaxProfitMargin)
	}
	if latest.EPSYoYChange == nil || latest.EPSYoYChange.StringFixed(1) != "25.0" {
		t.Fatalf("EPS YoY = %v, want 25.0", latest.EPSYoYChange)
	}
}

func TestBuildSeriesNoPriorYear(t *testing.T) {
	series, err := BuildSeries("msft", []QuarterRecord{
		record(2024, PeriodQ1, 100, 10, 1.0),
		record(2024, PeriodQ2, 110, 11, 1.1),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}

	for _, row := range series.Rows {
		if row.RevenueYoYChange != nil || row.EPSYoYChange != nil {
			t.Fatalf("%s: YoY should be undefined without a prior year", row.Key())
		}
		if row.PreTaxProfitMargin == nil {
			t.Fatalf("%s: margin should still be defined", row.Key())
		}
	}
}

func TestBuildSeriesZeroDenominators(t *testing.T) {
	series, err := BuildSeries("nvda", []QuarterRecord{
		record(2024, PeriodQ3, 0, 5, 0.5),
		record(2023, PeriodQ3, 0, 4, -1.0),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}

	latest := series.Latest()
	if latest.RevenueYoYChange != nil {
		t.Fatal("revenue YoY vs zero prior should be undefined")
	}
	if latest.PreTaxProfitMargin != nil {
		t.Fatal("margin on zero revenue should be undefined")
	}
	if latest.EPSYoYChange == nil {
		t.Fatal("EPS YoY over a negative prior is still defined")
	}
}

func TestBuildSeriesSortsDescending(t *testing.T) {
	series, err := BuildSeries("v", []QuarterRecord{
		record(2023, PeriodQ2, 1, 1, 1),
		record(2024, PeriodQ1, 4, 1, 1),
		record(2023, PeriodQ4, 3, 1, 1),
		record(2023, PeriodQ3, 2, 1, 1),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}

	want := []string{"2024-Q1", "2023-Q4", "2023-Q3", "2023-Q2"}
	for i, key := range want {
		if got := series.Rows[i].Key(); got != key {
			t.Fatalf("row %d = %s, want %s", i, got, key)
		}
	}
}

func TestBuildSeriesDedupesKeepFirst(t *testing.T) {
	series, err := BuildSeries("aapl", []QuarterRecord{
		record(2024, PeriodQ1, 100, 10, 1.0),
		record(2024, PeriodQ1, 999, 99, 9.9),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}
	if series.Len() != 1 {
		t.Fatalf("len = %d, want 1", series.Len())
	}
	if !series.Latest().Revenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("duplicate should keep the first record, got revenue %s", series.Latest().Revenue)
	}
}

func TestBuildSeriesSkipsInvalidPeriods(t *testing.T) {
	series, err := BuildSeries("aapl", []QuarterRecord{
		record(2024, "FY", 400, 40, 4.0),
		record(2024, PeriodQ1, 100, 10, 1.0),
	})
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}
	if series.Len() != 1 {
		t.Fatalf("len = %d, want 1 after dropping FY row", series.Len())
	}
}

func TestBuildSeriesEmpty(t *testing.T) {
	if _, err := BuildSeries("aapl", nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if _, err := BuildSeries("aapl", []QuarterRecord{record(2024, "FY", 1, 1, 1)}); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData when every row is dropped", err)
	}
}
