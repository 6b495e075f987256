package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"stock-report-builder/internal/transform"
)

var csvHeader = []string{
	"ticker",
	"fiscal_year",
	"fiscal_period",
	"revenue",
	"pre_tax_income",
	"diluted_eps",
	"revenue_yoy_change",
	"eps_yoy_change",
	"pre_tax_profit_margin",
	"fiscal_period_label",
}

// WriteCSV serialises a derived series, header row first, rows in series
// order. Undefined derived cells are written as empty strings so they
// stay distinguishable from zero.
func WriteCSV(w io.Writer, series *transform.Series) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range series.Rows {
		record := []string{
			series.Ticker,
			strconv.Itoa(row.FiscalYear),
			row.FiscalPeriod,
			row.Revenue.String(),
			row.PreTaxIncome.String(),
			row.DilutedEPS.String(),
			optionalString(row.RevenueYoYChange),
			optionalString(row.EPSYoYChange),
			optionalString(row.PreTaxProfitMargin),
			row.PeriodLabel,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// ReadCSV parses a series previously written by WriteCSV.
func ReadCSV(r io.Reader) (*transform.Series, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read series csv: %w", err)
	}
	if len(records) < 2 {
		return nil, transform.ErrNoData
	}

	series := &transform.Series{}
	for i, record := range records[1:] {
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, len(csvHeader), len(record))
		}

		year, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse fiscal_year: %w", i+1, err)
		}

		row := transform.Row{PeriodLabel: record[9]}
		row.FiscalYear = year
		row.FiscalPeriod = record[2]

		if row.Revenue, err = decimal.NewFromString(record[3]); err != nil {
			return nil, fmt.Errorf("row %d: parse revenue: %w", i+1, err)
		}
		if row.PreTaxIncome, err = decimal.NewFromString(record[4]); err != nil {
			return nil, fmt.Errorf("row %d: parse pre_tax_income: %w", i+1, err)
		}
		if row.DilutedEPS, err = decimal.NewFromString(record[5]); err != nil {
			return nil, fmt.Errorf("row %d: parse diluted_eps: %w", i+1, err)
		}

		if row.RevenueYoYChange, err = optionalDecimal(record[6]); err != nil {
			return nil, fmt.Errorf("row %d: parse revenue_yoy_change: %w", i+1, err)
		}
		if row.EPSYoYChange, err = optionalDecimal(record[7]); err != nil {
			return nil, fmt.Errorf("row %d: parse eps_yoy_change: %w", i+1, err)
		}
		if row.PreTaxProfitMargin, err = optionalDecimal(record[8]); err != nil {
			return nil, fmt.Errorf("row %d: parse pre_tax_profit_margin: %w", i+1, err)
		}

		series.Ticker = record[0]
		series.Rows = append(series.Rows, row)
	}

	return series, nil
}

func optionalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func optionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
