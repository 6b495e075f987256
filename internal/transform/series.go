package transform

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var dec100 = decimal.NewFromInt(100)

// BuildSeries converts canonical quarterly records into a derived Series.
// It is a pure function of its input: records are deduplicated on
// (fiscal year, period) keeping the first occurrence, sorted descending,
// and annotated with year-over-year changes, the pre-tax profit margin,
// and a human period label.
//
// Rows without a same-quarter record one year earlier keep nil YoY
// fields rather than being dropped. A zero-revenue quarter keeps a nil
// margin. Records with an invalid fiscal period are discarded.
func BuildSeries(ticker string, records []QuarterRecord) (*Series, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, ticker)
	}

	seen := make(map[string]struct{}, len(records))
	base := make([]QuarterRecord, 0, len(records))
	for _, rec := range records {
		if !ValidPeriod(rec.FiscalPeriod) {
			continue
		}
		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		base = append(base, rec)
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, ticker)
	}

	sort.SliceStable(base, func(i, j int) bool {
		if base[i].FiscalYear != base[j].FiscalYear {
			return base[i].FiscalYear > base[j].FiscalYear
		}
		return periodIndex[base[i].FiscalPeriod] > periodIndex[base[j].FiscalPeriod]
	})

	byKey := make(map[string]QuarterRecord, len(base))
	for _, rec := range base {
		byKey[rec.Key()] = rec
	}

	rows := make([]Row, 0, len(base))
	for _, rec := range base {
		row := Row{
			QuarterRecord: rec,
			PeriodLabel:   fmt.Sprintf("%s %d", rec.FiscalPeriod, rec.FiscalYear),
		}

		priorKey := fmt.Sprintf("%d-%s", rec.FiscalYear-1, rec.FiscalPeriod)
		if prior, ok := byKey[priorKey]; ok {
			row.RevenueYoYChange = percentChange(rec.Revenue, prior.Revenue)
			row.EPSYoYChange = percentChange(rec.DilutedEPS, prior.DilutedEPS)
		}

		if !rec.Revenue.IsZero() {
			margin := rec.PreTaxIncome.Div(rec.Revenue).Mul(dec100)
			row.PreTaxProfitMargin = &margin
		}

		rows = append(rows, row)
	}

	return &Series{Ticker: ticker, Rows: rows}, nil
}

// percentChange returns (current - prior) / prior * 100, or nil when the
// prior value is zero.
func percentChange(current, prior decimal.Decimal) *decimal.Decimal {
	if prior.IsZero() {
		return nil
	}
	change := current.Sub(prior).Div(prior).Mul(dec100)
	return &change
}
