package transform

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizePolygonReports maps Polygon.io financial report objects onto
// canonical quarterly records. Polygon nests line items under
// financials.income_statement with per-item value wrappers, and mixes
// annual ("FY") and quarterly periods; only Q1..Q4 survive. Rows missing
// a required field are skipped, never fatal. The second return value is
// the number of skipped rows.
func NormalizePolygonReports(reports []json.RawMessage) ([]QuarterRecord, int) {
	type lineItem struct {
		Value *float64 `json:"value"`
	}
	type report struct {
		FiscalPeriod string          `json:"fiscal_period"`
		FiscalYear   json.RawMessage `json:"fiscal_year"`
		Financials   struct {
			IncomeStatement struct {
				Revenues   *lineItem `json:"revenues"`
				PreTax     *lineItem `json:"income_loss_from_continuing_operations_before_tax"`
				DilutedEPS *lineItem `json:"diluted_earnings_per_share"`
			} `json:"income_statement"`
		} `json:"financials"`
	}

	records := make([]QuarterRecord, 0, len(reports))
	skipped := 0
	for _, raw := range reports {
		var rep report
		if err := json.Unmarshal(raw, &rep); err != nil {
			skipped++
			continue
		}
		if !ValidPeriod(rep.FiscalPeriod) {
			// Annual (FY) and trailing (TTM) periods are not part of the
			// quarterly series; not an error.
			continue
		}

		year, ok := parseYear(rep.FiscalYear)
		if !ok {
			skipped++
			continue
		}

		is := rep.Financials.IncomeStatement
		if is.Revenues == nil || is.Revenues.Value == nil ||
			is.PreTax == nil || is.PreTax.Value == nil ||
			is.DilutedEPS == nil || is.DilutedEPS.Value == nil {
			skipped++
			continue
		}

		records = append(records, QuarterRecord{
			FiscalYear:   year,
			FiscalPeriod: rep.FiscalPeriod,
			Revenue:      decimal.NewFromFloat(*is.Revenues.Value),
			PreTaxIncome: decimal.NewFromFloat(*is.PreTax.Value),
			DilutedEPS:   decimal.NewFromFloat(*is.DilutedEPS.Value),
		})
	}

	return records, skipped
}

// NormalizeFMPStatements maps Financial Modeling Prep quarterly income
// statements (flat schema, already per-quarter) onto canonical records.
func NormalizeFMPStatements(statements []json.RawMessage) ([]QuarterRecord, int) {
	type statement struct {
		CalendarYear    json.RawMessage `json:"calendarYear"`
		Period          string          `json:"period"`
		Revenue         *float64        `json:"revenue"`
		IncomeBeforeTax *float64        `json:"incomeBeforeTax"`
		EPSDiluted      *float64        `json:"epsdiluted"`
	}

	records := make([]QuarterRecord, 0, len(statements))
	skipped := 0
	for _, raw := range statements {
		var st statement
		if err := json.Unmarshal(raw, &st); err != nil {
			skipped++
			continue
		}

		year, ok := parseYear(st.CalendarYear)
		if !ok || !ValidPeriod(st.Period) ||
			st.Revenue == nil || st.IncomeBeforeTax == nil || st.EPSDiluted == nil {
			skipped++
			continue
		}

		records = append(records, QuarterRecord{
			FiscalYear:   year,
			FiscalPeriod: st.Period,
			Revenue:      decimal.NewFromFloat(*st.Revenue),
			PreTaxIncome: decimal.NewFromFloat(*st.IncomeBeforeTax),
			DilutedEPS:   decimal.NewFromFloat(*st.EPSDiluted),
		})
	}

	return records, skipped
}

// parseYear accepts both JSON number and string encodings; both
// providers have shipped both over time.
func parseYear(raw json.RawMessage) (int, bool) {
	trimmed := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if trimmed == "" || trimmed == "null" {
		return 0, false
	}
	year, err := strconv.Atoi(trimmed)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}
