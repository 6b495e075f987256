package transform

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNoData indicates a ticker produced no usable quarterly records.
var ErrNoData = errors.New("transform: no data")

// Fiscal period labels accepted in canonical records.
const (
	PeriodQ1 = "Q1"
	PeriodQ2 = "Q2"
	PeriodQ3 = "Q3"
	PeriodQ4 = "Q4"
)

var periodIndex = map[string]int{
	PeriodQ1: 1,
	PeriodQ2: 2,
	PeriodQ3: 3,
	PeriodQ4: 4,
}

// ValidPeriod reports whether p is one of Q1..Q4.
func ValidPeriod(p string) bool {
	_, ok := periodIndex[p]
	return ok
}

// QuarterRecord is one fiscal quarter's statement line items in the
// canonical shape shared by both providers.
type QuarterRecord struct {
	FiscalYear   int
	FiscalPeriod string
	Revenue      decimal.Decimal
	PreTaxIncome decimal.Decimal
	DilutedEPS   decimal.Decimal
}

// Key uniquely identifies the record within one ticker's series.
func (r QuarterRecord) Key() string {
	return fmt.Sprintf("%d-%s", r.FiscalYear, r.FiscalPeriod)
}

// Row is a QuarterRecord with derived columns appended. A nil derived
// value means "undefined" for that quarter; NaN and Inf never appear.
type Row struct {
	QuarterRecord

	RevenueYoYChange   *decimal.Decimal
	EPSYoYChange       *decimal.Decimal
	PreTaxProfitMargin *decimal.Decimal
	PeriodLabel        string
}

// Series is the derived quarterly table for one ticker, sorted
// descending by (fiscal year, quarter): index 0 is the most recent.
type Series struct {
	Ticker string
	Rows   []Row
}

// Latest returns the most recent row.
func (s *Series) Latest() Row {
	return s.Rows[0]
}

// Len returns the number of rows.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}
