package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"stock-report-builder/internal/transform"
)

// Show prints the derived quarterly series for a ticker.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	series, err := a.fetchSeries(ctx, a.Provider(), opts.Ticker)
	if err != nil {
		if errors.Is(err, transform.ErrNoData) {
			fmt.Fprintf(os.Stdout, "no data found for %s\n", strings.ToUpper(opts.Ticker))
			return nil
		}
		return err
	}

	rows := series.Rows
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Quarter\tRevenue\tPreTaxIncome\tDilutedEPS\tRevYoY%\tEPSYoY%\tMargin%")

	for _, row := range rows {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.PeriodLabel,
			row.Revenue.StringFixed(0),
			row.PreTaxIncome.StringFixed(0),
			row.DilutedEPS.StringFixed(2),
			formatOptional(row.RevenueYoYChange, 1),
			formatOptional(row.EPSYoYChange, 1),
			formatOptional(row.PreTaxProfitMargin, 1),
		)
	}

	return writer.Flush()
}

func formatOptional(d *decimal.Decimal, places int32) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(places)
}
