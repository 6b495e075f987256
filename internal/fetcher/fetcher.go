package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceFetcher retrieves the most recent closing price for a ticker.
type PriceFetcher interface {
	LastClose(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error)
}

// StatementFetcher retrieves historical quarterly financial statements
// as raw provider-schema objects. The transform package owns the schema
// mapping.
type StatementFetcher interface {
	QuarterlyStatements(ctx context.Context, ticker string) ([]json.RawMessage, error)
}

// Provider combines both read paths of one market data source.
type Provider interface {
	Name() string
	PriceFetcher
	StatementFetcher
}

// UpstreamError reports a non-2xx response from a provider.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s api error (%d): %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s api error (%d)", e.Provider, e.Status)
}

// IsUpstream reports whether err wraps an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// NormalizeTicker uppercases and trims an exchange symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// lastWeekday returns the most recent weekday strictly before now, the
// latest session a daily close can exist for.
func lastWeekday(now time.Time) time.Time {
	day := now.AddDate(0, 0, -1)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
