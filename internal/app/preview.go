package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"stock-report-builder/internal/fetcher"
)

// PreviewOptions configure an offline report build from a fixture file.
type PreviewOptions struct {
	FixturePath string
	Format      ExportFormat
	OutPath     string
	Request     ReportRequest
}

// previewFixture is the on-disk shape: raw statements in one of the two
// provider schemas plus a canned closing price.
type previewFixture struct {
	Ticker     string            `json:"ticker"`
	Schema     string            `json:"schema"`
	LastClose  *float64          `json:"last_close"`
	Statements []json.RawMessage `json:"statements"`
}

// Preview builds and exports a report from fixture data instead of the
// network, for trying layouts without burning API quota.
func (a *App) Preview(ctx context.Context, opts PreviewOptions) error {
	payload, err := os.ReadFile(opts.FixturePath)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}

	var fixture previewFixture
	if err := json.Unmarshal(payload, &fixture); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}
	if fixture.Schema == "" {
		fixture.Schema = a.Config.Providers.Active
	}

	req := opts.Request
	if req.Ticker == "" {
		req.Ticker = fixture.Ticker
	}

	report, err := a.buildReport(ctx, &fixtureProvider{fixture: fixture}, req)
	if err != nil {
		return err
	}
	if report.NoData {
		return fmt.Errorf("fixture produced no data for %s", req.Ticker)
	}

	return a.writeReport(report, opts.Format, opts.OutPath)
}

// fixtureProvider serves canned responses through the fetcher
// interfaces, the same trick the live path is tested with.
type fixtureProvider struct {
	fixture previewFixture
}

func (f *fixtureProvider) Name() string { return f.fixture.Schema }

func (f *fixtureProvider) LastClose(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error) {
	if f.fixture.LastClose == nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("fixture has no last_close for %s", ticker)
	}
	return decimal.NewFromFloat(*f.fixture.LastClose), time.Now().UTC(), nil
}

func (f *fixtureProvider) QuarterlyStatements(ctx context.Context, ticker string) ([]json.RawMessage, error) {
	return f.fixture.Statements, nil
}

var _ fetcher.Provider = (*fixtureProvider)(nil)
