package fetcher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Memo caches successful provider responses for the duration of one
// interaction cycle. Price entries are keyed by (ticker, session date)
// and statement entries by ticker, so repeated chart and export requests
// for the same view never repeat a network call. Failures are not
// cached; the next call retries. Reset is called at the start of each
// new interaction.
type Memo struct {
	provider Provider

	mu         sync.Mutex
	prices     map[string]priceEntry
	statements map[string][]json.RawMessage
}

type priceEntry struct {
	price decimal.Decimal
	asOf  time.Time
}

// NewMemo wraps a provider with a request-scoped cache.
func NewMemo(provider Provider) *Memo {
	return &Memo{
		provider:   provider,
		prices:     make(map[string]priceEntry),
		statements: make(map[string][]json.RawMessage),
	}
}

// Name reports the underlying provider's name.
func (m *Memo) Name() string { return m.provider.Name() }

// LastClose returns the memoised close price for the current session.
func (m *Memo) LastClose(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error) {
	key := NormalizeTicker(ticker) + "|" + lastWeekday(time.Now().UTC()).Format("2006-01-02")

	m.mu.Lock()
	entry, ok := m.prices[key]
	m.mu.Unlock()
	if ok {
		return entry.price, entry.asOf, nil
	}

	price, asOf, err := m.provider.LastClose(ctx, ticker)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, err
	}

	m.mu.Lock()
	m.prices[key] = priceEntry{price: price, asOf: asOf}
	m.mu.Unlock()

	return price, asOf, nil
}

// QuarterlyStatements returns the memoised statement list.
func (m *Memo) QuarterlyStatements(ctx context.Context, ticker string) ([]json.RawMessage, error) {
	key := NormalizeTicker(ticker)

	m.mu.Lock()
	cached, ok := m.statements[key]
	m.mu.Unlock()
	if ok {
		return cached, nil
	}

	statements, err := m.provider.QuarterlyStatements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.statements[key] = statements
	m.mu.Unlock()

	return statements, nil
}

// Reset discards all cached entries.
func (m *Memo) Reset() {
	m.mu.Lock()
	m.prices = make(map[string]priceEntry)
	m.statements = make(map[string][]json.RawMessage)
	m.mu.Unlock()
}

var _ Provider = (*Memo)(nil)
