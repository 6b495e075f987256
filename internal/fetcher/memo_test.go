package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type countingProvider struct {
	priceCalls     int
	statementCalls int
	fail           bool
}

func (c *countingProvider) Name() string { return "counting" }

func (c *countingProvider) LastClose(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error) {
	c.priceCalls++
	if c.fail {
		return decimal.Decimal{}, time.Time{}, errors.New("boom")
	}
	return decimal.NewFromInt(100), time.Now(), nil
}

func (c *countingProvider) QuarterlyStatements(ctx context.Context, ticker string) ([]json.RawMessage, error) {
	c.statementCalls++
	if c.fail {
		return nil, errors.New("boom")
	}
	return []json.RawMessage{json.RawMessage(`{}`)}, nil
}

var _ Provider = (*countingProvider)(nil)

func TestMemoCachesSuccesses(t *testing.T) {
	inner := &countingProvider{}
	memo := NewMemo(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := memo.LastClose(ctx, "AAPL"); err != nil {
			t.Fatalf("LastClose: %v", err)
		}
		if _, err := memo.QuarterlyStatements(ctx, "aapl"); err != nil {
			t.Fatalf("QuarterlyStatements: %v", err)
		}
	}

	if inner.priceCalls != 1 {
		t.Fatalf("price calls = %d, want 1", inner.priceCalls)
	}
	if inner.statementCalls != 1 {
		t.Fatalf("statement calls = %d, want 1 (ticker case must not matter)", inner.statementCalls)
	}
}

func TestMemoDoesNotCacheFailures(t *testing.T) {
	inner := &countingProvider{fail: true}
	memo := NewMemo(inner)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := memo.QuarterlyStatements(ctx, "AAPL"); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.statementCalls != 2 {
		t.Fatalf("statement calls = %d, want 2 (failures retry)", inner.statementCalls)
	}
}

func TestMemoReset(t *testing.T) {
	inner := &countingProvider{}
	memo := NewMemo(inner)
	ctx := context.Background()

	if _, err := memo.QuarterlyStatements(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	memo.Reset()
	if _, err := memo.QuarterlyStatements(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}

	if inner.statementCalls != 2 {
		t.Fatalf("statement calls = %d, want 2 after reset", inner.statementCalls)
	}
}

func TestMemoName(t *testing.T) {
	memo := NewMemo(&countingProvider{})
	if memo.Name() != "counting" {
		t.Fatalf("name = %s", memo.Name())
	}
}
