package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFMPLastClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/quote-short/MSFT" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "secret" {
			t.Errorf("apikey not forwarded: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"symbol": "MSFT", "price": 415.3}]`))
	}))
	defer srv.Close()

	f := NewFMP(FMPOptions{BaseURL: srv.URL, APIKey: "secret"}, noopLogger())

	price, asOf, err := f.LastClose(context.Background(), "msft")
	if err != nil {
		t.Fatalf("LastClose: %v", err)
	}
	if !price.Equal(decimal.NewFromFloat(415.3)) {
		t.Fatalf("price = %s", price)
	}
	if asOf.IsZero() {
		t.Fatal("asOf should be set")
	}
}

func TestFMPLastCloseEmptyQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewFMP(FMPOptions{BaseURL: srv.URL, APIKey: "secret"}, noopLogger())
	if _, _, err := f.LastClose(context.Background(), "ZZZZ"); err == nil {
		t.Fatal("empty quote array should be an error")
	}
}

func TestFMPQuarterlyStatements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/income-statement/MSFT" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("period") != "quarter" {
			t.Errorf("period = %s", r.URL.Query().Get("period"))
		}
		_, _ = w.Write([]byte(`[{"period": "Q4"}, {"period": "Q3"}]`))
	}))
	defer srv.Close()

	f := NewFMP(FMPOptions{BaseURL: srv.URL, APIKey: "secret"}, noopLogger())

	statements, err := f.QuarterlyStatements(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("QuarterlyStatements: %v", err)
	}
	if len(statements) != 2 {
		t.Fatalf("statements = %d, want 2", len(statements))
	}
}

func TestFMPUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"Error Message": "Invalid API KEY"}`))
	}))
	defer srv.Close()

	f := NewFMP(FMPOptions{BaseURL: srv.URL, APIKey: "bad"}, noopLogger())

	_, err := f.QuarterlyStatements(context.Background(), "MSFT")
	if !IsUpstream(err) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if err.Error() != "fmp api error (401): Invalid API KEY" {
		t.Fatalf("message = %q", err.Error())
	}
}
