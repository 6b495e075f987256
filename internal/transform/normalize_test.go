package transform

import (
	"encoding/json"
	"testing"
)

func rawMessages(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, doc := range docs {
		out[i] = json.RawMessage(doc)
	}
	return out
}

func TestNormalizePolygonReports(t *testing.T) {
	reports := rawMessages(
		`{
			"fiscal_period": "Q4",
			"fiscal_year": 2024,
			"financials": {"income_statement": {
				"revenues": {"value": 125000000},
				"income_loss_from_continuing_operations_before_tax": {"value": 25000000},
				"diluted_earnings_per_share": {"value": 2.5}
			}}
		}`,
		`{"fiscal_period": "FY", "fiscal_year": 2024, "financials": {"income_statement": {}}}`,
		`{"fiscal_period": "Q3", "fiscal_year": "2024", "financials": {"income_statement": {
			"revenues": {"value": 120000000},
			"income_loss_from_continuing_operations_before_tax": {"value": 20000000},
			"diluted_earnings_per_share": {"value": 2.1}
		}}}`,
	)

	records, skipped := NormalizePolygonReports(reports)
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0 (FY rows are filtered, not skipped)", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Key() != "2024-Q4" {
		t.Fatalf("first record = %s", records[0].Key())
	}
	if records[1].FiscalYear != 2024 {
		t.Fatalf("quoted fiscal_year not parsed: %d", records[1].FiscalYear)
	}
	if records[0].DilutedEPS.StringFixed(1) != "2.5" {
		t.Fatalf("diluted EPS = %s", records[0].DilutedEPS)
	}
}

func TestNormalizePolygonReportsSkipsMalformed(t *testing.T) {
	reports := rawMessages(
		`not json`,
		`{"fiscal_period": "Q1", "fiscal_year": 2024, "financials": {"income_statement": {
			"revenues": {"value": 100}
		}}}`,
		`{"fiscal_period": "Q2", "fiscal_year": null, "financials": {"income_statement": {
			"revenues": {"value": 100},
			"income_loss_from_continuing_operations_before_tax": {"value": 10},
			"diluted_earnings_per_share": {"value": 1.0}
		}}}`,
	)

	records, skipped := NormalizePolygonReports(reports)
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
	if skipped != 3 {
		t.Fatalf("skipped = %d, want 3", skipped)
	}
}

func TestNormalizeFMPStatements(t *testing.T) {
	statements := rawMessages(
		`{"calendarYear": "2024", "period": "Q4", "revenue": 125000000, "incomeBeforeTax": 25000000, "epsdiluted": 2.5}`,
		`{"calendarYear": 2023, "period": "Q4", "revenue": 100000000, "incomeBeforeTax": 18000000, "epsdiluted": 2.0}`,
		`{"calendarYear": "2024", "period": "Q4", "revenue": null, "incomeBeforeTax": 1, "epsdiluted": 1}`,
	)

	records, skipped := NormalizeFMPStatements(statements)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if records[0].Key() != "2024-Q4" || records[1].Key() != "2023-Q4" {
		t.Fatalf("keys = %s, %s", records[0].Key(), records[1].Key())
	}
}

func TestParseYear(t *testing.T) {
	cases := []struct {
		raw  string
		year int
		ok   bool
	}{
		{`2024`, 2024, true},
		{`"2024"`, 2024, true},
		{`null`, 0, false},
		{`"abc"`, 0, false},
		{`-3`, 0, false},
	}
	for _, tc := range cases {
		year, ok := parseYear(json.RawMessage(tc.raw))
		if year != tc.year || ok != tc.ok {
			t.Fatalf("parseYear(%s) = %d, %v", tc.raw, year, ok)
		}
	}
}
