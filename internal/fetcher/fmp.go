package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FMPOptions parameterise the Financial Modeling Prep client.
type FMPOptions struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	UserAgent      string
	StatementLimit int
}

// FMP fetches quotes and quarterly income statements from Financial
// Modeling Prep.
type FMP struct {
	opts    FMPOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewFMP constructs a Financial Modeling Prep client.
func NewFMP(opts FMPOptions, logger zerolog.Logger) *FMP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com"
	}

	if opts.StatementLimit <= 0 {
		opts.StatementLimit = 50
	}

	return &FMP{
		opts:    opts,
		logger:  logger.With().Str("component", "fmp_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Name identifies the provider.
func (f *FMP) Name() string { return "fmp" }

// LastClose retrieves the latest quoted price via quote-short.
func (f *FMP) LastClose(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return decimal.Decimal{}, time.Time{}, errors.New("ticker required")
	}
	if f.opts.APIKey == "" {
		return decimal.Decimal{}, time.Time{}, errors.New("fmp api key not configured")
	}

	endpoint := fmt.Sprintf("%s/api/v3/quote-short/%s", f.baseURL, url.PathEscape(ticker))
	payload, err := f.get(ctx, endpoint, url.Values{})
	if err != nil {
		return decimal.Decimal{}, time.Time{}, err
	}

	var quotes []struct {
		Symbol string   `json:"symbol"`
		Price  *float64 `json:"price"`
	}
	if err := json.Unmarshal(payload, &quotes); err != nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("decode quote response: %w", err)
	}
	if len(quotes) == 0 || quotes[0].Price == nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("no quote returned for %s", ticker)
	}

	return decimal.NewFromFloat(*quotes[0].Price), time.Now().UTC(), nil
}

// QuarterlyStatements retrieves quarterly income statements. The
// endpoint returns a bare JSON array; an empty array means no data.
func (f *FMP) QuarterlyStatements(ctx context.Context, ticker string) ([]json.RawMessage, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, errors.New("ticker required")
	}
	if f.opts.APIKey == "" {
		return nil, errors.New("fmp api key not configured")
	}

	query := url.Values{}
	query.Set("period", "quarter")
	query.Set("limit", strconv.Itoa(f.opts.StatementLimit))

	endpoint := fmt.Sprintf("%s/api/v3/income-statement/%s", f.baseURL, url.PathEscape(ticker))
	payload, err := f.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	var statements []json.RawMessage
	if err := json.Unmarshal(payload, &statements); err != nil {
		return nil, fmt.Errorf("decode income-statement response: %w", err)
	}

	return statements, nil
}

func (f *FMP) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	query.Set("apikey", f.opts.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(f.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "stockreport/1.0")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseFMPError(resp.StatusCode, payload)
	}

	return payload, nil
}

func parseFMPError(status int, payload []byte) error {
	var apiErr struct {
		ErrorMessage string `json:"Error Message"`
		Message      string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		switch {
		case apiErr.ErrorMessage != "":
			message = apiErr.ErrorMessage
		case apiErr.Message != "":
			message = apiErr.Message
		}
	}
	if message == "" && len(payload) > 0 {
		message = strings.TrimSpace(string(payload))
	}
	return &UpstreamError{Provider: "fmp", Status: status, Message: message}
}

var _ Provider = (*FMP)(nil)
