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

const polygonDateLayout = "2006-01-02"

// PolygonOptions parameterise the Polygon.io client.
type PolygonOptions struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	UserAgent      string
	StatementLimit int
}

// Polygon fetches closing prices and quarterly financial reports from
// Polygon.io.
type Polygon struct {
	opts    PolygonOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewPolygon constructs a Polygon.io client.
func NewPolygon(opts PolygonOptions, logger zerolog.Logger) *Polygon {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.polygon.io"
	}

	if opts.StatementLimit <= 0 {
		opts.StatementLimit = 50
	}

	return &Polygon{
		opts:    opts,
		logger:  logger.With().Str("component", "polygon_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Name identifies the provider.
func (p *Polygon) Name() string { return "polygon" }

// LastClose retrieves the daily close for the most recent weekday.
func (p *Polygon) LastClose(ctx context.Context, ticker string) (decimal.Decimal, time.Time, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return decimal.Decimal{}, time.Time{}, errors.New("ticker required")
	}
	if p.opts.APIKey == "" {
		return decimal.Decimal{}, time.Time{}, errors.New("polygon api key not configured")
	}

	day := lastWeekday(time.Now().UTC())
	endpoint := fmt.Sprintf("%s/v1/open-close/%s/%s", p.baseURL, url.PathEscape(ticker), day.Format(polygonDateLayout))

	payload, err := p.get(ctx, endpoint, url.Values{})
	if err != nil {
		return decimal.Decimal{}, time.Time{}, err
	}

	var res struct {
		Close *float64 `json:"close"`
		From  string   `json:"from"`
	}
	if err := json.Unmarshal(payload, &res); err != nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("decode open-close response: %w", err)
	}
	if res.Close == nil {
		return decimal.Decimal{}, time.Time{}, errors.New("open-close response missing close price")
	}

	asOf := day
	if parsed, err := time.Parse(polygonDateLayout, res.From); err == nil {
		asOf = parsed
	}

	return decimal.NewFromFloat(*res.Close), asOf, nil
}

// QuarterlyStatements retrieves historical financial reports. A payload
// without a results field means the ticker has no filings; callers see
// an empty slice, not an error.
func (p *Polygon) QuarterlyStatements(ctx context.Context, ticker string) ([]json.RawMessage, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, errors.New("ticker required")
	}
	if p.opts.APIKey == "" {
		return nil, errors.New("polygon api key not configured")
	}

	query := url.Values{}
	query.Set("ticker", ticker)
	query.Set("limit", strconv.Itoa(p.opts.StatementLimit))

	payload, err := p.get(ctx, p.baseURL+"/vX/reference/financials", query)
	if err != nil {
		return nil, err
	}

	var res struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("decode financials response: %w", err)
	}

	return res.Results, nil
}

func (p *Polygon) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	query.Set("apiKey", p.opts.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(p.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "stockreport/1.0")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parsePolygonError(resp.StatusCode, payload)
	}

	return payload, nil
}

func parsePolygonError(status int, payload []byte) error {
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		switch {
		case apiErr.Error != "":
			message = apiErr.Error
		case apiErr.Message != "":
			message = apiErr.Message
		}
	}
	if message == "" && len(payload) > 0 {
		message = strings.TrimSpace(string(payload))
	}
	return &UpstreamError{Provider: "polygon", Status: status, Message: message}
}

var _ Provider = (*Polygon)(nil)
