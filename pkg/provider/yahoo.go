package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stockdata-api/pkg/series"
)

func init() {
	Register("yahoo", func(name string, cfg *ProviderConfig) (Provider, error) {
		opts := []YahooOption{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithYahooBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithYahooTimeout(cfg.Timeout))
		}
		return NewYahoo(name, opts...), nil
	})
}

const (
	defaultYahooURL     = "https://query1.finance.yahoo.com"
	defaultYahooTimeout = 10 * time.Second
)

// Yahoo serves US daily bars via the chart endpoint. There is no listing
// endpoint: US listings are not batch-fetchable here.
type Yahoo struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*Yahoo)(nil)

// YahooOption configures the Yahoo client.
type YahooOption func(*Yahoo)

// WithYahooBaseURL overrides the API endpoint, used by tests.
func WithYahooBaseURL(base string) YahooOption {
	return func(c *Yahoo) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithYahooTimeout overrides the HTTP timeout.
func WithYahooTimeout(timeout time.Duration) YahooOption {
	return func(c *Yahoo) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewYahoo constructs the client.
func NewYahoo(name string, opts ...YahooOption) *Yahoo {
	c := &Yahoo{
		name:       name,
		baseURL:    defaultYahooURL,
		httpClient: &http.Client{Timeout: defaultYahooTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Yahoo) Name() string { return c.name }

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory fetches daily bars from the chart endpoint.
func (c *Yahoo) FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) ([]series.RawRecord, error) {
	if market != MarketUS {
		return nil, fmt.Errorf("yahoo: history for market %s: %w", market, ErrUnsupported)
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("yahoo: invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("yahoo: invalid end date %q: %w", endDate, err)
	}

	query := url.Values{}
	query.Set("period1", fmt.Sprintf("%d", start.Unix()))
	// The range is inclusive of the end date's trading session.
	query.Set("period2", fmt.Sprintf("%d", end.Add(24*time.Hour).Unix()))
	query.Set("interval", "1d")

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo: request: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: unexpected status %d", httpResp.StatusCode)
	}

	var resp yahooChartResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("yahoo: decode response: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: api error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	records := make([]series.RawRecord, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		records = append(records, series.RawRecord{
			Date:   time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Open:   deref(quote.Open, i),
			High:   deref(quote.High, i),
			Low:    deref(quote.Low, i),
			Close:  deref(quote.Close, i),
			Volume: deref(quote.Volume, i),
		})
	}
	return records, nil
}

// FetchList is not served by this upstream.
func (c *Yahoo) FetchList(ctx context.Context, market string) ([]Listing, error) {
	return nil, fmt.Errorf("yahoo: list: %w", ErrUnsupported)
}

func deref(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}
