package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockdata-api/pkg/series"
)

func init() {
	Register("sina", func(name string, cfg *ProviderConfig) (Provider, error) {
		opts := []SinaOption{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithSinaBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithSinaTimeout(cfg.Timeout))
		}
		return NewSina(name, opts...), nil
	})
}

const (
	defaultSinaURL     = "https://money.finance.sina.com.cn"
	defaultSinaTimeout = 10 * time.Second
	sinaKlinePath      = "/quotes_service/api/json_v2.php/CN_MarketData.getKLineData"
)

// Sina is the last CN fallback: daily bars only, no listing endpoint. The
// upstream returns a fixed-length tail of history, so the requested range is
// applied here during translation.
type Sina struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*Sina)(nil)

// SinaOption configures the Sina client.
type SinaOption func(*Sina)

// WithSinaBaseURL overrides the API endpoint, used by tests.
func WithSinaBaseURL(base string) SinaOption {
	return func(c *Sina) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithSinaTimeout overrides the HTTP timeout.
func WithSinaTimeout(timeout time.Duration) SinaOption {
	return func(c *Sina) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewSina constructs the client.
func NewSina(name string, opts ...SinaOption) *Sina {
	c := &Sina{
		name:       name,
		baseURL:    defaultSinaURL,
		httpClient: &http.Client{Timeout: defaultSinaTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Sina) Name() string { return c.name }

type sinaBar struct {
	Day    string `json:"day"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// FetchHistory fetches daily bars and trims them to the requested range.
func (c *Sina) FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) ([]series.RawRecord, error) {
	if market != MarketCN {
		return nil, fmt.Errorf("sina: history for market %s: %w", market, ErrUnsupported)
	}

	query := url.Values{}
	query.Set("symbol", sinaSymbol(symbol))
	query.Set("scale", "240") // daily bars
	query.Set("ma", "no")
	query.Set("datalen", "1023")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+sinaKlinePath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("sina: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sina: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sina: unexpected status %d", resp.StatusCode)
	}

	var bars []sinaBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return nil, fmt.Errorf("sina: decode response: %w", err)
	}

	records := make([]series.RawRecord, 0, len(bars))
	for _, bar := range bars {
		if startDate != "" && bar.Day < startDate {
			continue
		}
		if endDate != "" && bar.Day > endDate {
			continue
		}
		records = append(records, series.RawRecord{
			Date:   bar.Day,
			Open:   parseFloat(bar.Open),
			High:   parseFloat(bar.High),
			Low:    parseFloat(bar.Low),
			Close:  parseFloat(bar.Close),
			Volume: parseFloat(bar.Volume),
		})
	}
	return records, nil
}

// FetchList is not served by this upstream.
func (c *Sina) FetchList(ctx context.Context, market string) ([]Listing, error) {
	return nil, fmt.Errorf("sina: list: %w", ErrUnsupported)
}

func sinaSymbol(symbol string) string {
	if strings.HasPrefix(symbol, "6") {
		return "sh" + symbol
	}
	return "sz" + symbol
}
