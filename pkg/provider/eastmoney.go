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
	Register("eastmoney", func(name string, cfg *ProviderConfig) (Provider, error) {
		opts := []EastmoneyOption{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithEastmoneyBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithEastmoneyTimeout(cfg.Timeout))
		}
		return NewEastmoney(name, opts...), nil
	})
}

const (
	defaultEastmoneyHistURL = "https://push2his.eastmoney.com"
	defaultEastmoneyListURL = "https://push2.eastmoney.com"
	defaultEastmoneyTimeout = 10 * time.Second

	// fields2 column order requested from the kline endpoint:
	// date, open, close, high, low, volume, amount, amplitude, pct_chg,
	// change, turnover.
	eastmoneyKlineFields = "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61"
)

// Eastmoney serves CN and HK daily bars plus the CN instrument listing via
// the public push2 quote endpoints.
type Eastmoney struct {
	name       string
	histURL    string
	listURL    string
	httpClient *http.Client
}

var _ Provider = (*Eastmoney)(nil)

// EastmoneyOption configures the Eastmoney client.
type EastmoneyOption func(*Eastmoney)

// WithEastmoneyBaseURL points both endpoints at one base, used by tests.
func WithEastmoneyBaseURL(base string) EastmoneyOption {
	return func(c *Eastmoney) {
		if base != "" {
			c.histURL = base
			c.listURL = base
		}
	}
}

// WithEastmoneyTimeout overrides the HTTP timeout.
func WithEastmoneyTimeout(timeout time.Duration) EastmoneyOption {
	return func(c *Eastmoney) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewEastmoney constructs the client.
func NewEastmoney(name string, opts ...EastmoneyOption) *Eastmoney {
	c := &Eastmoney{
		name:       name,
		histURL:    defaultEastmoneyHistURL,
		listURL:    defaultEastmoneyListURL,
		httpClient: &http.Client{Timeout: defaultEastmoneyTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Eastmoney) Name() string { return c.name }

type eastmoneyKlineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

type eastmoneyListResponse struct {
	Data *struct {
		Total int `json:"total"`
		Diff  []struct {
			Symbol string `json:"f12"`
			Name   string `json:"f14"`
		} `json:"diff"`
	} `json:"data"`
}

// FetchHistory fetches forward-adjusted daily klines.
func (c *Eastmoney) FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) ([]series.RawRecord, error) {
	secID, err := eastmoneySecID(market, symbol)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("secid", secID)
	query.Set("klt", "101") // daily bars
	query.Set("fqt", "1")   // forward adjusted
	query.Set("beg", compactDate(startDate))
	query.Set("end", compactDate(endDate))
	query.Set("fields1", "f1,f2,f3,f4,f5,f6")
	query.Set("fields2", eastmoneyKlineFields)

	var resp eastmoneyKlineResponse
	if err := c.getJSON(ctx, c.histURL+"/api/qt/stock/kline/get?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}

	records := make([]series.RawRecord, 0, len(resp.Data.Klines))
	for _, line := range resp.Data.Klines {
		fields := strings.Split(line, ",")
		if len(fields) < 9 {
			continue
		}
		records = append(records, series.RawRecord{
			Date:   fields[0],
			Open:   parseFloat(fields[1]),
			Close:  parseFloat(fields[2]),
			High:   parseFloat(fields[3]),
			Low:    parseFloat(fields[4]),
			Volume: parseFloat(fields[5]),
			Amount: parseFloat(fields[6]),
			PctChg: parseFloat(fields[8]),
		})
	}
	return records, nil
}

// FetchList fetches the CN A-share listing.
func (c *Eastmoney) FetchList(ctx context.Context, market string) ([]Listing, error) {
	if market != MarketCN {
		return nil, fmt.Errorf("eastmoney: list for market %s: %w", market, ErrUnsupported)
	}

	query := url.Values{}
	query.Set("pn", "1")
	query.Set("pz", "10000")
	query.Set("fs", "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23")
	query.Set("fields", "f12,f14")

	var resp eastmoneyListResponse
	if err := c.getJSON(ctx, c.listURL+"/api/qt/clist/get?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}

	listings := make([]Listing, 0, len(resp.Data.Diff))
	for _, row := range resp.Data.Diff {
		if row.Symbol == "" {
			continue
		}
		listings = append(listings, Listing{
			Symbol: row.Symbol,
			Name:   row.Name,
			Market: MarketCN,
			Source: c.name,
		})
	}
	return listings, nil
}

func (c *Eastmoney) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("eastmoney: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("eastmoney: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("eastmoney: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("eastmoney: decode response: %w", err)
	}
	return nil
}

// eastmoneySecID maps a market/symbol pair to the push2 security id.
func eastmoneySecID(market, symbol string) (string, error) {
	switch market {
	case MarketCN:
		if strings.HasPrefix(symbol, "6") {
			return "1." + symbol, nil
		}
		return "0." + symbol, nil
	case MarketHK:
		return "116." + symbol, nil
	default:
		return "", fmt.Errorf("eastmoney: history for market %s: %w", market, ErrUnsupported)
	}
}
