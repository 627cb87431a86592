package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stockdata-api/pkg/series"
)

func init() {
	Register("tushare", func(name string, cfg *ProviderConfig) (Provider, error) {
		opts := []TushareOption{WithTushareToken(cfg.Token)}
		if cfg.BaseURL != "" {
			opts = append(opts, WithTushareBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTushareTimeout(cfg.Timeout))
		}
		return NewTushare(name, opts...), nil
	})
}

const (
	defaultTushareURL     = "http://api.tushare.pro"
	defaultTushareTimeout = 15 * time.Second
)

// Tushare serves CN daily bars and the CN listing via the tushare pro JSON
// API. Calls fail with ErrMissingToken when no credential is configured; the
// failover loop treats that like any other provider failure.
type Tushare struct {
	name       string
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Provider = (*Tushare)(nil)

// TushareOption configures the Tushare client.
type TushareOption func(*Tushare)

// WithTushareToken sets the API credential.
func WithTushareToken(token string) TushareOption {
	return func(c *Tushare) { c.token = token }
}

// WithTushareBaseURL overrides the API endpoint, used by tests.
func WithTushareBaseURL(base string) TushareOption {
	return func(c *Tushare) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithTushareTimeout overrides the HTTP timeout.
func WithTushareTimeout(timeout time.Duration) TushareOption {
	return func(c *Tushare) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewTushare constructs the client.
func NewTushare(name string, opts ...TushareOption) *Tushare {
	c := &Tushare{
		name:       name,
		baseURL:    defaultTushareURL,
		httpClient: &http.Client{Timeout: defaultTushareTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Tushare) Name() string { return c.name }

type tushareRequest struct {
	APIName string         `json:"api_name"`
	Token   string         `json:"token"`
	Params  map[string]any `json:"params"`
	Fields  string         `json:"fields,omitempty"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		Fields []string `json:"fields"`
		Items  [][]any  `json:"items"`
	} `json:"data"`
}

// FetchHistory fetches daily bars via the "daily" api.
func (c *Tushare) FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) ([]series.RawRecord, error) {
	if market != MarketCN {
		return nil, fmt.Errorf("tushare: history for market %s: %w", market, ErrUnsupported)
	}
	resp, err := c.call(ctx, tushareRequest{
		APIName: "daily",
		Params: map[string]any{
			"ts_code":    symbol,
			"start_date": compactDate(startDate),
			"end_date":   compactDate(endDate),
		},
	})
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}

	idx := fieldIndex(resp.Data.Fields)
	records := make([]series.RawRecord, 0, len(resp.Data.Items))
	for _, row := range resp.Data.Items {
		records = append(records, series.RawRecord{
			Date:   stringAt(row, idx, "trade_date"),
			Open:   floatAt(row, idx, "open"),
			High:   floatAt(row, idx, "high"),
			Low:    floatAt(row, idx, "low"),
			Close:  floatAt(row, idx, "close"),
			Volume: floatAt(row, idx, "vol"),
			Amount: floatAt(row, idx, "amount"),
			PctChg: floatAt(row, idx, "pct_chg"),
		})
	}
	return records, nil
}

// FetchList fetches listed CN instruments via the "stock_basic" api.
func (c *Tushare) FetchList(ctx context.Context, market string) ([]Listing, error) {
	if market != MarketCN {
		return nil, fmt.Errorf("tushare: list for market %s: %w", market, ErrUnsupported)
	}
	resp, err := c.call(ctx, tushareRequest{
		APIName: "stock_basic",
		Params:  map[string]any{"list_status": "L"},
		Fields:  "ts_code,name,market",
	})
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}

	idx := fieldIndex(resp.Data.Fields)
	listings := make([]Listing, 0, len(resp.Data.Items))
	for _, row := range resp.Data.Items {
		symbol := stringAt(row, idx, "ts_code")
		if symbol == "" {
			continue
		}
		listings = append(listings, Listing{
			Symbol: symbol,
			Name:   stringAt(row, idx, "name"),
			Market: MarketCN,
			Source: c.name,
		})
	}
	return listings, nil
}

func (c *Tushare) call(ctx context.Context, req tushareRequest) (*tushareResponse, error) {
	if c.token == "" {
		return nil, fmt.Errorf("tushare: %w", ErrMissingToken)
	}
	req.Token = c.token

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("tushare: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tushare: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tushare: request: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tushare: unexpected status %d", httpResp.StatusCode)
	}

	var resp tushareResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("tushare: decode response: %w", err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("tushare: api error %d: %s", resp.Code, resp.Msg)
	}
	return &resp, nil
}

func fieldIndex(fields []string) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	return idx
}

func stringAt(row []any, idx map[string]int, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

func floatAt(row []any, idx map[string]int, field string) float64 {
	i, ok := idx[field]
	if !ok || i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case string:
		return parseFloat(v)
	default:
		return 0
	}
}
