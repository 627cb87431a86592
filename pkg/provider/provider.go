// Package provider acquires raw market data from external upstreams. Each
// provider is a pure translation layer: it maps its upstream's wire format
// into the canonical raw-record shape and nothing else. Failover across
// providers lives in Acquisition.
package provider

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"stockdata-api/pkg/series"
)

// Market codes.
const (
	MarketCN = "CN"
	MarketHK = "HK"
	MarketUS = "US"
)

// Listing is one tradeable instrument as reported by a provider.
type Listing struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Market string `json:"market"`
	Source string `json:"source"`
}

// Provider is a single upstream data source.
type Provider interface {
	// Name returns the provider id used in logs and listing sources.
	Name() string
	// FetchList returns the instrument listing for a market.
	FetchList(ctx context.Context, market string) ([]Listing, error)
	// FetchHistory returns daily raw records for a symbol between two
	// inclusive ISO dates.
	FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) ([]series.RawRecord, error)
}

// ErrUnsupported is returned by providers for markets or operations they do
// not serve; the failover loop skips them like any other failure.
var ErrUnsupported = errors.New("provider: operation not supported")

// ErrMissingToken indicates a provider needs a credential that is not
// configured.
var ErrMissingToken = errors.New("provider: api token not configured")

// parseFloat coerces an upstream numeric string, returning 0 when it is
// empty or unparseable. Malformed values are data, not errors.
func parseFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}
