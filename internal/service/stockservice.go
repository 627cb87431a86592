// Package service composes acquisition, cache, normalisation and analysis
// into the operations the HTTP layer exposes.
package service

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"stockdata-api/internal/cache"
	"stockdata-api/pkg/provider"
	"stockdata-api/pkg/series"
)

// Cache namespaces. Clearing a namespace via the cache admin endpoint uses
// these same strings.
const (
	HistoryNamespace = "history"
	ListNamespace    = "stock_list"
)

// Acquirer is the slice of the acquisition layer the stock service needs.
type Acquirer interface {
	FetchList(ctx context.Context, market string) []provider.Listing
	FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) []series.RawRecord
}

// StockService serves listings and historical series, reading through the
// cache and falling back to the acquisition layer on miss. Total acquisition
// failure surfaces as an empty result, never an error.
type StockService struct {
	acq   Acquirer
	cache *cache.Manager
}

// NewStockService wires the service.
func NewStockService(acq Acquirer, cacheManager *cache.Manager) *StockService {
	return &StockService{acq: acq, cache: cacheManager}
}

// GetStockList returns the instrument listing for a market. forceRefresh
// bypasses the cache read but a fresh result is still written back.
func (s *StockService) GetStockList(ctx context.Context, market string, forceRefresh bool) []provider.Listing {
	if !forceRefresh {
		var cached []provider.Listing
		if s.cache.GetValue(ctx, &cached, ListNamespace, market) {
			return cached
		}
	}

	listings := s.acq.FetchList(ctx, market)
	if len(listings) == 0 {
		logx.WithContext(ctx).Infof("stock list for market %s is unavailable from every provider", market)
		return []provider.Listing{}
	}

	s.cache.SetWithTTL(ctx, listings, s.cache.TTL().List, ListNamespace, market)
	return listings
}

// SearchStocks performs a case-insensitive substring match over symbol and
// name of the market's listing.
func (s *StockService) SearchStocks(ctx context.Context, keyword, market string) []provider.Listing {
	listings := s.GetStockList(ctx, market, false)
	kw := strings.ToLower(keyword)
	matched := make([]provider.Listing, 0)
	for _, listing := range listings {
		if strings.Contains(strings.ToLower(listing.Symbol), kw) ||
			strings.Contains(strings.ToLower(listing.Name), kw) {
			matched = append(matched, listing)
		}
	}
	return matched
}

// GetStockHistory returns the canonical daily series for a symbol. On a
// cache miss it fetches raw records, normalises them, filters to the range,
// forward-fills missing prices, appends basic metrics and writes the result
// back under the history TTL. Empty raw data short-circuits before the
// normaliser and the cache are touched.
//
// There is deliberately no per-key lock here: concurrent misses on the same
// key each re-fetch and each write the cache.
func (s *StockService) GetStockHistory(ctx context.Context, symbol, startDate, endDate, market string, forceRefresh bool) series.Series {
	if !forceRefresh {
		var cached series.Series
		if s.cache.GetValue(ctx, &cached, HistoryNamespace, market, symbol, startDate, endDate) {
			return cached
		}
	}

	raw := s.acq.FetchHistory(ctx, market, symbol, startDate, endDate)
	if len(raw) == 0 {
		return series.Series{}
	}

	ser := series.Normalize(raw)
	ser = series.FilterDateRange(ser, startDate, endDate)
	ser = series.FillMissing(ser)
	ser = series.AddBasicMetrics(ser)

	s.cache.SetWithTTL(ctx, ser, s.cache.TTL().History, HistoryNamespace, market, symbol, startDate, endDate)
	return ser
}
