package provider

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"stockdata-api/pkg/series"
)

// Acquisition queries a market's candidate providers in priority order: the
// configured default first, then the market's fallback list with duplicates
// removed. The first call that returns no error and a non-empty result wins.
// A provider that errors is logged and skipped, never retried; a provider
// that returns empty is skipped the same way. Total failure yields an empty
// result, indistinguishable by design from "no data exists for this range".
type Acquisition struct {
	providers map[string]Provider
	fallback  map[string][]string
	defaultID string
}

// NewAcquisition wires the failover layer from loaded config and built
// providers.
func NewAcquisition(cfg *Config, providers map[string]Provider) *Acquisition {
	return &Acquisition{
		providers: providers,
		fallback:  cfg.Fallback,
		defaultID: cfg.Default,
	}
}

// candidates returns the provider order for a market: default first when it
// serves the market, then the fallback order, deduplicated. Unknown or
// disabled ids are dropped.
func (a *Acquisition) candidates(market string) []Provider {
	ids := a.fallback[market]
	ordered := make([]Provider, 0, len(ids)+1)
	seen := make(map[string]bool, len(ids)+1)

	appendID := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		if p, ok := a.providers[id]; ok {
			ordered = append(ordered, p)
		}
	}

	if containsID(ids, a.defaultID) {
		appendID(a.defaultID)
	}
	for _, id := range ids {
		appendID(id)
	}
	return ordered
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// FetchList returns the instrument listing for a market, or empty when every
// candidate fails or has no data. It never returns an error.
func (a *Acquisition) FetchList(ctx context.Context, market string) []Listing {
	for _, p := range a.candidates(market) {
		result, err := p.FetchList(ctx, market)
		if err != nil {
			logx.WithContext(ctx).Errorf("acquisition: list %s via %s: %v", market, p.Name(), err)
			continue
		}
		if len(result) == 0 {
			continue
		}
		logx.WithContext(ctx).Infof("acquisition: list %s via %s: %d listings", market, p.Name(), len(result))
		return result
	}
	return []Listing{}
}

// FetchHistory returns raw daily records for a symbol, or empty when every
// candidate fails or has no data. It never returns an error.
func (a *Acquisition) FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) []series.RawRecord {
	for _, p := range a.candidates(market) {
		result, err := p.FetchHistory(ctx, market, symbol, startDate, endDate)
		if err != nil {
			logx.WithContext(ctx).Errorf("acquisition: history %s/%s via %s: %v", market, symbol, p.Name(), err)
			continue
		}
		if len(result) == 0 {
			continue
		}
		return result
	}
	return []series.RawRecord{}
}
