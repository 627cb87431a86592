package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"stockdata-api/pkg/series"
)

type stubProvider struct {
	name    string
	list    []Listing
	listErr error
	hist    []series.RawRecord
	histErr error

	callLog *[]string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchList(ctx context.Context, market string) ([]Listing, error) {
	if s.callLog != nil {
		*s.callLog = append(*s.callLog, s.name)
	}
	return s.list, s.listErr
}

func (s *stubProvider) FetchHistory(ctx context.Context, market, symbol, startDate, endDate string) ([]series.RawRecord, error) {
	if s.callLog != nil {
		*s.callLog = append(*s.callLog, s.name)
	}
	return s.hist, s.histErr
}

func acquisitionWith(defaultID string, fallback map[string][]string, providers ...*stubProvider) *Acquisition {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.name] = p
	}
	return NewAcquisition(&Config{Default: defaultID, Fallback: fallback}, byName)
}

func TestAcquisitionFailsOverOnError(t *testing.T) {
	var calls []string
	a := &stubProvider{name: "a", histErr: errors.New("upstream down"), callLog: &calls}
	b := &stubProvider{name: "b", hist: []series.RawRecord{{Date: "2024-01-01", Close: 1}}, callLog: &calls}

	acq := acquisitionWith("a", map[string][]string{MarketCN: {"a", "b"}}, a, b)
	got := acq.FetchHistory(context.Background(), MarketCN, "600519", "2024-01-01", "2024-01-31")

	require.Len(t, got, 1)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestAcquisitionSkipsEmptyResults(t *testing.T) {
	var calls []string
	a := &stubProvider{name: "a", hist: []series.RawRecord{}, callLog: &calls}
	b := &stubProvider{name: "b", hist: []series.RawRecord{{Date: "2024-01-01", Close: 1}}, callLog: &calls}

	acq := acquisitionWith("a", map[string][]string{MarketCN: {"a", "b"}}, a, b)
	got := acq.FetchHistory(context.Background(), MarketCN, "600519", "2024-01-01", "2024-01-31")

	require.Len(t, got, 1)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestAcquisitionFirstSuccessShortCircuits(t *testing.T) {
	var calls []string
	a := &stubProvider{name: "a", hist: []series.RawRecord{{Date: "2024-01-01", Close: 1}}, callLog: &calls}
	b := &stubProvider{name: "b", hist: []series.RawRecord{{Date: "2024-01-02", Close: 2}}, callLog: &calls}

	acq := acquisitionWith("a", map[string][]string{MarketCN: {"a", "b"}}, a, b)
	got := acq.FetchHistory(context.Background(), MarketCN, "600519", "2024-01-01", "2024-01-31")

	require.Equal(t, "2024-01-01", got[0].Date)
	require.Equal(t, []string{"a"}, calls)
}

func TestAcquisitionDefaultTriedFirst(t *testing.T) {
	var calls []string
	a := &stubProvider{name: "a", histErr: errors.New("down"), callLog: &calls}
	b := &stubProvider{name: "b", histErr: errors.New("down"), callLog: &calls}

	// The default comes first even when the fallback list orders it last,
	// and it is not tried twice.
	acq := acquisitionWith("b", map[string][]string{MarketCN: {"a", "b"}}, a, b)
	acq.FetchHistory(context.Background(), MarketCN, "600519", "2024-01-01", "2024-01-31")

	require.Equal(t, []string{"b", "a"}, calls)
}

func TestAcquisitionDefaultOutsideMarketIsSkipped(t *testing.T) {
	var calls []string
	us := &stubProvider{name: "yahoo", histErr: errors.New("down"), callLog: &calls}
	cn := &stubProvider{name: "eastmoney", hist: []series.RawRecord{{Date: "2024-01-01"}}, callLog: &calls}

	// The default serves US only; a CN request must not consult it.
	acq := acquisitionWith("yahoo", map[string][]string{
		MarketCN: {"eastmoney"},
		MarketUS: {"yahoo"},
	}, us, cn)
	acq.FetchHistory(context.Background(), MarketCN, "600519", "2024-01-01", "2024-01-31")

	require.Equal(t, []string{"eastmoney"}, calls)
}

func TestAcquisitionTotalFailureYieldsEmpty(t *testing.T) {
	a := &stubProvider{name: "a", histErr: errors.New("down"), listErr: errors.New("down")}

	acq := acquisitionWith("a", map[string][]string{MarketCN: {"a"}}, a)

	hist := acq.FetchHistory(context.Background(), MarketCN, "600519", "2024-01-01", "2024-01-31")
	require.NotNil(t, hist)
	require.Empty(t, hist)

	list := acq.FetchList(context.Background(), MarketCN)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestAcquisitionUnknownMarket(t *testing.T) {
	a := &stubProvider{name: "a"}
	acq := acquisitionWith("a", map[string][]string{MarketCN: {"a"}}, a)
	require.Empty(t, acq.FetchList(context.Background(), "XX"))
}

func TestAcquisitionList(t *testing.T) {
	a := &stubProvider{name: "a", listErr: errors.New("down")}
	b := &stubProvider{name: "b", list: []Listing{{Symbol: "600519", Name: "Kweichow Moutai", Market: MarketCN, Source: "b"}}}

	acq := acquisitionWith("a", map[string][]string{MarketCN: {"a", "b"}}, a, b)
	got := acq.FetchList(context.Background(), MarketCN)

	require.Len(t, got, 1)
	require.Equal(t, "600519", got[0].Symbol)
}
