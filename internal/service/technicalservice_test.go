package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stockdata-api/pkg/series"
)

func historyAcquirer() *fakeAcquirer {
	return &fakeAcquirer{raw: []series.RawRecord{
		{Date: "2024-01-02", Open: 10, High: 11, Low: 9, Close: 10},
		{Date: "2024-01-03", Open: 10, High: 12, Low: 10, Close: 11},
		{Date: "2024-01-04", Open: 11, High: 12, Low: 10, Close: 10.5},
	}}
}

func TestGetIndicatorsAll(t *testing.T) {
	stocks := NewStockService(historyAcquirer(), newTestCache(t))
	tech := NewTechnicalService(stocks)

	got := tech.GetIndicators(context.Background(), "600519", "2024-01-01", "2024-01-31", "CN", nil)
	require.Equal(t, "600519", got.Symbol)
	require.Len(t, got.History, 3)

	last := got.History[2]
	for _, col := range []string{"MA5", "EMA12", "MACD_DIF", "RSI6", "BOLL_MID", "KDJ_K", "ATR14"} {
		_, ok := last.Get(col)
		require.True(t, ok, "column %s", col)
	}

	require.Equal(t, "2024-01-04", got.Latest["date"])
	require.Contains(t, got.Latest, "MA5")
}

func TestGetIndicatorsSubset(t *testing.T) {
	stocks := NewStockService(historyAcquirer(), newTestCache(t))
	tech := NewTechnicalService(stocks)

	got := tech.GetIndicators(context.Background(), "600519", "2024-01-01", "2024-01-31", "CN", []string{"MA", " rsi "})

	last := got.History[2]
	_, ok := last.Get("MA5")
	require.True(t, ok)
	_, ok = last.Get("RSI6")
	require.True(t, ok)
	_, ok = last.Get("MACD_DIF")
	require.False(t, ok)
	_, ok = last.Get("KDJ_K")
	require.False(t, ok)
}

func TestGetIndicatorsEmptyHistory(t *testing.T) {
	stocks := NewStockService(&fakeAcquirer{}, newTestCache(t))
	tech := NewTechnicalService(stocks)

	got := tech.GetIndicators(context.Background(), "600519", "2024-01-01", "2024-01-31", "CN", nil)
	require.Empty(t, got.History)
	require.Empty(t, got.Latest)
	require.Equal(t, "CN", got.Market)
}

func TestSupportedIndicators(t *testing.T) {
	names := SupportedIndicators()
	require.Equal(t, []string{"ma", "ema", "macd", "rsi", "boll", "kdj", "atr"}, names)

	// Callers get a copy, not the package slice.
	names[0] = "mutated"
	require.Equal(t, "ma", SupportedIndicators()[0])
}
