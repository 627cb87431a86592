package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinaFetchHistoryTrimsRange(t *testing.T) {
	var gotSymbol string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		require.Equal(t, "240", r.URL.Query().Get("scale"))
		w.Write([]byte(`[
			{"day":"2023-12-29","open":"98","high":"99","low":"97","close":"98.5","volume":"8000"},
			{"day":"2024-01-02","open":"100","high":"115","low":"95","close":"110","volume":"10000"},
			{"day":"2024-02-01","open":"111","high":"112","low":"110","close":"111","volume":"7000"}
		]`))
	}))
	defer server.Close()

	c := NewSina("sina", WithSinaBaseURL(server.URL))
	records, err := c.FetchHistory(context.Background(), MarketCN, "600519", "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	// The upstream returns a fixed tail of history; only the requested range
	// survives translation.
	require.Equal(t, "sh600519", gotSymbol)
	require.Len(t, records, 1)
	require.Equal(t, "2024-01-02", records[0].Date)
	require.Equal(t, 110.0, records[0].Close)
	require.Equal(t, 10000.0, records[0].Volume)
}

func TestSinaSymbolPrefix(t *testing.T) {
	require.Equal(t, "sh600519", sinaSymbol("600519"))
	require.Equal(t, "sz000001", sinaSymbol("000001"))
	require.Equal(t, "sz300750", sinaSymbol("300750"))
}

func TestSinaUnsupported(t *testing.T) {
	c := NewSina("sina")
	_, err := c.FetchHistory(context.Background(), MarketUS, "AAPL", "2024-01-01", "2024-01-31")
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = c.FetchList(context.Background(), MarketCN)
	require.ErrorIs(t, err, ErrUnsupported)
}
