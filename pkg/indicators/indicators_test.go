package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"stockdata-api/pkg/series"
)

func seriesFromCloses(closes ...float64) series.Series {
	out := make(series.Series, len(closes))
	for i, c := range closes {
		out[i] = series.Record{
			Date:  dateAt(i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return out
}

func dateAt(i int) string {
	return "2024-01-" + string(rune('0'+(i+1)/10)) + string(rune('0'+(i+1)%10))
}

func get(t *testing.T, rec series.Record, name string) float64 {
	t.Helper()
	v, ok := rec.Get(name)
	require.True(t, ok, "column %s", name)
	return v
}

func TestAddMA(t *testing.T) {
	ser := seriesFromCloses(1, 2, 3, 4, 5)
	out := AddMA(ser, 5)

	want := []float64{1, 1.5, 2, 2.5, 3}
	for i, w := range want {
		require.InDelta(t, w, get(t, out[i], "MA5"), 1e-9, "row %d", i)
	}

	// Input series stays untouched.
	_, ok := ser[0].Get("MA5")
	require.False(t, ok)
}

func TestAddMADefaults(t *testing.T) {
	out := AddMA(seriesFromCloses(1, 2, 3))
	for _, p := range []string{"MA5", "MA10", "MA20", "MA60"} {
		get(t, out[2], p)
	}
}

func TestAddEMA(t *testing.T) {
	out := AddEMA(seriesFromCloses(2, 4, 6), 3)

	// alpha = 2/(3+1) = 0.5, seeded with the first value.
	require.InDelta(t, 2.0, get(t, out[0], "EMA3"), 1e-9)
	require.InDelta(t, 3.0, get(t, out[1], "EMA3"), 1e-9)
	require.InDelta(t, 4.5, get(t, out[2], "EMA3"), 1e-9)
}

func TestAddMACDFlatSeries(t *testing.T) {
	out := AddMACD(seriesFromCloses(10, 10, 10, 10), 0, 0, 0)
	for i := range out {
		require.Equal(t, 0.0, get(t, out[i], "MACD_DIF"))
		require.Equal(t, 0.0, get(t, out[i], "MACD_DEA"))
		require.Equal(t, 0.0, get(t, out[i], "MACD_HIST"))
	}
}

func TestAddMACDHistIdentity(t *testing.T) {
	out := AddMACD(seriesFromCloses(1, 3, 2, 5, 4, 7, 6), 3, 5, 2)
	for i := range out {
		dif := get(t, out[i], "MACD_DIF")
		dea := get(t, out[i], "MACD_DEA")
		hist := get(t, out[i], "MACD_HIST")
		require.InDelta(t, series.Round4(2*(dif-dea)), hist, 1e-9, "row %d", i)
	}
}

func TestAddRSISaturation(t *testing.T) {
	up := AddRSI(seriesFromCloses(1, 2, 3, 4, 5), 6)
	require.True(t, math.IsNaN(get(t, up[0], "RSI6")))
	for i := 1; i < len(up); i++ {
		require.Equal(t, 100.0, get(t, up[i], "RSI6"), "row %d", i)
	}

	down := AddRSI(seriesFromCloses(5, 4, 3, 2, 1), 6)
	for i := 1; i < len(down); i++ {
		require.Equal(t, 0.0, get(t, down[i], "RSI6"), "row %d", i)
	}

	flat := AddRSI(seriesFromCloses(3, 3, 3), 6)
	for i := 1; i < len(flat); i++ {
		require.Equal(t, 0.0, get(t, flat[i], "RSI6"), "row %d", i)
	}
}

func TestAddRSIRange(t *testing.T) {
	out := AddRSI(seriesFromCloses(10, 12, 11, 13, 12.5, 14, 13), 6, 14)
	for i := 1; i < len(out); i++ {
		for _, col := range []string{"RSI6", "RSI14"} {
			v := get(t, out[i], col)
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestAddBollinger(t *testing.T) {
	out := AddBollinger(seriesFromCloses(1, 2, 3), 20, 2)

	// A single observation has no sample deviation, so the first row's bands
	// are undefined while its mid is not.
	require.Equal(t, 1.0, get(t, out[0], "BOLL_MID"))
	require.True(t, math.IsNaN(get(t, out[0], "BOLL_UPPER")))
	require.True(t, math.IsNaN(get(t, out[0], "BOLL_LOWER")))

	require.InDelta(t, 1.5, get(t, out[1], "BOLL_MID"), 1e-9)
	require.InDelta(t, 2.9142, get(t, out[1], "BOLL_UPPER"), 1e-4)
	require.InDelta(t, 0.0858, get(t, out[1], "BOLL_LOWER"), 1e-4)

	for i := 1; i < len(out); i++ {
		mid := get(t, out[i], "BOLL_MID")
		require.LessOrEqual(t, get(t, out[i], "BOLL_LOWER"), mid)
		require.LessOrEqual(t, mid, get(t, out[i], "BOLL_UPPER"))
	}
}

func TestAddKDJFlatSeries(t *testing.T) {
	// high == low floors the RSV denominator to 1 instead of dividing by zero.
	out := AddKDJ(seriesFromCloses(10, 10, 10), 0, 0)
	for i := range out {
		require.Equal(t, 0.0, get(t, out[i], "KDJ_K"))
		require.Equal(t, 0.0, get(t, out[i], "KDJ_D"))
		require.Equal(t, 0.0, get(t, out[i], "KDJ_J"))
	}
}

func TestAddKDJIdentity(t *testing.T) {
	ser := series.Series{
		{Date: "2024-01-01", High: 12, Low: 9, Close: 10},
		{Date: "2024-01-02", High: 13, Low: 10, Close: 12},
		{Date: "2024-01-03", High: 14, Low: 11, Close: 11},
		{Date: "2024-01-04", High: 13, Low: 10, Close: 13},
	}
	out := AddKDJ(ser, 9, 3)
	for i := range out {
		k := get(t, out[i], "KDJ_K")
		d := get(t, out[i], "KDJ_D")
		j := get(t, out[i], "KDJ_J")
		require.InDelta(t, series.Round4(3*k-2*d), j, 1e-9, "row %d", i)
	}
}

func TestAddATR(t *testing.T) {
	ser := series.Series{
		{Date: "2024-01-01", High: 10, Low: 8, Close: 9},
		{Date: "2024-01-02", High: 12, Low: 9, Close: 11},
	}
	out := AddATR(ser, 14)

	// The first row has no previous close: true range degrades to high-low.
	require.Equal(t, 2.0, get(t, out[0], "ATR14"))
	require.InDelta(t, 2.5, get(t, out[1], "ATR14"), 1e-9)
}

func TestAddATRNonNegative(t *testing.T) {
	out := AddATR(seriesFromCloses(5, 3, 8, 2, 9), 3)
	for i := range out {
		require.GreaterOrEqual(t, get(t, out[i], "ATR3"), 0.0)
	}
}

func TestComputeAll(t *testing.T) {
	ser := series.Series{
		{Date: "2024-01-01", Open: 9, High: 10, Low: 8, Close: 9, Volume: 100},
		{Date: "2024-01-02", Open: 9, High: 12, Low: 9, Close: 11, Volume: 120},
		{Date: "2024-01-03", Open: 11, High: 12, Low: 10, Close: 10, Volume: 90},
	}
	out := ComputeAll(ser)
	require.Len(t, out, len(ser))

	last := out[len(out)-1]
	for _, col := range []string{
		"MA5", "MA10", "MA20", "MA60",
		"EMA12", "EMA26",
		"MACD_DIF", "MACD_DEA", "MACD_HIST",
		"RSI6", "RSI14",
		"BOLL_MID", "BOLL_UPPER", "BOLL_LOWER",
		"KDJ_K", "KDJ_D", "KDJ_J",
		"ATR14",
	} {
		_, ok := last.Get(col)
		require.True(t, ok, "column %s", col)
	}
}

func TestEmptySeriesPassThrough(t *testing.T) {
	empty := series.Series{}
	require.Empty(t, AddMA(empty))
	require.Empty(t, AddMACD(empty, 0, 0, 0))
	require.Empty(t, ComputeAll(empty))
	require.Empty(t, Summarize(empty))
}

func TestSummarize(t *testing.T) {
	ser := seriesFromCloses(1, 2, 3)
	ser[2].Set("MA5", 2.0)
	ser[2].Set("BOLL_UPPER", math.NaN())

	got := Summarize(ser)
	require.Equal(t, "2024-01-03", got["date"])
	require.Equal(t, 3.0, got["close"])
	require.Equal(t, 2.0, got["MA5"])
	// Undefined values surface as nil, never as zero.
	v, present := got["BOLL_UPPER"]
	require.True(t, present)
	require.Nil(t, v)
}
