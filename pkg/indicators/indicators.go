// Package indicators computes technical indicators over canonical series.
// Every transform copies its input, appends derived columns and never removes
// or reorders rows; NaN marks values that are undefined for a row (e.g. the
// leading rows of a rolling standard deviation).
package indicators

import (
	"fmt"
	"math"

	"stockdata-api/pkg/series"
)

// Default parameters, matching the conventional daily-bar settings.
var (
	DefaultMAPeriods  = []int{5, 10, 20, 60}
	DefaultEMAPeriods = []int{12, 26}
	DefaultRSIPeriods = []int{6, 14}
)

const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
	DefaultBollPeriod = 20
	DefaultBollStdDev = 2.0
	DefaultKDJPeriod  = 9
	DefaultKDJSignal  = 3
	DefaultATRPeriod  = 14
)

// AddMA appends simple moving averages of close (columns MA<p>). Leading rows
// use a shrinking window rather than being undefined.
func AddMA(s series.Series, periods ...int) series.Series {
	if len(s) == 0 {
		return s
	}
	if len(periods) == 0 {
		periods = DefaultMAPeriods
	}
	out := s.Clone()
	closes := out.Closes()
	for _, p := range periods {
		ma := rollingMean(closes, p)
		name := fmt.Sprintf("MA%d", p)
		for i := range out {
			out[i].Set(name, series.Round4(ma[i]))
		}
	}
	return out
}

// AddEMA appends exponential moving averages of close (columns EMA<p>) using
// recursive (no-adjustment) span weighting.
func AddEMA(s series.Series, periods ...int) series.Series {
	if len(s) == 0 {
		return s
	}
	if len(periods) == 0 {
		periods = DefaultEMAPeriods
	}
	out := s.Clone()
	closes := out.Closes()
	for _, p := range periods {
		ema := ewmSpan(closes, p)
		name := fmt.Sprintf("EMA%d", p)
		for i := range out {
			out[i].Set(name, series.Round4(ema[i]))
		}
	}
	return out
}

// AddMACD appends MACD_DIF, MACD_DEA and MACD_HIST. DEA smooths the already
// rounded DIF column, matching the column-at-a-time computation upstream.
func AddMACD(s series.Series, fast, slow, signal int) series.Series {
	if len(s) == 0 {
		return s
	}
	if fast <= 0 {
		fast = DefaultMACDFast
	}
	if slow <= 0 {
		slow = DefaultMACDSlow
	}
	if signal <= 0 {
		signal = DefaultMACDSignal
	}
	out := s.Clone()
	closes := out.Closes()
	emaFast := ewmSpan(closes, fast)
	emaSlow := ewmSpan(closes, slow)

	dif := make([]float64, len(closes))
	for i := range dif {
		dif[i] = series.Round4(emaFast[i] - emaSlow[i])
	}
	dea := ewmSpan(dif, signal)
	for i := range out {
		d := series.Round4(dea[i])
		out[i].Set("MACD_DIF", dif[i])
		out[i].Set("MACD_DEA", d)
		out[i].Set("MACD_HIST", series.Round4(2*(dif[i]-d)))
	}
	return out
}

// AddRSI appends relative strength indexes (columns RSI<p>). A zero loss
// average makes the ratio infinite so RSI saturates at 100 instead of being
// undefined.
func AddRSI(s series.Series, periods ...int) series.Series {
	if len(s) == 0 {
		return s
	}
	if len(periods) == 0 {
		periods = DefaultRSIPeriods
	}
	out := s.Clone()
	closes := out.Closes()

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := range closes {
		if i == 0 {
			gains[i] = math.NaN()
			losses[i] = math.NaN()
			continue
		}
		delta := closes[i] - closes[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	for _, p := range periods {
		avgGain := rollingMean(gains, p)
		avgLoss := rollingMean(losses, p)
		name := fmt.Sprintf("RSI%d", p)
		for i := range out {
			out[i].Set(name, series.Round4(rsiValue(avgGain[i], avgLoss[i])))
		}
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if math.IsNaN(avgGain) || math.IsNaN(avgLoss) {
		return math.NaN()
	}
	if avgLoss == 0 {
		// A flat window has neither gains nor losses and reads 0.
		if avgGain == 0 {
			return 0
		}
		// Zero losses make the ratio infinite: the index saturates.
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// AddBollinger appends BOLL_MID, BOLL_UPPER and BOLL_LOWER. The band width
// uses the sample standard deviation, which is undefined for a single
// observation, so the first row carries a defined mid but undefined bands.
func AddBollinger(s series.Series, period int, stdDev float64) series.Series {
	if len(s) == 0 {
		return s
	}
	if period <= 0 {
		period = DefaultBollPeriod
	}
	if stdDev <= 0 {
		stdDev = DefaultBollStdDev
	}
	out := s.Clone()
	closes := out.Closes()
	mid := rollingMean(closes, period)
	std := rollingStd(closes, period)
	for i := range out {
		out[i].Set("BOLL_MID", series.Round4(mid[i]))
		out[i].Set("BOLL_UPPER", series.Round4(mid[i]+stdDev*std[i]))
		out[i].Set("BOLL_LOWER", series.Round4(mid[i]-stdDev*std[i]))
	}
	return out
}

// AddKDJ appends the stochastic KDJ_K, KDJ_D and KDJ_J columns. The RSV
// denominator is floored to 1 when the rolling high equals the rolling low.
func AddKDJ(s series.Series, period, signal int) series.Series {
	if len(s) == 0 {
		return s
	}
	if period <= 0 {
		period = DefaultKDJPeriod
	}
	if signal <= 0 {
		signal = DefaultKDJSignal
	}
	out := s.Clone()

	highs := make([]float64, len(out))
	lows := make([]float64, len(out))
	for i := range out {
		highs[i] = out[i].High
		lows[i] = out[i].Low
	}
	lowMin := rollingMin(lows, period)
	highMax := rollingMax(highs, period)

	rsv := make([]float64, len(out))
	for i := range out {
		denom := highMax[i] - lowMin[i]
		if denom == 0 {
			denom = 1
		}
		rsv[i] = (out[i].Close - lowMin[i]) / denom * 100
	}

	k := ewmCom(rsv, float64(signal-1))
	for i := range k {
		k[i] = series.Round4(k[i])
	}
	d := ewmCom(k, float64(signal-1))
	for i := range out {
		dv := series.Round4(d[i])
		out[i].Set("KDJ_K", k[i])
		out[i].Set("KDJ_D", dv)
		out[i].Set("KDJ_J", series.Round4(3*k[i]-2*dv))
	}
	return out
}

// AddATR appends the average true range (column ATR<p>). The first row has no
// previous close, so its true range degrades to high-low.
func AddATR(s series.Series, period int) series.Series {
	if len(s) == 0 {
		return s
	}
	if period <= 0 {
		period = DefaultATRPeriod
	}
	out := s.Clone()

	tr := make([]float64, len(out))
	for i := range out {
		highLow := out[i].High - out[i].Low
		if i == 0 {
			tr[i] = highLow
			continue
		}
		prevClose := out[i-1].Close
		highClose := math.Abs(out[i].High - prevClose)
		lowClose := math.Abs(out[i].Low - prevClose)
		tr[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	atr := rollingMean(tr, period)
	name := fmt.Sprintf("ATR%d", period)
	for i := range out {
		out[i].Set(name, series.Round4(atr[i]))
	}
	return out
}

// ComputeAll applies every indicator with default parameters in a fixed
// order: MA, EMA, MACD, RSI, Bollinger, KDJ, ATR.
func ComputeAll(s series.Series) series.Series {
	s = AddMA(s)
	s = AddEMA(s)
	s = AddMACD(s, 0, 0, 0)
	s = AddRSI(s)
	s = AddBollinger(s, 0, 0)
	s = AddKDJ(s, 0, 0)
	s = AddATR(s, 0)
	return s
}

// Summarize flattens the last row into a map, substituting nil for values
// that are undefined so they stay distinguishable from a legitimate zero.
func Summarize(s series.Series) map[string]any {
	if len(s) == 0 {
		return map[string]any{}
	}
	last := s[len(s)-1]
	out := map[string]any{
		"date":    last.Date,
		"open":    summaryValue(last.Open),
		"high":    summaryValue(last.High),
		"low":     summaryValue(last.Low),
		"close":   summaryValue(last.Close),
		"volume":  summaryValue(last.Volume),
		"amount":  summaryValue(last.Amount),
		"pct_chg": summaryValue(last.PctChg),
	}
	for _, name := range last.Columns() {
		v, _ := last.Get(name)
		out[name] = summaryValue(v)
	}
	return out
}

func summaryValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
