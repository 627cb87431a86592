package indicators

import "math"

// Rolling helpers use trailing windows with a minimum of one valid
// observation: leading rows shrink the window instead of going undefined.
// NaN inputs are skipped, so a window containing only NaN yields NaN.

func windowStart(i, window int) int {
	start := i - window + 1
	if start < 0 {
		return 0
	}
	return start
}

func rollingMean(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		sum, n := 0.0, 0
		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(vals[j]) {
				continue
			}
			sum += vals[j]
			n++
		}
		if n == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// rollingStd is the sample standard deviation (n-1 denominator); it needs at
// least two valid observations.
func rollingStd(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		sum, n := 0.0, 0
		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(vals[j]) {
				continue
			}
			sum += vals[j]
			n++
		}
		if n < 2 {
			out[i] = math.NaN()
			continue
		}
		mean := sum / float64(n)
		var sq float64
		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(vals[j]) {
				continue
			}
			d := vals[j] - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(n-1))
	}
	return out
}

func rollingMin(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		m, ok := math.NaN(), false
		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(vals[j]) {
				continue
			}
			if !ok || vals[j] < m {
				m, ok = vals[j], true
			}
		}
		out[i] = m
	}
	return out
}

func rollingMax(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		m, ok := math.NaN(), false
		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(vals[j]) {
				continue
			}
			if !ok || vals[j] > m {
				m, ok = vals[j], true
			}
		}
		out[i] = m
	}
	return out
}

// ewm applies recursive exponential weighting: the first valid value seeds
// the state, NaN inputs carry the previous state forward.
func ewm(vals []float64, alpha float64) []float64 {
	out := make([]float64, len(vals))
	state, seeded := math.NaN(), false
	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = state
			continue
		}
		if !seeded {
			state, seeded = v, true
		} else {
			state = state + alpha*(v-state)
		}
		out[i] = state
	}
	return out
}

// ewmSpan uses span weighting: alpha = 2/(span+1).
func ewmSpan(vals []float64, span int) []float64 {
	return ewm(vals, 2.0/float64(span+1))
}

// ewmCom uses center-of-mass weighting: alpha = 1/(1+com).
func ewmCom(vals []float64, com float64) []float64 {
	return ewm(vals, 1.0/(1.0+com))
}
