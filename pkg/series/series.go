// Package series defines the canonical OHLCV time series shared by the
// acquisition, cache and analysis layers, together with the normalisation
// transforms that produce it from raw provider records.
package series

import (
	"math"
	"sort"
	"time"
)

// RawRecord is a single trading-period observation as emitted by a provider
// adapter, before normalisation. Providers may leave fields at their zero
// value; omission is legal.
type RawRecord struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	Amount float64 `json:"amount"`
	PctChg float64 `json:"pct_chg"`
}

// Record is one row of a canonical series: a calendar date, the seven base
// numeric columns, and any derived columns added by downstream transforms.
// Derived values may be NaN, which marks "undefined for this row" and is
// serialised as JSON null so it stays distinguishable from a literal zero.
type Record struct {
	Date   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Amount float64
	PctChg float64

	extra map[string]float64
}

// Series is an ordered sequence of records, one per unique trading date,
// ascending by date.
type Series []Record

// Set stores a derived column value on the record.
func (r *Record) Set(name string, value float64) {
	if r.extra == nil {
		r.extra = make(map[string]float64)
	}
	r.extra[name] = value
}

// Get returns a derived column value and whether it is present.
func (r *Record) Get(name string) (float64, bool) {
	v, ok := r.extra[name]
	return v, ok
}

// Columns returns the names of the derived columns present on the record.
func (r *Record) Columns() []string {
	names := make([]string, 0, len(r.extra))
	for name := range r.extra {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clone returns a deep copy of the record, including derived columns.
func (r Record) clone() Record {
	out := r
	if r.extra != nil {
		out.extra = make(map[string]float64, len(r.extra))
		for k, v := range r.extra {
			out.extra[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the series. Transforms never mutate their
// input: cached series are shared between requests.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	for i := range s {
		out[i] = s[i].clone()
	}
	return out
}

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Close
	}
	return out
}

// ToRaw converts the series back into raw records, dropping derived columns.
func (s Series) ToRaw() []RawRecord {
	out := make([]RawRecord, len(s))
	for i, r := range s {
		out[i] = RawRecord{
			Date:   r.Date,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
			Amount: r.Amount,
			PctChg: r.PctChg,
		}
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate normalises a free-form provider date into an ISO calendar date.
func ParseDate(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// Normalize converts raw provider records into a canonical series: numeric
// fields default to 0.0, records with unparseable dates are dropped, dates
// are deduplicated keeping the last record in input order, and the result is
// sorted ascending by date. It is a total function and never fails on
// malformed input.
func Normalize(records []RawRecord) Series {
	if len(records) == 0 {
		return Series{}
	}
	byDate := make(map[string]Record, len(records))
	for _, raw := range records {
		date, ok := ParseDate(raw.Date)
		if !ok {
			continue
		}
		byDate[date] = Record{
			Date:   date,
			Open:   sanitize(raw.Open),
			High:   sanitize(raw.High),
			Low:    sanitize(raw.Low),
			Close:  sanitize(raw.Close),
			Volume: sanitize(raw.Volume),
			Amount: sanitize(raw.Amount),
			PctChg: sanitize(raw.PctChg),
		}
	}
	out := make(Series, 0, len(byDate))
	for _, rec := range byDate {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Renormalize re-applies the dedupe and ordering invariants to an already
// canonical series without dropping derived columns. Used when a series comes
// back from the cache and cannot be trusted to still be ordered.
func Renormalize(s Series) Series {
	if len(s) == 0 {
		return Series{}
	}
	byDate := make(map[string]Record, len(s))
	for _, rec := range s {
		if rec.Date == "" {
			continue
		}
		byDate[rec.Date] = rec.clone()
	}
	out := make(Series, 0, len(byDate))
	for _, rec := range byDate {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// FilterDateRange keeps records with start <= date <= end. Either bound may
// be empty, meaning unbounded. Canonical dates compare lexicographically.
func FilterDateRange(s Series, start, end string) Series {
	if len(s) == 0 {
		return s.Clone()
	}
	out := make(Series, 0, len(s))
	for _, rec := range s {
		if start != "" && rec.Date < start {
			continue
		}
		if end != "" && rec.Date > end {
			continue
		}
		out = append(out, rec.clone())
	}
	return out
}

// FillMissing replaces zero values in open/high/low/close with the most
// recent non-zero prior value for the same column. Upstream data encodes
// missing prices as literal zeros, so a true zero price is indistinguishable
// from an absent one here; a leading zero with no prior value stays zero.
func FillMissing(s Series) Series {
	out := s.Clone()
	var lastOpen, lastHigh, lastLow, lastClose float64
	for i := range out {
		fill(&out[i].Open, &lastOpen)
		fill(&out[i].High, &lastHigh)
		fill(&out[i].Low, &lastLow)
		fill(&out[i].Close, &lastClose)
	}
	return out
}

func fill(field, last *float64) {
	if *field == 0 {
		*field = *last
		return
	}
	*last = *field
}

// AddBasicMetrics appends close-to-close change and amplitude columns and
// recomputes pct_chg from close prices when the input column is absent or
// uniformly zero. The first row has no previous close, so its change and
// amplitude are undefined.
func AddBasicMetrics(s Series) Series {
	if len(s) == 0 {
		return s.Clone()
	}
	out := s.Clone()

	recompute := true
	for _, rec := range out {
		if rec.PctChg != 0 {
			recompute = false
			break
		}
	}

	for i := range out {
		if i == 0 {
			out[i].Set("change", math.NaN())
			out[i].Set("amplitude", math.NaN())
			if recompute {
				out[i].PctChg = 0
			}
			continue
		}
		prevClose := out[i-1].Close
		out[i].Set("change", Round4(out[i].Close-prevClose))
		if recompute {
			if prevClose != 0 {
				out[i].PctChg = Round4((out[i].Close - prevClose) / prevClose * 100)
			} else {
				out[i].PctChg = 0
			}
		}
		denom := prevClose
		if denom == 0 {
			denom = out[i].Close
		}
		if denom == 0 {
			out[i].Set("amplitude", math.NaN())
		} else {
			out[i].Set("amplitude", Round4((out[i].High-out[i].Low)/denom*100))
		}
	}
	return out
}

// Round4 rounds to 4 decimal places, passing NaN through.
func Round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*1e4) / 1e4
}
