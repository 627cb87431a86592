package series

import (
	"encoding/json"
	"math"
)

// Records marshal as flat JSON objects so cached payloads match the
// {date, open, ..., MA5, ...} shape other collaborators read. NaN and Inf
// derived values become null; JSON has no representation for them and null is
// the explicit "undefined" marker.

func jsonValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// MarshalJSON renders the record as a single flat object.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.extra)+8)
	out["date"] = r.Date
	out["open"] = jsonValue(r.Open)
	out["high"] = jsonValue(r.High)
	out["low"] = jsonValue(r.Low)
	out["close"] = jsonValue(r.Close)
	out["volume"] = jsonValue(r.Volume)
	out["amount"] = jsonValue(r.Amount)
	out["pct_chg"] = jsonValue(r.PctChg)
	for name, value := range r.extra {
		out[name] = jsonValue(value)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a record from its flat object form. Unknown keys
// become derived columns; null derived values become NaN, null base values
// become 0.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	var dates struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(data, &dates); err != nil {
		return err
	}
	// Decode numerics separately; the date key fails float decoding, so strip
	// it via RawMessage first.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	delete(fields, "date")
	raw = make(map[string]*float64, len(fields))
	for name, msg := range fields {
		var v *float64
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		raw[name] = v
	}

	*r = Record{Date: dates.Date}
	base := func(name string, dst *float64) {
		if v, ok := raw[name]; ok {
			if v != nil {
				*dst = *v
			}
			delete(raw, name)
		}
	}
	base("open", &r.Open)
	base("high", &r.High)
	base("low", &r.Low)
	base("close", &r.Close)
	base("volume", &r.Volume)
	base("amount", &r.Amount)
	base("pct_chg", &r.PctChg)

	for name, v := range raw {
		if v == nil {
			r.Set(name, math.NaN())
		} else {
			r.Set(name, *v)
		}
	}
	return nil
}
