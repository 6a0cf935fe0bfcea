package formulax

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MarshalText encodes Kind by name so reports and configs stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Numeric, Categorical:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown kind %d", int(k))
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "numeric", "":
		*k = Numeric
	case "categorical":
		*k = Categorical
	default:
		return fmt.Errorf("unknown kind %q", text)
	}
	return nil
}

// resultJSON mirrors Result with a value that can hold NaN and infinities,
// which encoding/json refuses to write as numbers.
type resultJSON struct {
	Formula    string          `json:"formula"`
	Kind       Kind            `json:"kind"`
	Value      json.RawMessage `json:"value"`
	Label      string          `json:"label,omitempty"`
	Degenerate bool            `json:"degenerate,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Formula:    r.Formula,
		Kind:       r.Kind,
		Value:      appendFloatJSON(nil, r.Value),
		Label:      r.Label,
		Degenerate: r.Degenerate,
	})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := math.NaN()
	if len(raw.Value) > 0 && string(raw.Value) != "null" {
		parsed, err := parseFloatJSON(raw.Value)
		if err != nil {
			return fmt.Errorf("result value: %w", err)
		}
		v = parsed
	}
	*r = Result{
		Formula:    raw.Formula,
		Kind:       raw.Kind,
		Value:      v,
		Label:      raw.Label,
		Degenerate: raw.Degenerate,
	}
	return nil
}

// FormatFloat renders v with a fixed number of decimals, or the shortest
// exact form when precision is negative. Non-finite values print as
// NaN, +Inf and -Inf.
func FormatFloat(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case precision < 0:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// Floats is a list of arguments whose JSON form keeps non-finite values, as
// the strings "NaN", "+Inf" and "-Inf".
type Floats []float64

func (fs Floats) MarshalJSON() ([]byte, error) {
	if fs == nil {
		return []byte("null"), nil
	}
	buf := []byte{'['}
	for i, v := range fs {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendFloatJSON(buf, v)
	}
	return append(buf, ']'), nil
}

func (fs *Floats) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*fs = nil
		return nil
	}
	out := make(Floats, len(raw))
	for i, r := range raw {
		v, err := parseFloatJSON(r)
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = v
	}
	*fs = out
	return nil
}

func appendFloatJSON(buf []byte, v float64) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.AppendQuote(buf, FormatFloat(v, -1))
	}
	return strconv.AppendFloat(buf, v, 'g', -1, 64)
}

// parseFloatJSON accepts a JSON number or one of the quoted non-finite forms.
func parseFloatJSON(data json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	return v, nil
}
