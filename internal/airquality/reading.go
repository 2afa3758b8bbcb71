package airquality

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NotAvailable is how a missing value is shown in reports.
const NotAvailable = "NA"

// Reading is an optional numeric value. The zero value is "not available".
type Reading struct {
	Value float64
	Valid bool
}

// Some returns a valid reading.
func Some(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// Map applies f to a valid reading and passes an invalid one through untouched.
func (r Reading) Map(f func(float64) float64) Reading {
	if !r.Valid {
		return r
	}
	return Some(f(r.Value))
}

// Int returns the value truncated to an int and whether it is valid.
func (r Reading) Int() (int, bool) {
	return int(r.Value), r.Valid
}

// String formats the value with the shortest exact representation, or NA.
func (r Reading) String() string {
	if !r.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// Decimal is like String but always shows a fractional part (68 -> "68.0").
func (r Reading) Decimal() string {
	s := r.String()
	if r.Valid && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes an invalid reading as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers and numeric strings. WAQI reports unknown
// values as "-"; that, null, and any other non-numeric string decode to an
// invalid reading rather than an error.
func (r *Reading) UnmarshalJSON(data []byte) error {
	*r = Reading{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*r = Some(v)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Some(v)
	return nil
}
