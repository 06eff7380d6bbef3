package table

import (
	"encoding/json"
	"math"
)

// Float is a numeric table cell. A null cell (unresolved reference or
// indeterminate formula input) is NaN in memory and null in JSON, so
// arithmetic propagates nulls the way the joins produce them.
type Float float64

// Null returns the null cell marker
func Null() Float {
	return Float(math.NaN())
}

// IsNull reports whether the cell is null
func (f Float) IsNull() bool {
	return math.IsNaN(float64(f))
}

// MarshalJSON renders a null cell as JSON null
func (f Float) MarshalJSON() ([]byte, error) {
	if f.IsNull() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// UnmarshalJSON accepts JSON null as a null cell
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Null()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
