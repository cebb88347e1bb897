package pricing

import (
	"encoding/json"
	"fmt"
	"math"
)

// Ratio is a return multiple (revenue / ad spend). It is Unbounded when no
// positive ad spend exists to divide by.
type Ratio float64

// Unbounded is the sentinel for a ratio whose denominator is not positive.
var Unbounded = Ratio(math.Inf(1))

const unboundedJSON = `"Infinity"`

// Unbounded reports whether r is the positive-infinity sentinel.
func (r Ratio) Unbounded() bool { return math.IsInf(float64(r), 1) }

// Float64 returns r as a plain float.
func (r Ratio) Float64() float64 { return float64(r) }

// MarshalJSON encodes the sentinel as the string "Infinity" because JSON
// numbers cannot carry IEEE infinities.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.Unbounded() {
		return []byte(unboundedJSON), nil
	}
	if math.IsNaN(float64(r)) || math.IsInf(float64(r), -1) {
		return nil, fmt.Errorf("ratio %v is not representable", float64(r))
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON accepts a number or the string "Infinity".
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == unboundedJSON {
		*r = Unbounded
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode ratio: %w", err)
	}
	*r = Ratio(v)
	return nil
}
