package engine

import "math"

// Scale converts a raw distance into display units: floor(raw / factor).
// factor must be > 0; config validation rejects anything else. Negative raw
// readings are treated as 0. Quotients beyond the int range saturate at
// math.MaxInt.
func Scale(raw int, factor float64) int {
	if raw <= 0 {
		return 0
	}
	q := math.Floor(float64(raw) / factor)
	if q >= math.MaxInt {
		return math.MaxInt
	}
	return int(q)
}
