// Package match evaluates every persona's criteria against a user's signal
// values and records the evidence used, one result per persona.
package match

import (
	"math"

	"compass/internal/persona"
)

// equalityEpsilon is the absolute tolerance for the == operator. Thresholds
// are externally authored decimals, so exact float equality is too fragile;
// the ordering operators compare directly and need no tolerance.
const equalityEpsilon = 1e-6

// Compare evaluates one threshold comparison. A nil value never matches and
// never fails: a missing or unconvertible signal is a non-match, not an
// error.
func Compare(value *float64, op persona.Operator, threshold float64) bool {
	if value == nil {
		return false
	}
	v := *value
	switch op {
	case persona.OpGTE:
		return v >= threshold
	case persona.OpLTE:
		return v <= threshold
	case persona.OpGT:
		return v > threshold
	case persona.OpLT:
		return v < threshold
	case persona.OpEQ:
		return math.Abs(v-threshold) < equalityEpsilon
	default:
		return false
	}
}
