// Package safe provides overflow-checked integer conversions.
package safe

import (
	"math"
)

// Uint64ToInt safely converts an uint64 value to int, clamping to math.MaxInt if overflow
// would occur. Returns the converted value and whether clamping occurred.
// Section offsets and lengths read from debug info are uint64, slice bounds are int.
func Uint64ToInt(val uint64) (int, bool) {
	if val > math.MaxInt {
		return math.MaxInt, true
	}
	return int(val), false
}

// Int64ToInt safely converts an int64 value to int, clamping to the int range on 32-bit
// platforms.
func Int64ToInt(val int64) (int, bool) {
	if val > math.MaxInt {
		return math.MaxInt, true
	}
	if val < math.MinInt {
		return math.MinInt, true
	}
	return int(val), false
}
