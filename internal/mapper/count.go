package mapper

import "math"

// Counter is implemented by mappers that know their map length without
// generating the map.
type Counter interface {
	Count() int
}

// mulSat multiplies non-negative a and b, saturating at math.MaxInt. Negative
// inputs count as 0.
func mulSat(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
