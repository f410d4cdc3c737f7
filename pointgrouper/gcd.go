package pointgrouper

import "math"

// gcd is Euclid's algorithm. It accepts operands of either sign,
// treats math.MinInt64 specially since -math.MinInt64 overflows
// int64, and returns 0 only when both operands are 0.
func gcd(a, b int64) int64 {
	a, b = absInt64(a), absInt64(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func absInt64(v int64) int64 {
	if v == math.MinInt64 {
		return math.MaxInt64
	}
	if v < 0 {
		return -v
	}
	return v
}
