// Package mathx collects small generic numeric helpers shared by the
// planner, the clock graph, and the ring buffer. It exists so none of
// those packages hand-rolls its own min/max/clamp over and over.
package mathx

import "golang.org/x/exp/constraints"

// Clamp returns v restricted to [lo, hi]. Panics if lo > hi.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if lo > hi {
		panic("mathx: Clamp called with lo > hi")
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Between reports whether v falls in [lo, hi] inclusive.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value of v.
func Abs[T ~int | ~int8 | ~int16 | ~int32 | ~int64](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Log2Floor returns floor(log2(v)) for v >= 1; 0 for v == 0.
func Log2Floor(v uint32) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}
