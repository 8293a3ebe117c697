// Package numberkit provides the small integer helpers the layout planner
// leans on repeatedly: power-of-two tests and rounding, gcd, and alignment.
package numberkit

// IsPowerOfTwo reports whether n is a power of two. Zero and negative values
// are never powers of two.
func IsPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two that is >= max(n, min).
// Both n and min may be non-powers of two or non-positive; the result is
// always a power of two >= 1.
func NextPowerOfTwo(n, min int64) int64 {
	target := n
	if min > target {
		target = min
	}
	if target < 1 {
		return 1
	}
	if IsPowerOfTwo(target) {
		return target
	}

	p := int64(1)
	for p < target {
		p <<= 1
	}
	return p
}

// GCD returns the greatest common divisor of a and b using Euclid's
// algorithm. Negative inputs are treated by their absolute value; GCD(0, 0)
// is 0.
func GCD(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// AlignUp rounds x up to the next multiple of a, where a must be a power of
// two. Passing a non-power-of-two a is a programming error and AlignUp will
// panic rather than silently misbehave.
func AlignUp(x, a int64) int64 {
	if !IsPowerOfTwo(a) {
		panic("numberkit: AlignUp alignment must be a power of two")
	}
	return (x + a - 1) &^ (a - 1)
}
