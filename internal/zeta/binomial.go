package zeta

// Binomial returns the binomial coefficient C(n, k) in floating point.
//
// Selections outside 0 ≤ k ≤ n yield 0. The value is built as the running
// product ∏(n-i+1)/i over the smaller of k and n-k, which keeps the
// intermediate values in the same range as the result instead of forming
// factorials.
func Binomial[T Float](n, k int) T {
	if k < 0 || k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	if n-k < k {
		k = n - k
	}
	res := T(1)
	for i := 1; i <= k; i++ {
		res = res * T(n-i+1) / T(i)
	}
	return res
}
