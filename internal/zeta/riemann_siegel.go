package zeta

// RiemannSiegelTerms returns the main-sum length floor(sqrt(t/2π)), or 0 for
// heights below 2π.
func RiemannSiegelTerms[T Float](t T) int {
	return termCount(t)
}

// riemannSiegel returns the Riemann-Siegel main sum
//
//	Z(t) ≈ 2·Σ_{n=1}^{N} cos(θ(t) - t·ln n)/√n,  N = floor(sqrt(t/2π)).
//
// The remainder terms are not included. Heights with N ≤ 1, which covers
// t < 8π and every negative t, return 0.
func riemannSiegel[T Float](t T) T {
	n := termCount(t)
	if n <= 1 {
		return 0
	}
	theta := Theta(t)
	var sum T
	for k := 1; k <= n; k++ {
		kk := T(k)
		sum += cos(theta-t*ln(kk)) / sqrt(kk)
	}
	return 2 * sum
}
