package zeta

import "math"

// Float is the floating-point capability every numerical routine in this
// package is generic over. The set is closed (no ~ approximation) so that the
// shared Bernoulli tables can be selected with a type switch.
type Float interface {
	float32 | float64
}

// originGuard is the distance from t = 0 below which the asymptotic
// expansions are replaced by fixed sentinel values.
const originGuard = 1e-9

// twoPi is 2π, used by every truncation rule.
const twoPi = 2 * math.Pi

// Transcendental helpers route through float64 and convert back to T.
// Products, recurrences and sums stay in T.

func abs[T Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func sqrt[T Float](x T) T { return T(math.Sqrt(float64(x))) }

func ln[T Float](x T) T { return T(math.Log(float64(x))) }

func cos[T Float](x T) T { return T(math.Cos(float64(x))) }

func nearOrigin[T Float](t T) bool { return abs(t) < originGuard }

// termCount returns floor(sqrt(t/2π)), the main-sum length shared by the
// Riemann-Siegel and block evaluators. Non-positive and NaN heights give 0.
func termCount[T Float](t T) int {
	x := float64(t) / twoPi
	if !(x >= 1) {
		return 0
	}
	return int(math.Sqrt(x))
}
