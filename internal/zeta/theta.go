package zeta

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGramIndex is returned by GramPoint for indices below -1.
var ErrInvalidGramIndex = errors.New("gram index must be >= -1")

// Theta returns the Riemann-Siegel theta function through its asymptotic
// expansion
//
//	θ(t) = (t/2)·ln(t/2π) - t/2 - π/8 + 1/(48t) + 7/(5760t³).
//
// θ(0) = 0 for |t| < 1e-9. Negative heights use the odd symmetry
// θ(-t) = -θ(t). The expansion is only accurate for moderate to large |t|.
func Theta[T Float](t T) T {
	if nearOrigin(t) {
		return 0
	}
	if t < 0 {
		return -Theta(-t)
	}
	return t/2*ln(t/twoPi) - t/2 - math.Pi/8 + 1/(48*t) + 7/(5760*t*t*t)
}

// thetaPrime is the derivative of the expansion used by Theta.
func thetaPrime(t float64) float64 {
	return 0.5*math.Log(t/twoPi) - 1/(48*t*t) - 7/(1920*t*t*t*t)
}

// GramPoint returns g_n, the unique height above 2π with θ(g_n) = nπ.
// It runs Newton's method from a starting point right of the root, where θ is
// increasing and convex, so the iteration converges monotonically.
func GramPoint(n int) (float64, error) {
	if n < -1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidGramIndex, n)
	}
	target := float64(n) * math.Pi
	t := twoPi*float64(n+2) + 10
	for range 100 {
		step := (Theta(t) - target) / thetaPrime(t)
		t -= step
		if math.Abs(step) < 1e-13*t {
			break
		}
	}
	return t, nil
}
