package zeta

import "math"

// minEulerMaclaurinTerms is the lower bound on the truncation point. It keeps
// the tail corrections small at low heights.
const minEulerMaclaurinTerms = 15

// EulerMaclaurinTerms returns the truncation point N = max(floor|t| + 5, 15).
func EulerMaclaurinTerms[T Float](t T) int {
	n := int(math.Floor(math.Abs(float64(t)))) + 5
	return max(n, minEulerMaclaurinTerms)
}

// eulerMaclaurin approximates ζ(s), s = ½+it, by
//
//	Σ_{n<N} n^-s + N^(1-s)/(s-1) + ½N^-s + (B₂/2)·s·N^(-s-1) + (B₄/24)·s(s+1)(s+2)·N^(-s-3)
//
// and rotates it onto the real axis with e^{iθ(t)}. The two correction terms
// are -B₂ₖ/(2k)!·f^(2k-1)(N) for f(x) = x^-s; higher orders are not included.
func (e *Evaluator[T]) eulerMaclaurin(t T) T {
	n := EulerMaclaurinTerms(t)
	if n <= 1 {
		return 0
	}

	s := complexT[T]{re: 0.5, im: t}
	negS := s.neg()

	var zeta complexT[T]
	for k := 1; k < n; k++ {
		zeta = zeta.add(realPow(T(k), negS))
	}

	bigN := T(n)
	nNegS := realPow(bigN, negS)
	one := complexT[T]{re: 1}

	// ∫_N^∞ x^-s dx
	tail := realPow(bigN, one.add(negS)).div(s.add(one.neg()))
	zeta = zeta.add(tail).add(nNegS.scale(0.5))

	b2 := e.bernoulli.Get(2)
	b4 := e.bernoulli.Get(4)

	c2 := s.mul(nNegS).scale(b2 / 2 / bigN)
	s1 := s.add(one)
	s2 := s1.add(one)
	c4 := s.mul(s1).mul(s2).mul(nNegS).scale(b4 / 24 / (bigN * bigN * bigN))
	zeta = zeta.add(c2).add(c4)

	return polar(1, Theta(t)).mul(zeta).re
}
