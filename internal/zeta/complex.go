package zeta

import "math"

// complexT is a minimal complex number over a generic float. The built-in
// complex64/complex128 types cannot be parameterized by Float.
type complexT[T Float] struct {
	re, im T
}

// polar returns r·e^{iφ}.
func polar[T Float](r, phi T) complexT[T] {
	s, c := math.Sincos(float64(phi))
	return complexT[T]{re: r * T(c), im: r * T(s)}
}

func (a complexT[T]) add(b complexT[T]) complexT[T] {
	return complexT[T]{re: a.re + b.re, im: a.im + b.im}
}

func (a complexT[T]) mul(b complexT[T]) complexT[T] {
	return complexT[T]{
		re: a.re*b.re - a.im*b.im,
		im: a.re*b.im + a.im*b.re,
	}
}

func (a complexT[T]) scale(k T) complexT[T] {
	return complexT[T]{re: a.re * k, im: a.im * k}
}

func (a complexT[T]) neg() complexT[T] {
	return complexT[T]{re: -a.re, im: -a.im}
}

func (a complexT[T]) div(b complexT[T]) complexT[T] {
	d := b.re*b.re + b.im*b.im
	return complexT[T]{
		re: (a.re*b.re + a.im*b.im) / d,
		im: (a.im*b.re - a.re*b.im) / d,
	}
}

// realPow returns x^s for a positive real base x and complex exponent s,
// i.e. x^σ·e^{iτ·ln x}.
func realPow[T Float](x T, s complexT[T]) complexT[T] {
	lx := math.Log(float64(x))
	return polar(T(math.Exp(float64(s.re)*lx)), s.im*T(lx))
}
