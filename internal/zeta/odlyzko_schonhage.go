package zeta

// blockTerms holds the per-term setup of one block evaluation: the base term
// n^{-1/2}·e^{-i·start·ln n} and ln n for n = 1..N. It is built once per
// block and never shared between blocks.
type blockTerms[T Float] struct {
	base []complexT[T]
	logs []T
}

// OdlyzkoSchonhageTerms returns max(floor(sqrt(start/2π)), 1).
func OdlyzkoSchonhageTerms[T Float](start T) int {
	return max(termCount(start), 1)
}

func newBlockTerms[T Float](start T) blockTerms[T] {
	n := OdlyzkoSchonhageTerms(start)
	bt := blockTerms[T]{
		base: make([]complexT[T], n),
		logs: make([]T, n),
	}
	for i := range n {
		k := T(i + 1)
		lk := ln(k)
		bt.logs[i] = lk
		bt.base[i] = polar(1/sqrt(k), -start*lk)
	}
	return bt
}

// at evaluates Z at t = start + delta by rotating each base term by the
// extra phase -delta·ln n. The perturbation is linear in delta around the
// block start; a sample near the origin returns -0.5 like Compute.
func (bt blockTerms[T]) at(t, delta T) T {
	if nearOrigin(t) {
		return -0.5
	}
	var sum complexT[T]
	for i, b := range bt.base {
		sum = sum.add(b.mul(polar(1, -delta*bt.logs[i])))
	}
	return 2 * polar(1, Theta(t)).mul(sum).re
}
