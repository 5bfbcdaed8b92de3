package zeta

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidPoints is returned when a block is requested with fewer than one
// sample.
var ErrInvalidPoints = errors.New("block requires at least one point")

// Evaluator computes the Hardy Z-function Z(t) = e^{iθ(t)}·ζ(½+it) at the
// precision T. Evaluations hold no state between calls apart from the
// Bernoulli table, so one Evaluator may be shared by any number of goroutines.
type Evaluator[T Float] struct {
	bernoulli *BernoulliTable[T]
}

// NewEvaluator returns an evaluator backed by the shared Bernoulli table for T.
func NewEvaluator[T Float]() *Evaluator[T] {
	return &Evaluator[T]{bernoulli: SharedBernoulli[T]()}
}

// NewEvaluatorWithTable returns an evaluator that reads Bernoulli numbers from
// tbl instead of the shared table.
func NewEvaluatorWithTable[T Float](tbl *BernoulliTable[T]) *Evaluator[T] {
	if tbl == nil {
		panic("zeta: the `BernoulliTable` cannot be nil")
	}
	return &Evaluator[T]{bernoulli: tbl}
}

// Compute returns Z(t) using method m. Every method returns -0.5 for
// |t| < 1e-9. An out-of-range Method panics.
func (e *Evaluator[T]) Compute(t T, m Method) T {
	if nearOrigin(t) {
		return -0.5
	}
	switch m {
	case EulerMaclaurin:
		return e.eulerMaclaurin(t)
	case RiemannSiegel:
		return riemannSiegel(t)
	case OdlyzkoSchonhage:
		terms := newBlockTerms(t)
		return terms.at(t, 0)
	default:
		panic(fmt.Sprintf("zeta: unhandled method %d", int(m)))
	}
}

// ComputeBlock evaluates Z at points evenly spaced samples
// t_k = start + k·length/(points-1). A single point uses a step of 0.
// Results are returned in sample order.
func (e *Evaluator[T]) ComputeBlock(start, length T, points int, m Method) ([]T, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPoints, points)
	}
	out := make([]T, 0, points)
	for _, z := range e.Samples(start, length, points, m) {
		out = append(out, z)
	}
	return out, nil
}

// Samples yields (k, Z(t_k)) for the block lazily, in index order. It yields
// nothing when points <= 0. With OdlyzkoSchonhage the per-term setup is done
// once before the first yield and released when iteration ends.
func (e *Evaluator[T]) Samples(start, length T, points int, m Method) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if points <= 0 {
			return
		}
		step := BlockStep(length, points)

		if m == OdlyzkoSchonhage {
			terms := newBlockTerms(start)
			for k := range points {
				delta := T(k) * step
				if !yield(k, terms.at(start+delta, delta)) {
					return
				}
			}
			return
		}

		for k := range points {
			if !yield(k, e.Compute(start+T(k)*step, m)) {
				return
			}
		}
	}
}

// BlockStep returns the sample spacing length/(points-1), or 0 when the block
// has a single point.
func BlockStep[T Float](length T, points int) T {
	if points > 1 {
		return length / T(points-1)
	}
	return 0
}
