//go:build gmp

// Exact Bernoulli numbers backed by GMP. Requires libgmp and -tags=gmp.

package zeta

import (
	"fmt"
	"math/big"

	"github.com/ncw/gmp"
)

// ExactBernoulli returns B_0..B_n as exact rationals with the same recurrence
// as BernoulliTable. Binomial coefficients come from Pascal rows of GMP
// integers and are converted to math/big for the rational arithmetic.
func ExactBernoulli(n int) []*big.Rat {
	if n < 0 {
		panic(fmt.Sprintf("zeta: negative Bernoulli index %d", n))
	}
	out := make([]*big.Rat, 1, n+1)
	out[0] = big.NewRat(1, 1)

	row := pascalNext([]*gmp.Int{gmp.NewInt(1)})
	term := new(big.Rat)
	coeff := new(big.Int)
	for m := 1; m <= n; m++ {
		row = pascalNext(row) // C(m+1, ·)
		sum := new(big.Rat)
		for k := 0; k < m; k++ {
			coeff.SetBytes(row[k].Bytes())
			term.SetInt(coeff)
			term.Mul(term, out[k])
			sum.Add(sum, term)
		}
		sum.Quo(sum, big.NewRat(-int64(m+1), 1))
		out = append(out, sum)
	}
	return out
}

func pascalNext(row []*gmp.Int) []*gmp.Int {
	next := make([]*gmp.Int, len(row)+1)
	next[0] = gmp.NewInt(1)
	next[len(row)] = gmp.NewInt(1)
	for i := 1; i < len(row); i++ {
		next[i] = gmp.NewInt(0)
		next[i].Add(row[i-1], row[i])
	}
	return next
}
