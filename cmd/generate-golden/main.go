package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenBernoulli is one exact Bernoulli number in the golden file.
type GoldenBernoulli struct {
	N     int     `json:"n"`
	Num   string  `json:"num"`
	Den   string  `json:"den"`
	Value float64 `json:"value"`
}

func main() {
	outputDir := flag.String("out", "internal/zeta/testdata", "Output directory for the golden file")
	maxN := flag.Int("n", 30, "Largest Bernoulli index to generate")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "bernoulli_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	fmt.Println("Generating golden data...")

	values := exactBernoulli(*maxN)
	data := make([]GoldenBernoulli, 0, len(values))
	for n, b := range values {
		f, _ := b.Float64()
		data = append(data, GoldenBernoulli{
			N:     n,
			Num:   b.Num().String(),
			Den:   b.Denom().String(),
			Value: f,
		})
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated %d Bernoulli numbers at %s\n", len(data), filename)
}

// exactBernoulli is the math/big oracle: the standard recurrence over exact
// rationals with binomials from big.Int.Binomial.
func exactBernoulli(n int) []*big.Rat {
	out := []*big.Rat{big.NewRat(1, 1)}
	term := new(big.Rat)
	for m := 1; m <= n; m++ {
		sum := new(big.Rat)
		for k := 0; k < m; k++ {
			term.SetInt(new(big.Int).Binomial(int64(m+1), int64(k)))
			term.Mul(term, out[k])
			sum.Add(sum, term)
		}
		out = append(out, sum.Quo(sum, big.NewRat(-int64(m+1), 1)))
	}
	return out
}
