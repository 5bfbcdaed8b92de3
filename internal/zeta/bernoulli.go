package zeta

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bernoulliCacheSize = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "hardyz_bernoulli_cache_size",
		Help: "Number of Bernoulli numbers resident in the shared tables",
	},
	[]string{"precision"},
)

// BernoulliTable is an append-only table of Bernoulli numbers B_0..B_k.
//
// Entries are produced strictly in ascending order by the recurrence
// B_m = -1/(m+1) · Σ_{k<m} C(m+1,k)·B_k, so every entry depends on all of its
// predecessors. Reads of resident entries take the read lock only; growth
// holds the write lock for the whole extension so readers never observe a
// partially appended sequence.
//
// BernoulliTable is safe for concurrent use.
type BernoulliTable[T Float] struct {
	mu     sync.RWMutex
	values []T
	gauge  prometheus.Gauge
}

// NewBernoulliTable returns a private table seeded with B_0 = 1.
func NewBernoulliTable[T Float]() *BernoulliTable[T] {
	return &BernoulliTable[T]{values: []T{1}}
}

func newSharedTable[T Float](precision string) *BernoulliTable[T] {
	tbl := NewBernoulliTable[T]()
	tbl.gauge = bernoulliCacheSize.WithLabelValues(precision)
	tbl.gauge.Set(1)
	return tbl
}

var (
	bernoulli32 = newSharedTable[float32]("float32")
	bernoulli64 = newSharedTable[float64]("float64")
)

// SharedBernoulli returns the process-wide table for the precision T.
func SharedBernoulli[T Float]() *BernoulliTable[T] {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(bernoulli32).(*BernoulliTable[T])
	default:
		return any(bernoulli64).(*BernoulliTable[T])
	}
}

// Bernoulli returns B_n from the shared table for T. It panics if n < 0.
func Bernoulli[T Float](n int) T {
	return SharedBernoulli[T]().Get(n)
}

// Get returns B_n, extending the table up to n when needed.
// A negative index is a programming error and panics.
func (b *BernoulliTable[T]) Get(n int) T {
	if n < 0 {
		panic(fmt.Sprintf("zeta: negative Bernoulli index %d", n))
	}

	b.mu.RLock()
	if n < len(b.values) {
		v := b.values[n]
		b.mu.RUnlock()
		return v
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	// Another writer may have grown the table while we waited.
	if n >= len(b.values) {
		b.extend(n)
	}
	return b.values[n]
}

// extend appends B_len..B_n. The caller must hold the write lock.
func (b *BernoulliTable[T]) extend(n int) {
	for m := len(b.values); m <= n; m++ {
		var sum T
		for k := 0; k < m; k++ {
			sum += Binomial[T](m+1, k) * b.values[k]
		}
		b.values = append(b.values, -sum/T(m+1))
	}
	if b.gauge != nil {
		b.gauge.Set(float64(len(b.values)))
	}
}

// Len reports how many entries are resident.
func (b *BernoulliTable[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}

// Values returns a copy of B_0..B_n, growing the table first if needed.
func (b *BernoulliTable[T]) Values(n int) []T {
	b.Get(n)
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]T, n+1)
	copy(out, b.values[:n+1])
	return out
}
