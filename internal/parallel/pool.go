package parallel

import "sync"

// ForEach calls fn(i) for i in [0, n) on at most workers goroutines and
// returns the first error. Every index is visited even after a failure;
// fn is expected to check its own context.
func ForEach(n, workers int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	workers = max(1, min(workers, n))

	var ec ErrorCollector
	var wg sync.WaitGroup
	next := make(chan int)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				ec.SetError(fn(i))
			}
		}()
	}
	for i := range n {
		next <- i
	}
	close(next)
	wg.Wait()
	return ec.Err()
}
