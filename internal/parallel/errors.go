// Package parallel provides small concurrency helpers shared by the scanner
// and the calibration runner.
package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by a group of
// goroutines. The zero value is ready to use.
//
// Usage:
//
//	var ec parallel.ErrorCollector
//	var wg sync.WaitGroup
//	for _, b := range brackets {
//	    wg.Add(1)
//	    go func() {
//	        defer wg.Done()
//	        ec.SetError(refine(b))
//	    }()
//	}
//	wg.Wait()
//	return ec.Err()
type ErrorCollector struct {
	once sync.Once
	mu   sync.Mutex
	err  error
}

// SetError records err if it is the first non-nil error. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
	})
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Reset clears the collector. It must not race with SetError.
func (c *ErrorCollector) Reset() {
	c.once = sync.Once{}
	c.err = nil
}
