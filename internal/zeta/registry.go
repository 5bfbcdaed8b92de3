package zeta

// Note: CalculatorFactory is not mockable with mockgen because Register()
// uses the unexported coreCalculator type. Use TestFactory instead.

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches Calculator instances by key.
type CalculatorFactory interface {
	// Create returns a fresh Calculator for name.
	Create(name string) (Calculator, error)

	// Get returns a cached Calculator for name, creating it on first use.
	Get(name string) (Calculator, error)

	// List returns the sorted registered keys.
	List() []string

	// Register adds or replaces a calculator type.
	Register(name string, creator func() coreCalculator) error

	// GetAll returns every registered calculator keyed by name.
	GetAll() map[string]Calculator
}

// DefaultFactory is the default implementation of CalculatorFactory.
// It maintains a thread-safe registry of calculator creators and
// caches Calculator instances for reuse.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

// NewDefaultFactory creates a factory with the three methods registered at
// float64 precision under their short keys:
//   - "em": Euler-Maclaurin, O(t)
//   - "rs": Riemann-Siegel main sum, O(√t)
//   - "os": Odlyzko-Schonhage block, O(√t) setup per block
//
// Returns:
//   - *DefaultFactory: A new factory with default calculators registered.
func NewDefaultFactory() *DefaultFactory {
	return NewFactoryWithPrecision(64)
}

// NewFactoryWithPrecision is NewDefaultFactory with every method evaluated in
// float32 when bits is 32.
func NewFactoryWithPrecision(bits int) *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}
	for _, m := range Methods() {
		if bits == 32 {
			_ = f.Register(m.Key(), func() coreCalculator { return newMethodCore[float32](m) })
		} else {
			_ = f.Register(m.Key(), func() coreCalculator { return newMethodCore[float64](m) })
		}
	}
	return f
}

// Register adds a new calculator type to the factory.
// The creator function is called lazily when the calculator is first requested.
// If a calculator with the same name already exists, it will be replaced.
//
// Parameters:
//   - name: The unique identifier for the calculator type.
//   - creator: A function that creates a new coreCalculator instance.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if creator == nil {
		return fmt.Errorf("nil creator for calculator: %s", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Create creates a new Calculator instance by name.
// Unlike Get(), this always creates a fresh instance without caching.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return newCalculator(creator()), nil
}

// Get returns a Calculator instance by name.
// Instances are cached and reused for subsequent calls with the same name.
//
// Parameters:
//   - name: The name of the calculator to retrieve.
//
// Returns:
//   - Calculator: The Calculator instance.
//   - error: An error if the calculator type is not registered.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	if calc, exists := f.calculators[name]; exists {
		f.mu.RUnlock()
		return calc, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if calc, exists := f.calculators[name]; exists {
		return calc, nil
	}

	creator, ok := f.creators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}

	calc := newCalculator(creator())
	f.calculators[name] = calc
	return calc, nil
}

// List returns a sorted list of all registered calculator names.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a map of all registered calculators, creating any that
// have not been requested yet.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, creator := range f.creators {
		if _, exists := f.calculators[name]; !exists {
			f.calculators[name] = newCalculator(creator())
		}
	}

	result := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		result[name] = calc
	}
	return result
}

// MustGet is like Get but panics if the calculator is not found.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("zeta: required calculator not found: %s", name))
	}
	return calc
}

// Has checks if a calculator with the given name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

// globalFactory is the default global factory instance.
var globalFactory = NewDefaultFactory()

// GlobalFactory returns the global factory instance.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// UnknownCalculatorError is returned when a calculator name is not found.
type UnknownCalculatorError struct {
	Name string
}

func (e *UnknownCalculatorError) Error() string {
	return "unknown calculator: " + e.Name
}
