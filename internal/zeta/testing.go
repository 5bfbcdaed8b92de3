package zeta

import (
	"context"
	"sort"
)

// MockCalculator is a hand-written Calculator for tests in other packages.
// Every sample of a block evaluates to Value unless Fn is set.
type MockCalculator struct {
	Value      float64
	Err        error
	MethodKind Method
	Label      string
	Fn         func(ctx context.Context, b Block) ([]float64, error)
}

// Name returns Label, or "mock" when it is empty.
func (m *MockCalculator) Name() string {
	if m.Label != "" {
		return m.Label
	}
	return "mock"
}

// Method returns MethodKind.
func (m *MockCalculator) Method() Method {
	return m.MethodKind
}

// Evaluate returns the single sample of Point(t).
func (m *MockCalculator) Evaluate(ctx context.Context, t float64) (float64, error) {
	values, err := m.EvaluateBlockWithObservers(ctx, nil, 0, Point(t))
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// EvaluateBlock reports completion on progressChan and returns the configured
// result.
func (m *MockCalculator) EvaluateBlock(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, b Block) ([]float64, error) {
	values, err := m.EvaluateBlockWithObservers(ctx, nil, calcIndex, b)
	if err == nil && progressChan != nil {
		progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1.0}
	}
	return values, err
}

// EvaluateBlockWithObservers returns the configured result and notifies
// subject of completion on success.
func (m *MockCalculator) EvaluateBlockWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, b Block) ([]float64, error) {
	var values []float64
	var err error
	switch {
	case m.Fn != nil:
		values, err = m.Fn(ctx, b)
	case m.Err != nil:
		err = m.Err
	default:
		if err = b.Validate(); err == nil {
			values = make([]float64, b.Points)
			for i := range values {
				values[i] = m.Value
			}
		}
	}
	if err == nil && subject != nil {
		subject.Notify(calcIndex, 1.0)
	}
	return values, err
}

// TestFactory is a CalculatorFactory holding a fixed set of calculators.
type TestFactory struct {
	calculators map[string]Calculator
}

// NewTestFactory returns a factory serving the given calculators.
func NewTestFactory(calculators map[string]Calculator) *TestFactory {
	if calculators == nil {
		calculators = make(map[string]Calculator)
	}
	return &TestFactory{calculators: calculators}
}

// Create returns the calculator by name.
func (f *TestFactory) Create(name string) (Calculator, error) {
	return f.Get(name)
}

// Get returns the calculator by name.
func (f *TestFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return calc, nil
}

// List returns the sorted calculator names.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register is a no-op; calculators are fixed at construction.
func (f *TestFactory) Register(string, func() coreCalculator) error {
	return nil
}

// GetAll returns a copy of the calculators.
func (f *TestFactory) GetAll() map[string]Calculator {
	result := make(map[string]Calculator, len(f.calculators))
	for k, v := range f.calculators {
		result[k] = v
	}
	return result
}
