package zeta

import "sync"

// ProgressObserver receives progress notifications from a ProgressSubject.
type ProgressObserver interface {
	// Update is called with the calculator index and the normalized progress
	// (0.0 to 1.0) of its current block.
	Update(calcIndex int, progress float64)
}

// ProgressSubject fans progress notifications out to registered observers,
// synchronously and in registration order.
//
// ProgressSubject is safe for concurrent use.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject returns a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register appends observer. A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes the first registration of observer, keeping the order of
// the others.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify forwards one update to every observer.
func (s *ProgressSubject) Notify(calcIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(calcIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressReporter binds calcIndex and returns the callback form.
func (s *ProgressSubject) AsProgressReporter(calcIndex int) ProgressReporter {
	return func(progress float64) {
		s.Notify(calcIndex, progress)
	}
}
