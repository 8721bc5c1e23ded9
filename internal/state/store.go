package state

import "sync"

// Store serialises reducers over a State.
type Store struct {
	mu sync.RWMutex
	st State
}

func NewStore(initial State) *Store {
	return &Store{st: initial.Clone()}
}

// Get returns a deep copy of the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Clone()
}

// Dispatch applies r. On error the state is left unchanged and the current
// state is returned alongside the error.
func (s *Store) Dispatch(r Reducer) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := r(s.st.Clone())
	if err != nil {
		return s.st.Clone(), err
	}
	next.Version = s.st.Version + 1
	s.st = next
	return next.Clone(), nil
}
