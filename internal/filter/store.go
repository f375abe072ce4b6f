package filter

import "sync"

// Store holds the current listing criteria. Unlike the cart and wishlist
// it is not persisted: filter state resets with the process, matching the
// session-scoped behavior of the product grid.
type Store struct {
	mu       sync.Mutex
	criteria Criteria
}

// NewStore starts at the default criteria.
func NewStore() *Store {
	return &Store{criteria: Default()}
}

// Current returns the criteria value.
func (s *Store) Current() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Update applies fn to the current criteria and stores the result.
func (s *Store) Update(fn func(Criteria) Criteria) Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = fn(s.criteria)
	return s.criteria
}

// Reset restores the defaults.
func (s *Store) Reset() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = Default()
	return s.criteria
}
