package resource

import "sync/atomic"

// Store publishes the current index snapshot. Snapshots are never
// mutated in place, only replaced wholesale, so readers pay no
// synchronization cost beyond an atomic pointer load. A reader that
// obtained a snapshot before a swap keeps seeing its own snapshot in
// full.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore creates a store publishing an empty index until the first
// install.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewIndex())
	return s
}

// Install replaces the published snapshot in one indivisible step.
// A nil index is ignored.
func (s *Store) Install(idx *Index) {
	if idx == nil {
		return
	}
	s.current.Store(idx)
}

// Current returns the presently published snapshot. It never blocks and
// never returns nil.
func (s *Store) Current() *Index {
	return s.current.Load()
}
