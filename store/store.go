package store

// Store holds an ordered collection of records identified by an int64 id.
// Insertion order defines the default display order; callers that need a
// different order sort a copy at render time. The Store is the single source
// of truth for its widget and is never mutated by renderers.
type Store[R any] struct {
	id      func(R) int64
	records []R
}

// New creates an empty Store using id to identify records.
func New[R any](id func(R) int64) *Store[R] {
	if id == nil {
		panic("store.New: id func is nil")
	}
	return &Store[R]{id: id}
}

// Add appends r and returns it.
func (s *Store[R]) Add(r R) R {
	s.records = append(s.records, r)
	return r
}

// Remove deletes the record with the given id. Missing ids are ignored since
// repeated delete clicks race with each other.
func (s *Store[R]) Remove(id int64) {
	for i := range s.records {
		if s.id(s.records[i]) == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

// Update applies patch in place to the record with the given id. Missing ids
// are a silent no-op.
func (s *Store[R]) Update(id int64, patch func(*R)) {
	for i := range s.records {
		if s.id(s.records[i]) == id {
			patch(&s.records[i])
			return
		}
	}
}

// Find returns the record with the given id and whether it exists.
func (s *Store[R]) Find(id int64) (R, bool) {
	for i := range s.records {
		if s.id(s.records[i]) == id {
			return s.records[i], true
		}
	}
	var zero R
	return zero, false
}

// Clear empties the Store in place, keeping its identity.
func (s *Store[R]) Clear() {
	s.records = s.records[:0]
}

// Replace swaps the full record set, used when loading a snapshot.
func (s *Store[R]) Replace(records []R) {
	s.records = append(s.records[:0], records...)
}

// Records returns a copy of the current records in insertion order.
func (s *Store[R]) Records() []R {
	return append([]R(nil), s.records...)
}

// Len reports the number of records.
func (s *Store[R]) Len() int {
	return len(s.records)
}
