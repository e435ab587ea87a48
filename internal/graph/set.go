package graph

// identified is satisfied by every graph object carrying an Ident.
type identified interface {
	ID() uint64
}

// Set is an identity-keyed, insertion-ordered set of graph objects.
//
// Membership is decided solely by the identity token, and iteration order is
// first-seen order, which makes traversals over the same graph reproducible.
type Set[T identified] struct {
	ids   map[uint64]struct{}
	order []T
}

// NewSet returns an empty set.
func NewSet[T identified]() *Set[T] {
	return &Set[T]{ids: make(map[uint64]struct{})}
}

// Add inserts v and reports whether it was newly added.
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.ids[v.ID()]; ok {
		return false
	}
	s.ids[v.ID()] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.ids[v.ID()]
	return ok
}

// ContainsID reports whether an object with the given token is in the set.
func (s *Set[T]) ContainsID(id uint64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of distinct objects in the set.
func (s *Set[T]) Len() int {
	return len(s.order)
}

// Ordered returns the members in first-seen order. The returned slice is
// owned by the set and must not be modified.
func (s *Set[T]) Ordered() []T {
	return s.order
}

// ValueSet is an identity set of Values.
type ValueSet = Set[Value]

// OpSet is an identity set of Operations.
type OpSet = Set[Operation]

// NewValueSet returns an empty ValueSet.
func NewValueSet() *ValueSet { return NewSet[Value]() }

// NewOpSet returns an empty OpSet.
func NewOpSet() *OpSet { return NewSet[Operation]() }
