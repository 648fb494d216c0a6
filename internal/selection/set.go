// Package selection implements the set of tag ids attached to an entity.
package selection

import "slices"

// Set is a set of tag ids that remembers insertion order.
type Set struct {
	ids []string
}

// New creates a set from ids, dropping duplicates and empty ids.
func New(ids []string) *Set {
	s := &Set{}
	for _, id := range ids {
		if id != "" && !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle removes id if present, otherwise adds it, and returns the new
// membership.
func (s *Set) Toggle(id string) []string {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	} else {
		s.ids = append(s.ids, id)
	}
	return s.IDs()
}

// Contains reports whether id is a member.
func (s *Set) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// Prune removes every member not in valid.
func (s *Set) Prune(valid map[string]struct{}) {
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool {
		_, ok := valid[id]
		return !ok
	})
}

// IDs returns a copy of the members in insertion order. It never returns nil.
func (s *Set) IDs() []string {
	return append([]string{}, s.ids...)
}

// Len returns the number of members.
func (s *Set) Len() int { return len(s.ids) }

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{ids: s.IDs()}
}

// Equal reports whether both sets have the same members, regardless of order.
func (s *Set) Equal(other *Set) bool {
	return SameMembers(s.ids, other.ids)
}

// SameMembers reports whether a and b hold the same ids, regardless of order.
func SameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range a {
		if !slices.Contains(b, id) {
			return false
		}
	}
	return true
}
