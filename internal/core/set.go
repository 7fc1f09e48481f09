package core

import "slices"

// userSet is a set of user IDs that remembers insertion order, so that
// broadcasts list reactors in the order they reacted.
type userSet struct {
	ids   []string
	index map[string]struct{}
}

func newUserSet() *userSet {
	return &userSet{index: make(map[string]struct{})}
}

// add inserts id. Returns true if newly added.
func (s *userSet) add(id string) bool {
	if _, exists := s.index[id]; exists {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// remove deletes id. Returns true if removed.
func (s *userSet) remove(id string) bool {
	if _, exists := s.index[id]; !exists {
		return false
	}
	delete(s.index, id)
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
	return true
}

func (s *userSet) len() int {
	return len(s.ids)
}

// list returns a copy of the members in insertion order. Never nil.
func (s *userSet) list() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
