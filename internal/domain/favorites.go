package domain

import "sort"

// FavoriteSet is the set of listing identifiers a user has marked.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from the given identifiers.
func NewFavoriteSet(ids ...string) FavoriteSet {
	s := make(FavoriteSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set is empty.
func (s FavoriteSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s FavoriteSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Toggle returns a new set with id's membership flipped: removed when present,
// added when absent. The input set is left untouched.
func Toggle(s FavoriteSet, id string) FavoriteSet {
	out := make(FavoriteSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	if _, ok := out[id]; ok {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}
