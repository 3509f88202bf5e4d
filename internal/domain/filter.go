package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Evaluate returns the listings satisfying every active constraint in c,
// in their original order. The input slice is never modified and an empty
// input yields an empty, non-nil result.
func Evaluate(listings []Listing, c Criteria) []Listing {
	m := newMatcher(c)

	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if m.match(l) {
			out = append(out, l)
		}
	}
	return out
}

// matcher holds criteria with text needles already case-folded so a single
// pass over the candidates only folds listing fields.
type matcher struct {
	c        Criteria
	fold     cases.Caser
	query    string
	location string
	types    map[string]struct{}
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{
		c:    c,
		fold: cases.Fold(),
	}
	if c.Query != "" {
		m.query = m.fold.String(c.Query)
	}
	if c.Location != "" {
		m.location = m.fold.String(c.Location)
	}
	if len(c.PropertyTypes) > 0 {
		m.types = make(map[string]struct{}, len(c.PropertyTypes))
		for _, t := range c.PropertyTypes {
			m.types[t] = struct{}{}
		}
	}
	return m
}

func (m *matcher) match(l Listing) bool {
	if m.query != "" || m.location != "" {
		location := m.fold.String(l.Location)

		if m.query != "" &&
			!strings.Contains(m.fold.String(l.Title), m.query) &&
			!strings.Contains(location, m.query) {
			return false
		}
		if m.location != "" && !strings.Contains(location, m.location) {
			return false
		}
	}

	if m.c.PriceMin != nil && l.Price < *m.c.PriceMin {
		return false
	}
	if m.c.PriceMax != nil && l.Price > *m.c.PriceMax {
		return false
	}

	if m.types != nil {
		if _, ok := m.types[l.PropertyType]; !ok {
			return false
		}
	}

	if !atLeast(l.Beds, m.c.MinBeds) || !atLeast(l.Baths, m.c.MinBaths) {
		return false
	}

	return true
}

// atLeast is vacuously true without a minimum; an unknown count never
// satisfies a minimum.
func atLeast(have, minimum *int) bool {
	if minimum == nil {
		return true
	}
	return have != nil && *have >= *minimum
}
