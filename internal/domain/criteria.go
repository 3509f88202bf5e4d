package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Criteria is a snapshot of the constraints narrowing the visible listings.
// A zero value (empty string, nil pointer, empty slice) is an inactive constraint.
type Criteria struct {
	Query         string
	Location      string
	PriceMin      *int64
	PriceMax      *int64
	PropertyTypes []string
	MinBeds       *int
	MinBaths      *int
}

// RawCriteria holds criteria exactly as typed into the search form.
type RawCriteria struct {
	Query         string
	Location      string
	PriceMin      string
	PriceMax      string
	PropertyTypes []string
	MinBeds       string
	MinBaths      string
}

// ParseCriteria converts form input into Criteria. Numeric fields that do not
// start with a number are left unset rather than treated as zero.
func ParseCriteria(raw RawCriteria) Criteria {
	c := Criteria{
		Query:    strings.TrimSpace(raw.Query),
		Location: strings.TrimSpace(raw.Location),
		PriceMin: parseLeadingInt(raw.PriceMin),
		PriceMax: parseLeadingInt(raw.PriceMax),
		MinBeds:  toIntPtr(parseLeadingInt(raw.MinBeds)),
		MinBaths: toIntPtr(parseLeadingInt(raw.MinBaths)),
	}

	for _, t := range raw.PropertyTypes {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(c.PropertyTypes, t) {
			continue
		}
		c.PropertyTypes = append(c.PropertyTypes, t)
	}

	return c
}

// Reset clears every constraint.
func (c *Criteria) Reset() {
	*c = Criteria{}
}

// ActiveCount returns how many sub-predicates the criteria switch on.
func (c Criteria) ActiveCount() int {
	n := 0
	if c.Query != "" {
		n++
	}
	if c.Location != "" {
		n++
	}
	if c.PriceMin != nil {
		n++
	}
	if c.PriceMax != nil {
		n++
	}
	if len(c.PropertyTypes) > 0 {
		n++
	}
	if c.MinBeds != nil {
		n++
	}
	if c.MinBaths != nil {
		n++
	}
	return n
}

// IsEmpty reports whether no constraint is active.
func (c Criteria) IsEmpty() bool {
	return c.ActiveCount() == 0
}

// parseLeadingInt reads an optionally signed run of leading digits, ignoring
// surrounding whitespace and any trailing text ("12abc" is 12, "abc" is nil).
func parseLeadingInt(s string) *int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func toIntPtr(v *int64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	if int64(n) != *v {
		return nil
	}
	return &n
}
