package filter

import "strings"

// Criteria are the hard constraints applied before ranking.
// Zero values disable the corresponding check.
type Criteria struct {
	category  string
	location  string
	minGuests int
}

// New normalizes filter criteria: category and location are trimmed and
// lowercased, a non-positive guest count disables the capacity check.
func New(category, location string, minGuests int) Criteria {
	if minGuests < 0 {
		minGuests = 0
	}
	return Criteria{
		category:  strings.ToLower(strings.TrimSpace(category)),
		location:  strings.ToLower(strings.TrimSpace(location)),
		minGuests: minGuests,
	}
}

// Category returns the normalized category filter ("" = any).
func (c Criteria) Category() string { return c.category }

// Location returns the normalized location substring ("" = any).
func (c Criteria) Location() string { return c.location }

// MinGuests returns the required guest capacity (0 = any).
func (c Criteria) MinGuests() int { return c.minGuests }

// IsEmpty reports whether no constraint is set.
func (c Criteria) IsEmpty() bool {
	return c.category == "" && c.location == "" && c.minGuests == 0
}
