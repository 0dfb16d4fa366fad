package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Hybrid filters by hard constraints then ranks by boosts plus term relevance.
	Hybrid Mode = "hybrid"
	// Fuzzy matches name and description with typo tolerance.
	Fuzzy    Mode = "fuzzy"
	Semantic Mode = "semantic"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Fuzzy || m == Semantic
}
