package listing

import (
	"fmt"
	"maps"
	"strings"
)

// Category is the marketplace service category.
type Category string

// Known categories.
const (
	Venue        Category = "venue"
	Catering     Category = "catering"
	Decor        Category = "decor"
	Photographer Category = "photographer"
)

// ParseCategory normalizes a category value (trim + lowercase).
// Unknown values are kept as-is and carry no typed details.
func ParseCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// IsKnown reports whether the category has a typed attribute schema.
func (c Category) IsKnown() bool {
	return c == Venue || c == Catering || c == Decor || c == Photographer
}

// Status is the listing publication status.
type Status string

// Listing statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Listing is a read-only marketplace listing (immutable value object).
type Listing struct {
	id          string
	vendorID    string
	name        string
	category    Category
	location    string
	description string
	status      Status
	attributes  map[string]any
	details     Details
}

// New validates and creates a Listing.
// ID and name are required. Status defaults to active.
func New(
	id, vendorID, name, category, location, description, status string,
	attributes map[string]any,
) (Listing, error) {
	if id == "" {
		return Listing{}, fmt.Errorf("listing ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return Listing{}, fmt.Errorf("listing name is required")
	}
	st := Status(strings.ToLower(strings.TrimSpace(status)))
	if st == "" {
		st = StatusActive
	}
	return Reconstruct(id, vendorID, name, category, location, description, string(st), attributes), nil
}

// Reconstruct creates a Listing without validation (storage hydration).
func Reconstruct(
	id, vendorID, name, category, location, description, status string,
	attributes map[string]any,
) Listing {
	cat := ParseCategory(category)
	attrs := maps.Clone(attributes)
	if attrs == nil {
		attrs = map[string]any{}
	}
	return Listing{
		id:          id,
		vendorID:    vendorID,
		name:        strings.TrimSpace(name),
		category:    cat,
		location:    strings.TrimSpace(location),
		description: strings.TrimSpace(description),
		status:      Status(status),
		attributes:  attrs,
		details:     DecodeDetails(cat, attrs),
	}
}

// ID returns the listing identifier.
func (l *Listing) ID() string { return l.id }

// VendorID returns the owning vendor identifier.
func (l *Listing) VendorID() string { return l.vendorID }

// Name returns the listing title.
func (l *Listing) Name() string { return l.name }

// Category returns the normalized category.
func (l *Listing) Category() Category { return l.category }

// Location returns the free-text location.
func (l *Listing) Location() string { return l.location }

// Description returns the listing description (may be empty).
func (l *Listing) Description() string { return l.description }

// Status returns the publication status.
func (l *Listing) Status() Status { return l.status }

// Attributes returns a copy of the raw category attributes. Nested values
// (lists, objects) are shared and must be treated as read-only.
func (l *Listing) Attributes() map[string]any { return maps.Clone(l.attributes) }

// Details returns the typed attribute variant, nil for unknown categories.
func (l *Listing) Details() Details { return l.details }

// AvailableGuests returns max(capacity, maxGuests) over the raw attributes,
// each defaulting to 0 when absent or non-numeric.
//
// The lookup ignores the category: a listing that declares neither
// attribute (every decor listing, for example) has zero available guests.
func AvailableGuests(l *Listing) float64 {
	return max(Number(l.attributes["capacity"]), Number(l.attributes["maxGuests"]))
}
