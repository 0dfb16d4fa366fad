package search

import (
	"strings"

	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/filter"
)

// Filter keeps the listings that satisfy every criterion, preserving input order.
//
// The guest check compares minGuests against max(capacity, maxGuests) of the raw
// attributes regardless of category, so a guest filter drops listings that
// declare neither attribute (decor, photographers) instead of passing them through.
func Filter(corpus []listing.Listing, c filter.Criteria) []listing.Listing {
	out := make([]listing.Listing, 0, len(corpus))
	for i := range corpus {
		if matches(&corpus[i], c) {
			out = append(out, corpus[i])
		}
	}
	return out
}

func matches(l *listing.Listing, c filter.Criteria) bool {
	if c.Category() != "" && string(l.Category()) != c.Category() {
		return false
	}
	if c.Location() != "" && !strings.Contains(strings.ToLower(l.Location()), c.Location()) {
		return false
	}
	if c.MinGuests() > 0 && listing.AvailableGuests(l) < float64(c.MinGuests()) {
		return false
	}
	return true
}
