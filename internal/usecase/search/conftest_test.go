package search

import (
	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/result"
)

func mk(id, name, category, location, description string, attrs map[string]any) listing.Listing {
	return listing.Reconstruct(id, "vendor-"+id, name, category, location, description, "active", attrs)
}

func ids(rs []result.Result) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].Listing().ID()
	}
	return out
}

func listingIDs(ls []listing.Listing) []string {
	out := make([]string, len(ls))
	for i := range ls {
		out[i] = ls[i].ID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// marketplace is a small mixed corpus shared by the strategy tests.
func marketplace() []listing.Listing {
	return []listing.Listing{
		mk("grand", "Grand Ballroom", "venue", "Pune", "Banquet hall for weddings", map[string]any{"capacity": 300.0}),
		mk("lawn", "Garden Lawn", "venue", "Kothrud, Pune", "Open garden for outdoor weddings", map[string]any{"capacity": "150"}),
		mk("feast", "Royal Feast Caterers", "catering", "Mumbai", "North Indian buffet", map[string]any{"maxGuests": 500.0, "minGuests": 50.0}),
		mk("blooms", "Royal Decor Studio", "decor", "Pune", "elegant floral decor", map[string]any{"decorStyle": []any{"floral"}}),
		mk("shots", "Sunset Photography", "photographer", "Mumbai", "wedding photos and films", nil),
	}
}
