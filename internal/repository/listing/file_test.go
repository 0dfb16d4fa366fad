package listing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	domlisting "github.com/kailas-cloud/listingsearch/internal/domain/listing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "catalog.json", `[
		{"id":"1","vendorId":"v1","name":"Grand Ballroom","category":"Venue","location":"Mumbai",
		 "categoryDetails":{"venueType":"banquet","capacity":"300","amenities":["parking","ac"]}},
		{"id":"2","name":"Spice Feast","category":"catering","location":"Delhi","status":"inactive",
		 "categoryDetails":{"maxGuests":500}}
	]`)

	src, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := src.Listings(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	venue, ok := got[0].Details().(domlisting.VenueDetails)
	if !ok || venue.Capacity != 300 || len(venue.Amenities) != 2 {
		t.Errorf("venue details = %#v", got[0].Details())
	}
	if got[1].Status() != domlisting.StatusInactive {
		t.Errorf("status = %q", got[1].Status())
	}
	if domlisting.AvailableGuests(&got[1]) != 500 {
		t.Errorf("catering guests = %v", domlisting.AvailableGuests(&got[1]))
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
- id: "d1"
  name: Royal Decor Studio
  category: decor
  location: Jaipur
  description: elegant floral decor
  categoryDetails:
    minPrice: 20000
    maxPrice: 90000
    eventTypes: [wedding, reception]
`)

	src, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := src.Listings(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(got))
	}
	decor, ok := got[0].Details().(domlisting.DecorDetails)
	if !ok || decor.MaxPrice != 90000 || len(decor.EventTypes) != 2 {
		t.Errorf("decor details = %#v", got[0].Details())
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"malformed", "c.json", `[{`, "parse catalog"},
		{"missing name", "c.json", `[{"id":"1","category":"venue"}]`, "listing #0"},
		{"duplicate id", "c.json", `[{"id":"1","name":"a"},{"id":"1","name":"b"}]`, "duplicate id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tc.file, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("LoadFile() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
