package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domlisting "github.com/kailas-cloud/listingsearch/internal/domain/listing"
)

// Static serves a fixed in-memory catalog.
type Static struct {
	listings []domlisting.Listing
}

// NewStatic wraps an already loaded catalog.
func NewStatic(listings []domlisting.Listing) *Static {
	return &Static{listings: listings}
}

// Listings returns the catalog. Callers must not modify the slice.
func (s *Static) Listings(_ context.Context) ([]domlisting.Listing, error) {
	return s.listings, nil
}

// LoadFile reads a JSON or YAML array of listings. The format is chosen by extension;
// anything other than .yaml/.yml is read as JSON.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var rows []row
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rows)
	default:
		err = json.Unmarshal(data, &rows)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	listings, err := fromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return NewStatic(listings), nil
}

func fromRows(rows []row) ([]domlisting.Listing, error) {
	out := make([]domlisting.Listing, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		l, err := r.validate()
		if err != nil {
			return nil, fmt.Errorf("listing #%d: %w", i, err)
		}
		if _, dup := seen[l.ID()]; dup {
			return nil, fmt.Errorf("listing #%d: duplicate id %q", i, l.ID())
		}
		seen[l.ID()] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}
