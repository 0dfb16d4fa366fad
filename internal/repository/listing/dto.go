package listing

import (
	domlisting "github.com/kailas-cloud/listingsearch/internal/domain/listing"
)

// row is the stored and wire representation of a listing.
// Field names follow the marketplace dashboards (camelCase).
type row struct {
	ID              string         `json:"id" yaml:"id"`
	VendorID        string         `json:"vendorId,omitempty" yaml:"vendorId"`
	Name            string         `json:"name" yaml:"name"`
	Category        string         `json:"category" yaml:"category"`
	Location        string         `json:"location" yaml:"location"`
	Description     string         `json:"description,omitempty" yaml:"description"`
	Status          string         `json:"status,omitempty" yaml:"status"`
	CategoryDetails map[string]any `json:"categoryDetails,omitempty" yaml:"categoryDetails"`
}

func toRow(l *domlisting.Listing) row {
	return row{
		ID:              l.ID(),
		VendorID:        l.VendorID(),
		Name:            l.Name(),
		Category:        string(l.Category()),
		Location:        l.Location(),
		Description:     l.Description(),
		Status:          string(l.Status()),
		CategoryDetails: l.Attributes(),
	}
}

// validate builds a listing through the domain constructor.
func (r row) validate() (domlisting.Listing, error) {
	return domlisting.New(r.ID, r.VendorID, r.Name, r.Category, r.Location, r.Description, r.Status, r.CategoryDetails)
}

// hydrate trusts stored data.
func (r row) hydrate() domlisting.Listing {
	status := r.Status
	if status == "" {
		status = string(domlisting.StatusActive)
	}
	return domlisting.Reconstruct(r.ID, r.VendorID, r.Name, r.Category, r.Location, r.Description, status, r.CategoryDetails)
}
