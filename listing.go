package aptscan

import (
	"context"
	"time"
)

// Fields holds the canonical listing field names in the order any tabular
// sink (CSV, fixed-column reports) must emit them.
var Fields = []string{
	"source",
	"scraped_at",
	"title",
	"address",
	"unit",
	"neighborhood",
	"beds",
	"baths",
	"sqft",
	"rent_min",
	"rent_max",
	"available_date",
	"url",
}

// Listing is the canonical, typed apartment-listing record produced by the
// extraction pipeline. Optional fields are pointers; nil means the source
// page did not expose the value.
type Listing struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	ScrapedAt     time.Time `json:"scrapedAt"`
	Title         *string   `json:"title"`
	Address       *string   `json:"address"`
	Unit          *string   `json:"unit"`
	Neighborhood  *string   `json:"neighborhood"`
	Beds          *float64  `json:"beds"`
	Baths         *float64  `json:"baths"`
	Sqft          *int      `json:"sqft"`
	RentMin       *int      `json:"rentMin"`
	RentMax       *int      `json:"rentMax"`
	AvailableDate *string   `json:"availableDate"` // ISO-8601 date
	URL           string    `json:"url"`
	Fingerprint   string    `json:"fingerprint"`
}

// Validate returns an error if the listing violates the record invariants.
// A listing needs an absolute URL and at least one substantive field;
// numeric fields must be non-negative and a rent range must not be
// inverted. Violations are rejected, never silently corrected.
func (l *Listing) Validate() error {
	if l.Source == "" {
		return Errorf(EINVALID, "listing source required")
	}
	if l.URL == "" {
		return Errorf(EINVALID, "listing URL required")
	}
	if l.Address == nil && l.RentMin == nil && l.RentMax == nil && l.Beds == nil && l.Baths == nil {
		return Errorf(EINVALID, "listing has no address, rent, beds, or baths")
	}
	if l.Beds != nil && *l.Beds < 0 {
		return Errorf(EINVALID, "beds must be >= 0")
	}
	if l.Baths != nil && *l.Baths < 0 {
		return Errorf(EINVALID, "baths must be >= 0")
	}
	if l.Sqft != nil && *l.Sqft < 0 {
		return Errorf(EINVALID, "sqft must be >= 0")
	}
	if l.RentMin != nil && *l.RentMin < 0 {
		return Errorf(EINVALID, "rent_min must be >= 0")
	}
	if l.RentMax != nil && *l.RentMax < 0 {
		return Errorf(EINVALID, "rent_max must be >= 0")
	}
	if l.RentMin != nil && l.RentMax != nil && *l.RentMax < *l.RentMin {
		return Errorf(EINVALID, "rent_max %d is below rent_min %d", *l.RentMax, *l.RentMin)
	}
	return nil
}

// ListingService represents a service for persisting and querying listings.
type ListingService interface {
	// CreateListing validates and stores a new listing.
	CreateListing(ctx context.Context, listing *Listing) error

	// FindListings retrieves listings matching the filter, newest first.
	FindListings(ctx context.Context, filter ListingFilter) ([]*Listing, error)

	// DeleteListingsBySource removes all listings for a source site.
	DeleteListingsBySource(ctx context.Context, source string) (int, error)
}

// ListingFilter represents a filter for FindListings.
type ListingFilter struct {
	Source       *string  `json:"source"`
	Neighborhood *string  `json:"neighborhood"`
	MinBeds      *float64 `json:"minBeds"`
	MaxRent      *int     `json:"maxRent"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
