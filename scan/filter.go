package scan

import (
	"strings"

	"github.com/aptscanio/aptscan"
)

// Criteria narrows a run's listings to the ones worth acting on.
type Criteria struct {
	// MinBeds keeps listings with at least this many bedrooms.
	MinBeds *float64

	// MaxRent keeps listings whose minimum rent is at or below this.
	MaxRent *int

	// Neighborhoods is an allowlist matched case-insensitively against
	// the listing's neighborhood, address, and title. Empty matches all.
	Neighborhoods []string
}

// Match reports whether the listing satisfies every criterion. A
// criterion requiring a field the listing lacks fails the match.
func (c Criteria) Match(listing *aptscan.Listing) bool {
	if c.MinBeds != nil {
		if listing.Beds == nil || *listing.Beds < *c.MinBeds {
			return false
		}
	}
	if c.MaxRent != nil {
		if listing.RentMin == nil || *listing.RentMin > *c.MaxRent {
			return false
		}
	}
	if len(c.Neighborhoods) > 0 && !c.inNeighborhoods(listing) {
		return false
	}
	return true
}

func (c Criteria) inNeighborhoods(listing *aptscan.Listing) bool {
	var parts []string
	for _, field := range []*string{listing.Neighborhood, listing.Address, listing.Title} {
		if field != nil {
			parts = append(parts, *field)
		}
	}
	hay := strings.ToLower(strings.Join(parts, " "))
	for _, hood := range c.Neighborhoods {
		if strings.Contains(hay, strings.ToLower(hood)) {
			return true
		}
	}
	return false
}

// Filter returns the listings matching the criteria, preserving order.
func Filter(listings []*aptscan.Listing, c Criteria) []*aptscan.Listing {
	var out []*aptscan.Listing
	for _, listing := range listings {
		if c.Match(listing) {
			out = append(out, listing)
		}
	}
	return out
}
