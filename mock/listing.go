package mock

import (
	"context"

	"github.com/aptscanio/aptscan"
)

var _ aptscan.ListingService = (*ListingService)(nil)

// ListingService is a mock implementation of aptscan.ListingService.
type ListingService struct {
	CreateListingFn          func(ctx context.Context, listing *aptscan.Listing) error
	FindListingsFn           func(ctx context.Context, filter aptscan.ListingFilter) ([]*aptscan.Listing, error)
	DeleteListingsBySourceFn func(ctx context.Context, source string) (int, error)
}

func (s *ListingService) CreateListing(ctx context.Context, listing *aptscan.Listing) error {
	return s.CreateListingFn(ctx, listing)
}

func (s *ListingService) FindListings(ctx context.Context, filter aptscan.ListingFilter) ([]*aptscan.Listing, error) {
	return s.FindListingsFn(ctx, filter)
}

func (s *ListingService) DeleteListingsBySource(ctx context.Context, source string) (int, error) {
	return s.DeleteListingsBySourceFn(ctx, source)
}
