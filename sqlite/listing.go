package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aptscanio/aptscan"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ aptscan.ListingService = (*ListingService)(nil)

// ListingService implements aptscan.ListingService using SQLite.
type ListingService struct {
	db *DB
}

// NewListingService creates a new ListingService.
func NewListingService(db *DB) *ListingService {
	return &ListingService{db: db}
}

const listingColumns = "id, source, scraped_at, title, address, unit, neighborhood, beds, baths, sqft, rent_min, rent_max, available_date, url, fingerprint"

// CreateListing validates and stores a new listing. The listing's ID is
// assigned here; a zero ScrapedAt is stamped with the current time.
func (s *ListingService) CreateListing(ctx context.Context, listing *aptscan.Listing) error {
	if err := listing.Validate(); err != nil {
		return err
	}

	listing.ID = uuid.New().String()
	if listing.ScrapedAt.IsZero() {
		listing.ScrapedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, listing.ID, listing.Source, listing.ScrapedAt.Format(time.RFC3339),
		listing.Title, listing.Address, listing.Unit, listing.Neighborhood,
		listing.Beds, listing.Baths, listing.Sqft, listing.RentMin, listing.RentMax,
		listing.AvailableDate, listing.URL, listing.Fingerprint)

	return err
}

// FindListings retrieves listings matching the filter, newest first.
func (s *ListingService) FindListings(ctx context.Context, filter aptscan.ListingFilter) ([]*aptscan.Listing, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + listingColumns + " FROM listings WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.Neighborhood != nil {
		query.WriteString(" AND neighborhood = ?")
		args = append(args, *filter.Neighborhood)
	}
	if filter.MinBeds != nil {
		query.WriteString(" AND beds >= ?")
		args = append(args, *filter.MinBeds)
	}
	if filter.MaxRent != nil {
		query.WriteString(" AND rent_min <= ?")
		args = append(args, *filter.MaxRent)
	}

	query.WriteString(" ORDER BY scraped_at DESC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*aptscan.Listing
	for rows.Next() {
		var listing aptscan.Listing
		var scrapedAt string

		if err := rows.Scan(&listing.ID, &listing.Source, &scrapedAt,
			&listing.Title, &listing.Address, &listing.Unit, &listing.Neighborhood,
			&listing.Beds, &listing.Baths, &listing.Sqft, &listing.RentMin, &listing.RentMax,
			&listing.AvailableDate, &listing.URL, &listing.Fingerprint); err != nil {
			return nil, err
		}

		listing.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
		if err != nil {
			return nil, err
		}

		listings = append(listings, &listing)
	}

	return listings, rows.Err()
}

// DeleteListingsBySource removes all listings for a source site and
// returns the number removed.
func (s *ListingService) DeleteListingsBySource(ctx context.Context, source string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM listings WHERE source = ?", source)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
