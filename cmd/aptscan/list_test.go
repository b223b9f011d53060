package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aptscanio/aptscan"
	main "github.com/aptscanio/aptscan/cmd/aptscan"
	"github.com/aptscanio/aptscan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints listings as CSV", func(t *testing.T) {
		t.Parallel()

		listings := &mock.ListingService{
			FindListingsFn: func(_ context.Context, filter aptscan.ListingFilter) ([]*aptscan.Listing, error) {
				assert.Equal(t, 50, filter.Limit)
				return []*aptscan.Listing{
					{
						Source:    "hayes",
						ScrapedAt: time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC),
						Address:   ptr("614 Page St"),
						Beds:      ptr(2.0),
						RentMin:   ptr(3295),
						URL:       "https://example.com/listings/614-page",
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Listings: listings,
		}

		cmd := &main.ListCmd{Limit: 50}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "source,scraped_at,title,address")
		assert.Contains(t, output, "614 Page St")
		assert.Contains(t, output, "3295")
	})

	t.Run("passes filter flags through", func(t *testing.T) {
		t.Parallel()

		var got aptscan.ListingFilter
		listings := &mock.ListingService{
			FindListingsFn: func(_ context.Context, filter aptscan.ListingFilter) ([]*aptscan.Listing, error) {
				got = filter
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Listings: listings,
		}

		cmd := &main.ListCmd{
			Source:       ptr("hayes"),
			Neighborhood: ptr("Hayes Valley"),
			MinBeds:      ptr(2.0),
			MaxRent:      ptr(3500),
			Limit:        10,
			Offset:       5,
		}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "hayes", *got.Source)
		assert.Equal(t, "Hayes Valley", *got.Neighborhood)
		assert.Equal(t, 2.0, *got.MinBeds)
		assert.Equal(t, 3500, *got.MaxRent)
		assert.Equal(t, 10, got.Limit)
		assert.Equal(t, 5, got.Offset)
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		listings := &mock.ListingService{
			FindListingsFn: func(_ context.Context, _ aptscan.ListingFilter) ([]*aptscan.Listing, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Listings: listings,
		}

		cmd := &main.ListCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "No listings")
	})

	t.Run("returns error when the query fails", func(t *testing.T) {
		t.Parallel()

		listings := &mock.ListingService{
			FindListingsFn: func(_ context.Context, _ aptscan.ListingFilter) ([]*aptscan.Listing, error) {
				return nil, aptscan.Errorf(aptscan.EINTERNAL, "database error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Listings: listings,
		}

		cmd := &main.ListCmd{}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestSitesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints configured sites", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Sites: []*aptscan.SiteConfig{
				{
					Name:          "hayes",
					Seeds:         []string{"https://example.com/apartments"},
					StrategyOrder: aptscan.DefaultStrategyOrder(),
					Fingerprint:   aptscan.FingerprintURL,
				},
			},
		}

		cmd := &main.SitesCmd{}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "hayes")
		assert.Contains(t, output, "seeds=1")
		assert.Contains(t, output, "structured-data,xhr,dom")
		assert.Contains(t, output, "fingerprint=url")
	})

	t.Run("shows message when nothing is configured", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
		}

		cmd := &main.SitesCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "No sites configured")
	})
}
