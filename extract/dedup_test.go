package extract_test

import (
	"testing"
	"time"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/extract"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func validListing(url string) *aptscan.Listing {
	return &aptscan.Listing{
		Source:    "example",
		ScrapedAt: time.Now().UTC(),
		Address:   ptr("614 Page St"),
		Beds:      ptr(2.0),
		Baths:     ptr(1.0),
		RentMin:   ptr(3295),
		RentMax:   ptr(3295),
		URL:       url,
	}
}

func TestDeduper_Add(t *testing.T) {
	t.Parallel()

	t.Run("first record per fingerprint is kept", func(t *testing.T) {
		t.Parallel()

		d := extract.NewDeduper(nil)
		first := validListing("https://example.com/u/1")
		second := validListing("https://example.com/u/1")

		assert.True(t, d.Add(first, aptscan.FingerprintURL))
		assert.False(t, d.Add(second, aptscan.FingerprintURL))
		assert.NotEmpty(t, first.Fingerprint)
		assert.Empty(t, second.Fingerprint)

		stats := d.Stats()
		assert.Equal(t, 1, stats.Kept)
		assert.Equal(t, 1, stats.Duplicates)
	})

	t.Run("inverted rent range is rejected and counted", func(t *testing.T) {
		t.Parallel()

		d := extract.NewDeduper(nil)
		bad := validListing("https://example.com/u/1")
		bad.RentMin = ptr(2500)
		bad.RentMax = ptr(2000)

		assert.False(t, d.Add(bad, aptscan.FingerprintURL))
		assert.Equal(t, 1, d.Stats().Invalid)
	})

	t.Run("noise record with no substantive field is rejected", func(t *testing.T) {
		t.Parallel()

		d := extract.NewDeduper(nil)
		noise := &aptscan.Listing{Source: "example", URL: "https://example.com/u/1"}

		assert.False(t, d.Add(noise, aptscan.FingerprintURL))
		assert.Equal(t, 1, d.Stats().Invalid)
	})

	t.Run("url policy keeps the same unit under two URLs", func(t *testing.T) {
		t.Parallel()

		d := extract.NewDeduper(nil)
		assert.True(t, d.Add(validListing("https://example.com/u/1"), aptscan.FingerprintURL))
		assert.True(t, d.Add(validListing("https://example.com/u/2"), aptscan.FingerprintURL))
	})

	t.Run("unit policy collapses the same unit under two URLs", func(t *testing.T) {
		t.Parallel()

		d := extract.NewDeduper(nil)
		assert.True(t, d.Add(validListing("https://example.com/u/1"), aptscan.FingerprintUnit))
		assert.False(t, d.Add(validListing("https://example.com/u/2"), aptscan.FingerprintUnit))
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("address formatting does not change the identity", func(t *testing.T) {
		t.Parallel()

		a := validListing("https://example.com/u/1")
		b := validListing("https://example.com/u/1")
		b.Address = ptr("614 PAGE STREET")

		assert.Equal(t,
			extract.Fingerprint(a, aptscan.FingerprintUnit),
			extract.Fingerprint(b, aptscan.FingerprintUnit))
	})

	t.Run("policies produce different identities", func(t *testing.T) {
		t.Parallel()

		l := validListing("https://example.com/u/1")
		assert.NotEqual(t,
			extract.Fingerprint(l, aptscan.FingerprintURL),
			extract.Fingerprint(l, aptscan.FingerprintUnit))
	})

	t.Run("stable across calls", func(t *testing.T) {
		t.Parallel()

		l := validListing("https://example.com/u/1")
		assert.Equal(t,
			extract.Fingerprint(l, aptscan.FingerprintURL),
			extract.Fingerprint(l, aptscan.FingerprintURL))
	})
}
