package heuristics_test

import (
	"testing"
	"time"

	"github.com/aptscanio/aptscan/heuristics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	t.Run("range returns lower bound", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Money("$3,200–$3,450")
		require.NotNil(t, got)
		assert.Equal(t, 3200, *got)
	})

	t.Run("hyphen range", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Money("$2,800 - $3,100 per month")
		require.NotNil(t, got)
		assert.Equal(t, 2800, *got)
	})

	t.Run("single amount", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Money("$2,100")
		require.NotNil(t, got)
		assert.Equal(t, 2100, *got)
	})

	t.Run("call for pricing is unavailable, not zero", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, heuristics.Money("Call for pricing"))
	})

	t.Run("no amount", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, heuristics.Money("2 bed 1 bath"))
	})

	t.Run("non-breaking spaces tolerated", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Money("$\u00a02,400")
		require.NotNil(t, got)
		assert.Equal(t, 2400, *got)
	})
}

func TestRentRange(t *testing.T) {
	t.Parallel()

	t.Run("two amounts give min and max", func(t *testing.T) {
		t.Parallel()
		lo, hi := heuristics.RentRange("$2,475 to $2,125")
		require.NotNil(t, lo)
		require.NotNil(t, hi)
		assert.Equal(t, 2125, *lo)
		assert.Equal(t, 2475, *hi)
	})

	t.Run("single amount fills both bounds", func(t *testing.T) {
		t.Parallel()
		lo, hi := heuristics.RentRange("$1,995/mo")
		require.NotNil(t, lo)
		assert.Equal(t, 1995, *lo)
		assert.Equal(t, 1995, *hi)
	})

	t.Run("bare numeric string accepted", func(t *testing.T) {
		t.Parallel()
		lo, hi := heuristics.RentRange("2300")
		require.NotNil(t, lo)
		assert.Equal(t, 2300, *lo)
		assert.Equal(t, 2300, *hi)
	})

	t.Run("no amounts", func(t *testing.T) {
		t.Parallel()
		lo, hi := heuristics.RentRange("contact us")
		assert.Nil(t, lo)
		assert.Nil(t, hi)
	})
}

func TestBeds(t *testing.T) {
	t.Parallel()

	t.Run("studio is zero bedrooms", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Beds("Studio")
		require.NotNil(t, got)
		assert.Equal(t, 0.0, *got)
	})

	t.Run("loft is ambiguous", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, heuristics.Beds("Loft"))
	})

	t.Run("compact slash form", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Beds("3bd/2ba")
		require.NotNil(t, got)
		assert.Equal(t, 3.0, *got)
	})

	t.Run("long form", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Beds("2 Bedrooms")
		require.NotNil(t, got)
		assert.Equal(t, 2.0, *got)
	})

	t.Run("bare number", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Beds("2")
		require.NotNil(t, got)
		assert.Equal(t, 2.0, *got)
	})

	t.Run("no bed token and non-numeric", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, heuristics.Beds("spacious"))
	})
}

func TestBaths(t *testing.T) {
	t.Parallel()

	t.Run("half baths preserved", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Baths("1.5 ba")
		require.NotNil(t, got)
		assert.Equal(t, 1.5, *got)
	})

	t.Run("compact form", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Baths("3bd/2ba")
		require.NotNil(t, got)
		assert.Equal(t, 2.0, *got)
	})
}

func TestSqft(t *testing.T) {
	t.Parallel()

	t.Run("with unit", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Sqft("1,050 sq. ft.")
		require.NotNil(t, got)
		assert.Equal(t, 1050, *got)
	})

	t.Run("square feet spelled out", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Sqft("about 900 square feet")
		require.NotNil(t, got)
		assert.Equal(t, 900, *got)
	})

	t.Run("bare number", func(t *testing.T) {
		t.Parallel()
		got := heuristics.Sqft("780")
		require.NotNil(t, got)
		assert.Equal(t, 780, *got)
	})
}

func TestDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		in   string
		want string
	}{
		{"2024-06-01", "2024-06-01"},
		{"06/01/2024", "2024-06-01"},
		{"Jun 1, 2024", "2024-06-01"},
		{"June 1, 2024", "2024-06-01"},
		{"Now", "2024-05-14"},
		{"immediately", "2024-05-14"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got := heuristics.Date(tc.in, now)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, heuristics.Date("soonish", now))
	})
}

func TestLooksLikeAddress(t *testing.T) {
	t.Parallel()

	assert.True(t, heuristics.LooksLikeAddress("614 Page St"))
	assert.True(t, heuristics.LooksLikeAddress("2201 Van Ness Avenue"))
	assert.True(t, heuristics.LooksLikeAddress("Apt 4"))
	assert.True(t, heuristics.LooksLikeAddress("Unit #12"))
	assert.False(t, heuristics.LooksLikeAddress("Beautiful sunny flat"))
	assert.False(t, heuristics.LooksLikeAddress(""))
}

func TestCleanNeighborhood(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hayes Valley", heuristics.CleanNeighborhood("Hayes Valley, San Francisco, CA"))
	assert.Equal(t, "Lower Haight", heuristics.CleanNeighborhood("Lower Haight / Duboce Triangle"))
	assert.Equal(t, "NoPa", heuristics.CleanNeighborhood("  NoPa • San Francisco  "))
	assert.Equal(t, "", heuristics.CleanNeighborhood("   "))
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		heuristics.NormalizeAddress("614 Page Street"),
		heuristics.NormalizeAddress("614 PAGE ST."))
	assert.Equal(t, "1200 n point blvd", heuristics.NormalizeAddress("1200 North Point Boulevard"))
}
