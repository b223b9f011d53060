package goquery_test

import (
	"context"
	"testing"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ aptscan.Strategy = (*goquery.StructuredStrategy)(nil)

func extractStructured(t *testing.T, body string, cfg *aptscan.SiteConfig) []aptscan.RawRecord {
	t.Helper()
	s := goquery.NewStructuredStrategy(nil)
	records, err := s.Extract(context.Background(), aptscan.Page{URL: "https://example.com/floorplans", Body: body}, cfg)
	require.NoError(t, err)
	return records
}

func TestStructuredStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("one record per floor plan in ld+json", func(t *testing.T) {
		t.Parallel()

		body := `<html><head>
<script type="application/ld+json">
{
	"@type": "ApartmentComplex",
	"name": "The Fillmore Residences",
	"containsPlace": [
		{"@type": "FloorPlan", "name": "Plan A", "numberOfBedrooms": 1, "offers": {"lowPrice": 2125}},
		{"@type": "FloorPlan", "name": "Plan B", "numberOfBedrooms": 2, "offers": {"lowPrice": 2475}}
	]
}
</script>
</head><body></body></html>`

		cfg := &aptscan.SiteConfig{
			StructuredData: aptscan.StructuredDataConfig{
				UnitPaths: []string{"$.containsPlace[*]"},
				FieldMap: map[string]string{
					"beds": "$.numberOfBedrooms",
					"rent": "$.offers.lowPrice",
				},
			},
		}

		records := extractStructured(t, body, cfg)
		require.Len(t, records, 2)
		assert.Equal(t, 1.0, records[0]["beds"])
		assert.Equal(t, 2125.0, records[0]["rent"])
		assert.Equal(t, 2.0, records[1]["beds"])
		assert.Equal(t, 2475.0, records[1]["rent"])
	})

	t.Run("unclaimed node keys pass through", func(t *testing.T) {
		t.Parallel()

		body := `<html><head>
<script type="application/ld+json">
{"units": [{"address": "614 Page St", "sqft": 850, "price": "$2,100"}]}
</script>
</head><body></body></html>`

		cfg := &aptscan.SiteConfig{
			StructuredData: aptscan.StructuredDataConfig{
				UnitPaths: []string{"$.units[*]"},
				FieldMap:  map[string]string{"rent": "$.price"},
			},
		}

		records := extractStructured(t, body, cfg)
		require.Len(t, records, 1)
		assert.Equal(t, "$2,100", records[0]["rent"])
		assert.Equal(t, "614 Page St", records[0]["address"])
		assert.Equal(t, 850.0, records[0]["sqft"])
		_, hasPrice := records[0]["price"]
		assert.True(t, hasPrice)
	})

	t.Run("assignment identifier blob", func(t *testing.T) {
		t.Parallel()

		body := `<html><body>
<script>
var other = 1;
rentpress_search_properties = [{"address": "3620 Fillmore St", "beds": "2"}];
</script>
</body></html>`

		cfg := &aptscan.SiteConfig{
			StructuredData: aptscan.StructuredDataConfig{
				UnitPaths: []string{"$[*]"},
			},
		}

		records := extractStructured(t, body, cfg)
		require.Len(t, records, 1)
		assert.Equal(t, "3620 Fillmore St", records[0]["address"])
	})

	t.Run("configured identifiers replace defaults", func(t *testing.T) {
		t.Parallel()

		body := `<html><body>
<script>
window.__SITE_STATE__ = {"listings": [{"id": "a1", "rent": 1900}]};
rentpress_search_properties = [{"id": "ignored"}];
</script>
</body></html>`

		cfg := &aptscan.SiteConfig{
			StructuredData: aptscan.StructuredDataConfig{
				Identifiers: []string{"window.__SITE_STATE__"},
				UnitPaths:   []string{"$.listings[*]"},
			},
		}

		records := extractStructured(t, body, cfg)
		require.Len(t, records, 1)
		assert.Equal(t, "a1", records[0]["id"])
	})

	t.Run("undecodable blob is skipped, not fatal", func(t *testing.T) {
		t.Parallel()

		body := `<html><head>
<script type="application/ld+json">{not valid json</script>
<script type="application/ld+json">{"units": [{"address": "10 Grove St"}]}</script>
</head><body></body></html>`

		cfg := &aptscan.SiteConfig{
			StructuredData: aptscan.StructuredDataConfig{
				UnitPaths: []string{"$.units[*]"},
			},
		}

		records := extractStructured(t, body, cfg)
		require.Len(t, records, 1)
		assert.Equal(t, "10 Grove St", records[0]["address"])
	})

	t.Run("html entities in blobs are unescaped", func(t *testing.T) {
		t.Parallel()

		body := `<html><head>
<script type="application/ld+json">{&quot;units&quot;: [{&quot;address&quot;: &quot;10 Grove St&quot;}]}</script>
</head><body></body></html>`

		cfg := &aptscan.SiteConfig{
			StructuredData: aptscan.StructuredDataConfig{
				UnitPaths: []string{"$.units[*]"},
			},
		}

		records := extractStructured(t, body, cfg)
		require.Len(t, records, 1)
		assert.Equal(t, "10 Grove St", records[0]["address"])
	})

	t.Run("no unit paths configured", func(t *testing.T) {
		t.Parallel()

		body := `<script type="application/ld+json">{"a": 1}</script>`
		records := extractStructured(t, body, &aptscan.SiteConfig{})
		assert.Empty(t, records)
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		records := extractStructured(t, "<html></html>", nil)
		assert.Empty(t, records)
	})
}

func TestMapFields(t *testing.T) {
	t.Parallel()

	unit := map[string]any{
		"name":  "Plan A",
		"rents": map[string]any{"min": 2125.0},
	}

	rec := goquery.MapFields(unit, map[string]string{
		"title": "$.name",
		"rent":  "$.rents.min",
		"beds":  "not a path",
	}, nil)

	assert.Equal(t, "Plan A", rec["title"])
	assert.Equal(t, 2125.0, rec["rent"])
	assert.NotContains(t, rec, "beds")

	// the node's own keys fill what the map did not claim
	assert.Equal(t, "Plan A", rec["name"])
	assert.Contains(t, rec, "rents")
}
