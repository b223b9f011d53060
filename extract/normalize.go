package extract

import (
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/heuristics"
)

// fieldAliases lists, per canonical field, the raw key names tried in
// order against each candidate source. Adding a new site shape is a data
// change here, not a code change.
var fieldAliases = map[string][]string{
	"title":        {"title", "name", "floorplan", "floorplanName", "propertyName", "buildingName"},
	"address":      {"address", "address1", "street", "fullAddress", "streetAddress"},
	"unit":         {"unit", "unit_number", "unitNumber"},
	"neighborhood": {"neighborhood", "neighborhoodName", "neighborhood_text"},
	"beds":         {"beds", "bedrooms", "bed", "bedsMin", "numberOfBedrooms"},
	"baths":        {"baths", "bathrooms", "bath", "bathsMin", "numberOfBathroomsTotal"},
	"sqft":         {"sqft", "squareFeet", "square_feet", "floorSize", "area"},
	"rent":         {"rent", "price", "minRent", "marketRent", "effectiveRent", "monthlyRent", "lowPrice"},
	"rent_min":     {"rent_min", "rentMin", "minRent", "lowPrice"},
	"rent_max":     {"rent_max", "rentMax", "maxRent", "highPrice"},
	"available":    {"available", "available_date", "availableDate", "availability", "dateAvailable"},
	"url":          {"url", "permalink", "availabilityUrl", "availability_url", "canonicalUrl", "link", "href"},
}

// unwrapKeys are the wrapper-object keys a raw value is unwrapped
// through when a source nests the useful scalar one level down.
var unwrapKeys = []string{
	"value", "text", "name", "title", "label", "display",
	"line1", "line_1", "address1", "addressLine1",
}

// Normalizer turns free-form raw records into typed, unvalidated
// listings. Each canonical field resolves through an ordered alias chain
// over the record itself and, when present, the enclosing property or
// context record a strategy attached to it.
type Normalizer struct {
	logger *slog.Logger

	// Now returns the scrape timestamp; defaults to time.Now.
	Now func() time.Time
}

// NewNormalizer creates a Normalizer. A nil logger disables logging.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{logger: logger, Now: time.Now}
}

// Normalize resolves one raw record into a Listing. The record's URL is
// resolved absolute against baseURL; a record whose URL cannot be
// resolved is dropped and nil returned. The result is not yet validated.
func (n *Normalizer) Normalize(source string, raw aptscan.RawRecord, baseURL string, cfg *aptscan.SiteConfig) *aptscan.Listing {
	sources := candidateSources(raw)

	resolved, ok := resolveURL(baseURL, asString(pick(sources, fieldAliases["url"])))
	if !ok {
		n.logger.Debug("dropping record with unresolvable URL", "source", source, "base", baseURL)
		return nil
	}

	listing := &aptscan.Listing{
		Source:    source,
		ScrapedAt: n.Now().UTC(),
		URL:       resolved,
	}

	listing.Title = optString(asString(pick(sources, fieldAliases["title"])))
	listing.Address = optString(asString(pick(sources, fieldAliases["address"])))
	listing.Unit = optString(asString(pick(sources, fieldAliases["unit"])))
	listing.Beds = asCount(pick(sources, fieldAliases["beds"]), heuristics.Beds)
	listing.Baths = asCount(pick(sources, fieldAliases["baths"]), heuristics.Baths)
	listing.Sqft = asSqft(pick(sources, fieldAliases["sqft"]))
	listing.RentMin, listing.RentMax = n.rentBounds(sources)

	if s := asString(pick(sources, fieldAliases["available"])); s != "" {
		listing.AvailableDate = heuristics.Date(s, n.Now())
	}

	hood := asString(pick(sources, fieldAliases["neighborhood"]))
	if hood == "" && cfg != nil {
		hood = hintNeighborhood(baseURL, cfg.Hints)
	}
	listing.Neighborhood = optString(hood)

	return listing
}

// rentBounds resolves the rent range: a combined rent-like field is
// re-parsed through the money heuristics when not already numeric, and
// explicit min/max keys fill whichever bound is still missing.
func (n *Normalizer) rentBounds(sources []aptscan.RawRecord) (*int, *int) {
	var lo, hi *int
	if v := pick(sources, fieldAliases["rent"]); v != nil {
		lo, hi = asRent(v)
	}
	if lo == nil {
		if v := pick(sources, fieldAliases["rent_min"]); v != nil {
			lo, _ = asRent(v)
		}
	}
	if hi == nil {
		if v := pick(sources, fieldAliases["rent_max"]); v != nil {
			_, hi = asRent(v)
		}
	}
	return lo, hi
}

// candidateSources returns the record plus any enclosing property or
// context record a strategy attached under those keys.
func candidateSources(raw aptscan.RawRecord) []aptscan.RawRecord {
	sources := []aptscan.RawRecord{raw}
	for _, key := range []string{"property", "context"} {
		if nested, ok := raw[key].(map[string]any); ok {
			sources = append(sources, aptscan.RawRecord(nested))
		}
	}
	return sources
}

// pick returns the first non-empty value for any alias across the
// sources, source-major, after unwrapping wrapper shapes.
func pick(sources []aptscan.RawRecord, aliases []string) any {
	for _, src := range sources {
		for _, alias := range aliases {
			v, ok := src[alias]
			if !ok {
				continue
			}
			if u := unwrap(v); !isEmpty(u) {
				return u
			}
		}
	}
	return nil
}

// unwrap digs the useful scalar out of wrapper objects and lists. A map
// yields the first non-empty value among the known wrapper keys; a list
// yields its first non-empty element, unwrapped in turn.
func unwrap(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for _, key := range unwrapKeys {
			if inner, ok := t[key]; ok {
				if u := unwrap(inner); !isEmpty(u) {
					return u
				}
			}
		}
		return nil
	case []any:
		for _, item := range t {
			if u := unwrap(item); !isEmpty(u) {
				return u
			}
		}
		return nil
	default:
		return v
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool, nil:
		return ""
	default:
		return ""
	}
}

// asCount parses a bed or bath count: numeric raw values pass through,
// strings go through the supplied heuristic.
func asCount(v any, parse func(string) *float64) *float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return nil
		}
		return &t
	case int:
		if t < 0 {
			return nil
		}
		f := float64(t)
		return &f
	case string:
		return parse(t)
	default:
		return nil
	}
}

func asSqft(v any) *int {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return nil
		}
		n := int(t)
		return &n
	case int:
		if t < 0 {
			return nil
		}
		return &t
	case string:
		return heuristics.Sqft(t)
	default:
		return nil
	}
}

func asRent(v any) (*int, *int) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return nil, nil
		}
		n := int(t)
		return &n, &n
	case int:
		if t < 0 {
			return nil, nil
		}
		return &t, &t
	case string:
		return heuristics.RentRange(t)
	default:
		return nil, nil
	}
}

// resolveURL makes rawURL absolute against base. An empty rawURL means
// the page itself is the listing URL.
func resolveURL(base, rawURL string) (string, bool) {
	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	if rawURL == "" {
		return b.String(), b.IsAbs()
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	resolved := b.ResolveReference(ref)
	return resolved.String(), resolved.IsAbs()
}

// hintNeighborhood consults the seed-prefix hint table, longest matching
// prefix first, then the default hint.
func hintNeighborhood(baseURL string, hints aptscan.HintsConfig) string {
	prefixes := make([]string, 0, len(hints.NeighborhoodFromSeed))
	for prefix := range hints.NeighborhoodFromSeed {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		return len(prefixes[i]) > len(prefixes[j])
	})
	for _, prefix := range prefixes {
		if strings.HasPrefix(baseURL, prefix) {
			return hints.NeighborhoodFromSeed[prefix]
		}
	}
	return hints.DefaultNeighborhood
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
