package goquery

import (
	"context"
	"encoding/json"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/jsonpath"
)

// DefaultIdentifiers are the assignment targets scanned for embedded JSON
// when a site config names none. They cover the bootstrap globals of the
// frameworks listing sites commonly ship.
var DefaultIdentifiers = []string{
	"window.__NEXT_DATA__",
	"window.__NUXT__",
	"window.__APOLLO_STATE__",
	"rentpress_search_properties",
}

// Ensure StructuredStrategy implements aptscan.Strategy at compile time.
var _ aptscan.Strategy = (*StructuredStrategy)(nil)

// StructuredStrategy extracts raw records from JSON embedded in the page:
// ld+json script tags plus `identifier = {...};` assignments inside
// ordinary scripts. Individual blobs that fail to decode are skipped, never
// fatal to the page.
type StructuredStrategy struct {
	logger *slog.Logger
}

// NewStructuredStrategy creates a new StructuredStrategy. A nil logger
// disables logging.
func NewStructuredStrategy(logger *slog.Logger) *StructuredStrategy {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StructuredStrategy{logger: logger}
}

// Name returns the strategy identifier.
func (s *StructuredStrategy) Name() string {
	return aptscan.StrategyStructuredData
}

// Extract decodes every embedded JSON document and evaluates the
// configured unit paths against each; every match becomes one raw record
// populated via the field map and the matched node's own keys.
func (s *StructuredStrategy) Extract(_ context.Context, page aptscan.Page, cfg *aptscan.SiteConfig) ([]aptscan.RawRecord, error) {
	if cfg == nil || len(cfg.StructuredData.UnitPaths) == 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "parsing HTML for %s: %v", page.URL, err)
	}

	blobs := s.findBlobs(doc, page.Body, cfg.StructuredData.Identifiers)
	if len(blobs) == 0 {
		return nil, nil
	}

	var records []aptscan.RawRecord
	for _, blob := range blobs {
		for _, expr := range cfg.StructuredData.UnitPaths {
			path, err := jsonpath.Parse(expr)
			if err != nil {
				s.logger.Warn("invalid unit path", "path", expr, "error", err)
				continue
			}
			for _, unit := range path.Find(blob) {
				records = append(records, MapFields(unit, cfg.StructuredData.FieldMap, s.logger))
			}
		}
	}
	return records, nil
}

// findBlobs collects decoded JSON documents from ld+json scripts and from
// assignment patterns over the configured identifiers.
func (s *StructuredStrategy) findBlobs(doc *goquery.Document, body string, identifiers []string) []any {
	var blobs []any

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		if decoded, ok := decodeBlob(sel.Text()); ok {
			blobs = append(blobs, decoded)
		} else {
			s.logger.Debug("skipping undecodable ld+json blob")
		}
	})

	if len(identifiers) == 0 {
		identifiers = DefaultIdentifiers
	}
	for _, ident := range identifiers {
		for _, m := range assignmentRE(ident).FindAllStringSubmatch(body, -1) {
			if decoded, ok := decodeBlob(m[1]); ok {
				blobs = append(blobs, decoded)
			} else {
				s.logger.Debug("skipping undecodable assignment blob", "identifier", ident)
			}
		}
	}
	return blobs
}

// assignmentRE matches `identifier = {...};` and `identifier = [...];`.
func assignmentRE(identifier string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(identifier)
	return regexp.MustCompile(`(?s)` + quoted + `\s*=\s*([\[{].*?[\]}])\s*;`)
}

// decodeBlob HTML-unescapes raw script text, strips trailing semicolons
// and closing-tag artifacts, and JSON-decodes it.
func decodeBlob(raw string) (any, bool) {
	raw = strings.TrimSpace(html.UnescapeString(raw))
	raw = strings.TrimSuffix(raw, "</script>")
	raw = strings.TrimRight(strings.TrimSpace(raw), ";")
	if raw == "" {
		return nil, false
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// MapFields builds a raw record from one matched unit node: the field map
// is evaluated first, then the node's own keys fill in everything the map
// didn't claim. Shared with the XHR strategy, which applies the identical
// semantics to API responses.
func MapFields(unit any, fieldMap map[string]string, logger *slog.Logger) aptscan.RawRecord {
	rec := aptscan.RawRecord{}
	for field, expr := range fieldMap {
		if expr == "" {
			continue
		}
		path, err := jsonpath.Parse(expr)
		if err != nil {
			if logger != nil {
				logger.Warn("invalid field path", "field", field, "path", expr, "error", err)
			}
			continue
		}
		rec[field] = path.Value(unit)
	}
	if node, ok := unit.(map[string]any); ok {
		for k, v := range node {
			if _, claimed := rec[k]; !claimed {
				rec[k] = v
			}
		}
	}
	return rec
}
