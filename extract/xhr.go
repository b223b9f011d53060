package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/goquery"
	"github.com/aptscanio/aptscan/jsonpath"
)

// Ensure XHRStrategy implements aptscan.Strategy at compile time.
var _ aptscan.Strategy = (*XHRStrategy)(nil)

// XHRStrategy extracts raw records from the JSON endpoints a listing page
// loads client-side, fetched directly instead of through a browser. A
// failed or non-JSON endpoint is skipped, never fatal to the page.
type XHRStrategy struct {
	fetcher aptscan.Fetcher
	logger  *slog.Logger
}

// NewXHRStrategy creates an XHRStrategy fetching through fetcher. A nil
// logger disables logging.
func NewXHRStrategy(fetcher aptscan.Fetcher, logger *slog.Logger) *XHRStrategy {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &XHRStrategy{fetcher: fetcher, logger: logger}
}

// Name returns the strategy identifier.
func (s *XHRStrategy) Name() string {
	return aptscan.StrategyXHR
}

// Extract fetches each configured endpoint, resolved against the page
// URL, and evaluates the unit paths over the decoded payload. Field-map
// semantics match the structured-data strategy.
func (s *XHRStrategy) Extract(ctx context.Context, page aptscan.Page, cfg *aptscan.SiteConfig) ([]aptscan.RawRecord, error) {
	if cfg == nil || len(cfg.XHR.Endpoints) == 0 {
		return nil, nil
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "parsing page URL %q: %v", page.URL, err)
	}

	unitPaths := cfg.XHR.UnitPaths
	if len(unitPaths) == 0 {
		unitPaths = []string{"$"}
	}

	var records []aptscan.RawRecord
	for _, endpoint := range cfg.XHR.Endpoints {
		ref, err := url.Parse(endpoint)
		if err != nil {
			s.logger.Warn("skipping malformed endpoint", "endpoint", endpoint, "error", err)
			continue
		}
		target := base.ResolveReference(ref).String()

		body, err := s.fetcher.Fetch(ctx, target)
		if err != nil {
			s.logger.Warn("endpoint fetch failed", "url", target, "error", err)
			continue
		}

		var payload any
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			s.logger.Warn("endpoint payload is not JSON", "url", target, "error", err)
			continue
		}

		for _, expr := range unitPaths {
			path, err := jsonpath.Parse(expr)
			if err != nil {
				s.logger.Warn("invalid unit path", "path", expr, "error", err)
				continue
			}
			for _, unit := range path.Find(payload) {
				records = append(records, goquery.MapFields(unit, cfg.XHR.FieldMap, s.logger))
			}
		}
	}
	return records, nil
}
