package aptscan

import "context"

// Strategy names recognized in SiteConfig.StrategyOrder.
const (
	StrategyStructuredData = "structured-data"
	StrategyXHR            = "xhr"
	StrategyDOM            = "dom"
)

// Page is one fetched listing page handed to the extraction pipeline:
// the raw body plus the URL it was fetched from. The URL doubles as the
// base for resolving any relative hrefs found in the body.
type Page struct {
	URL  string
	Body string
}

// RawRecord is a free-form field-name to raw-value mapping captured from
// one candidate listing block. Values may be strings, numbers, or nested
// structures; no type guarantees are made until normalization.
type RawRecord map[string]any

// Strategy extracts candidate raw records from a page using one extraction
// method. Implementations must treat malformed fragments as skippable, not
// as page-level failures.
type Strategy interface {
	// Name returns the identifier used in SiteConfig.StrategyOrder.
	Name() string

	// Extract returns zero or more raw records found on the page.
	// An empty result is not an error; it signals the selector to try
	// the next strategy in the configured order.
	Extract(ctx context.Context, page Page, cfg *SiteConfig) ([]RawRecord, error)
}
