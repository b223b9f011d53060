package aptscan

// SiteConfig describes how to scan one site. All fields beyond Name and
// Seeds are optional; the generic heuristics cover sites with no
// site-specific configuration at all.
type SiteConfig struct {
	Name          string   `yaml:"name"`
	Seeds         []string `yaml:"seeds"`
	StrategyOrder []string `yaml:"strategy_order"`
	RateLimit     float64  `yaml:"rate_limit"` // requests per second, per domain

	// DiscoverSeeds expands the seed list through sitemap discovery
	// rooted at each configured seed.
	DiscoverSeeds bool `yaml:"discover_seeds"`

	StructuredData StructuredDataConfig `yaml:"structured_data"`
	XHR            XHRConfig            `yaml:"xhr"`
	DOM            DOMConfig            `yaml:"dom"`
	Hints          HintsConfig          `yaml:"hints"`

	// Fingerprint selects the dedup identity policy for this site.
	Fingerprint FingerprintPolicy `yaml:"fingerprint"`
}

// StructuredDataConfig drives the embedded-JSON strategy.
type StructuredDataConfig struct {
	// Identifiers are JavaScript assignment targets matched as
	// `identifier = {...};` in page scripts, in addition to ld+json
	// script tags. Empty means the built-in defaults.
	Identifiers []string          `yaml:"identifiers"`
	UnitPaths   []string          `yaml:"unit_paths"`
	FieldMap    map[string]string `yaml:"field_map"`
}

// XHRConfig drives the JSON-endpoint strategy.
type XHRConfig struct {
	Endpoints []string          `yaml:"endpoints"` // resolved against the seed URL
	UnitPaths []string          `yaml:"unit_paths"`
	FieldMap  map[string]string `yaml:"field_map"`
}

// DOMConfig optionally overrides the generic DOM heuristics with explicit
// selectors for sites whose markup defeats them.
type DOMConfig struct {
	ListSelector   string            `yaml:"list_selector"`
	FieldSelectors map[string]string `yaml:"field_selectors"` // supports a trailing ::attr(name)
	RegexHelpers   map[string]string `yaml:"regex_helpers"`   // first capture group wins
}

// HintsConfig supplies values the pages themselves don't carry.
type HintsConfig struct {
	NeighborhoodFromSeed map[string]string `yaml:"neighborhood_from_seed"` // URL prefix -> name
	DefaultNeighborhood  string            `yaml:"default_neighborhood"`
}

// DefaultStrategyOrder is applied when a site config lists no strategies.
func DefaultStrategyOrder() []string {
	return []string{StrategyStructuredData, StrategyXHR, StrategyDOM}
}
