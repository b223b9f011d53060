// Package extract orchestrates the listing pipeline: strategy selection,
// raw-record normalization, validation, and dedup. The package is purely
// functional over page bytes except for the per-run Deduper state its
// callers share across pages.
package extract

import (
	"context"
	"log/slog"

	"github.com/aptscanio/aptscan"
)

// Selector runs a site's strategies in configured order and keeps the
// first non-empty result. Strategies never merge; a later strategy runs
// only when every earlier one produced nothing.
type Selector struct {
	strategies map[string]aptscan.Strategy
	logger     *slog.Logger
}

// NewSelector creates a Selector over the given strategies, keyed by
// their names. A nil logger disables logging.
func NewSelector(logger *slog.Logger, strategies ...aptscan.Strategy) *Selector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := make(map[string]aptscan.Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Name()] = s
	}
	return &Selector{strategies: m, logger: logger}
}

// Extract runs the configured strategy order against the page and returns
// the first non-empty record set. Unknown strategy names are logged and
// skipped. All strategies coming up empty is not an error; the page is
// reported as having no units and an empty result returned.
func (s *Selector) Extract(ctx context.Context, page aptscan.Page, cfg *aptscan.SiteConfig) ([]aptscan.RawRecord, error) {
	order := aptscan.DefaultStrategyOrder()
	if cfg != nil && len(cfg.StrategyOrder) > 0 {
		order = cfg.StrategyOrder
	}

	for _, name := range order {
		strategy, ok := s.strategies[name]
		if !ok {
			s.logger.Warn("skipping unknown strategy", "strategy", name)
			continue
		}
		records, err := strategy.Extract(ctx, page, cfg)
		if err != nil {
			return nil, err
		}
		s.logger.Info("strategy extracted records",
			"strategy", name,
			"url", page.URL,
			"count", len(records))
		if len(records) > 0 {
			return records, nil
		}
	}

	s.logger.Warn("no units parsed", "url", page.URL)
	return nil, nil
}
