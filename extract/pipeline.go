package extract

import (
	"context"
	"log/slog"

	"github.com/aptscanio/aptscan"
)

// Pipeline ties the stages together: page bytes plus config in,
// canonical deduplicated listings out. Byte-identical input yields
// identical records against a fresh Deduper.
type Pipeline struct {
	selector   *Selector
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewPipeline creates a Pipeline. A nil logger disables logging.
func NewPipeline(selector *Selector, normalizer *Normalizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{selector: selector, normalizer: normalizer, logger: logger}
}

// Run extracts, normalizes, and dedups one page's listings. A nil dedup
// skips validation and dedup entirely; callers sharing one Deduper
// across pages get run-level dedup for free.
func (p *Pipeline) Run(ctx context.Context, page aptscan.Page, cfg *aptscan.SiteConfig, dedup *Deduper) ([]*aptscan.Listing, error) {
	raws, err := p.selector.Extract(ctx, page, cfg)
	if err != nil {
		return nil, err
	}

	source := ""
	policy := aptscan.FingerprintURL
	if cfg != nil {
		source = cfg.Name
		if cfg.Fingerprint.Valid() {
			policy = cfg.Fingerprint
		}
	}

	var listings []*aptscan.Listing
	for _, raw := range raws {
		listing := p.normalizer.Normalize(source, raw, page.URL, cfg)
		if listing == nil {
			continue
		}
		if dedup != nil && !dedup.Add(listing, policy) {
			continue
		}
		listings = append(listings, listing)
	}

	p.logger.Debug("pipeline produced listings", "url", page.URL, "count", len(listings))
	return listings, nil
}
