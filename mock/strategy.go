package mock

import (
	"context"

	"github.com/aptscanio/aptscan"
)

var _ aptscan.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of aptscan.Strategy.
type Strategy struct {
	NameFn    func() string
	ExtractFn func(ctx context.Context, page aptscan.Page, cfg *aptscan.SiteConfig) ([]aptscan.RawRecord, error)
}

func (s *Strategy) Name() string {
	return s.NameFn()
}

func (s *Strategy) Extract(ctx context.Context, page aptscan.Page, cfg *aptscan.SiteConfig) ([]aptscan.RawRecord, error) {
	return s.ExtractFn(ctx, page, cfg)
}
