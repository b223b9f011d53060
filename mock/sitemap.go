package mock

import (
	"context"

	"github.com/aptscanio/aptscan"
)

var _ aptscan.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of aptscan.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, siteURL string, filter *aptscan.URLFilter) ([]string, error)
}

// DiscoverURLs delegates to DiscoverURLsFn.
func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *aptscan.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, siteURL, filter)
}
