package aptscan

import (
	"context"
	"regexp"
)

// URLFilter restricts discovered URLs to those matching at least one
// include pattern. A nil or empty filter matches everything.
type URLFilter struct {
	Include []*regexp.Regexp
}

// Match reports whether the URL passes the filter.
func (f *URLFilter) Match(url string) bool {
	if f == nil || len(f.Include) == 0 {
		return true
	}
	for _, re := range f.Include {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// SitemapService discovers listing page URLs for a site from its
// robots.txt sitemap directives or well-known sitemap locations.
type SitemapService interface {
	// DiscoverURLs returns page URLs reachable from siteURL's sitemaps,
	// filtered if a filter is given. An unreachable sitemap is not an
	// error; it yields an empty result.
	DiscoverURLs(ctx context.Context, siteURL string, filter *URLFilter) ([]string, error)
}
