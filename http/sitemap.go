package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aptscanio/aptscan"
	"github.com/beevik/etree"
)

// Ensure SitemapService implements aptscan.SitemapService.
var _ aptscan.SitemapService = (*SitemapService)(nil)

// SitemapService discovers listing page URLs from a site's sitemaps:
// robots.txt Sitemap directives first, then the well-known /sitemap.xml.
// Sitemap indexes are followed recursively.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a SitemapService. A nil client uses
// http.DefaultClient.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the page URLs reachable from siteURL's sitemaps.
// When siteURL carries a non-root path, only URLs under that path are
// returned. A site without sitemaps yields an empty result, not an
// error.
func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *aptscan.URLFilter) ([]string, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "parsing site URL %q: %v", siteURL, err)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	root := *base
	root.Path = ""
	sitemaps := s.findSitemaps(ctx, &root)
	if len(sitemaps) == 0 {
		return nil, nil
	}

	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	var out []string
	for _, sm := range sitemaps {
		urls, err := s.walkSitemap(ctx, sm, seenSitemaps)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue // one bad sitemap doesn't kill discovery
		}
		for _, u := range urls {
			if seenURLs[u] {
				continue
			}
			seenURLs[u] = true
			if pathPrefix != "" && !underPath(u, pathPrefix) {
				continue
			}
			if !filter.Match(u) {
				continue
			}
			out = append(out, u)
		}
	}
	return out, nil
}

// findSitemaps locates the site's sitemap URLs: robots.txt directives
// first, else /sitemap.xml if it responds.
func (s *SitemapService) findSitemaps(ctx context.Context, root *url.URL) []string {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if body, err := s.get(ctx, robotsURL); err == nil {
		sitemaps := sitemapsFromRobots(body)
		body.Close()
		if len(sitemaps) > 0 {
			return sitemaps
		}
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fallback, nil)
	if err != nil {
		return nil
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return []string{fallback}
	}
	return nil
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt.
func sitemapsFromRobots(body io.Reader) []string {
	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			continue
		}
		if sm := strings.TrimSpace(line[len("sitemap:"):]); sm != "" {
			sitemaps = append(sitemaps, sm)
		}
	}
	return sitemaps
}

// walkSitemap parses one sitemap document, recursing into sitemap
// indexes. Each sitemap is fetched at most once per discovery.
func (s *SitemapService) walkSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, child := range root.SelectElements("sitemap") {
			loc := locText(child)
			if loc == "" {
				continue
			}
			nested, err := s.walkSitemap(ctx, loc, seen)
			if err != nil {
				return nil, err
			}
			urls = append(urls, nested...)
		}
		return urls, nil
	}

	var urls []string
	for _, child := range root.SelectElements("url") {
		if loc := locText(child); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

func locText(el *etree.Element) string {
	loc := el.SelectElement("loc")
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(loc.Text())
}

// underPath reports whether the URL's path sits under prefix, at a path
// boundary.
func underPath(rawURL, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(u.Path, prefix)
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "creating request for %s: %v", target, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, aptscan.Errorf(aptscan.EUNAVAILABLE, "fetching %s: %v", target, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, aptscan.Errorf(aptscan.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}
