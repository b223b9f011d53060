// Package scan orchestrates listing runs: it fetches each site's seed
// pages through the robots, rate-limit, and retry collaborators and
// feeds them to the extraction pipeline. Per-seed failures are absorbed
// as zero records; only configuration errors stop a run.
package scan

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/bloom"
	"github.com/aptscanio/aptscan/extract"
	"golang.org/x/sync/errgroup"
)

// Frontier sizing for the run-level seen filter.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Scanner runs the extraction pipeline across sites.
type Scanner struct {
	Fetcher  aptscan.Fetcher
	Robots   aptscan.RobotsPolicy
	Pipeline *extract.Pipeline

	// Sitemaps, when set, expands seeds for sites with DiscoverSeeds.
	Sitemaps aptscan.SitemapService

	// Listings, when set, persists every kept listing.
	Listings aptscan.ListingService

	Limiter     *DomainLimiter
	Logger      *slog.Logger
	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of one run.
type Result struct {
	Listings []*aptscan.Listing
	Pages    int
	Failed   int
	Denied   int
	Dedup    extract.DedupStats
}

// run is the mutable state shared by one Scan call's workers.
type run struct {
	dedup    *extract.Deduper
	frontier *bloom.Filter

	mu       sync.Mutex
	listings []*aptscan.Listing
	pages    int
	failed   int
	denied   int
}

// Scan processes every site's seeds with bounded concurrency and returns
// the combined, deduplicated listings. One Deduper and one seen-URL
// filter span the whole run, so the same unit or page fetched through
// two sites is counted once.
func (s *Scanner) Scan(ctx context.Context, sites []*aptscan.SiteConfig) (*Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	r := &run{
		dedup:    extract.NewDeduper(logger),
		frontier: bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, site := range sites {
		for _, seed := range s.seeds(ctx, site, logger) {
			g.Go(func() error {
				return s.scanSeed(gctx, site, seed, r, logger)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Listings: r.listings,
		Pages:    r.pages,
		Failed:   r.failed,
		Denied:   r.denied,
		Dedup:    r.dedup.Stats(),
	}
	logger.Info("scan finished",
		"pages", result.Pages,
		"failed", result.Failed,
		"denied", result.Denied,
		"listings", len(result.Listings))
	return result, nil
}

// seeds returns the site's seed URLs, expanded through sitemap discovery
// when configured. Discovery failure falls back to the configured seeds.
func (s *Scanner) seeds(ctx context.Context, site *aptscan.SiteConfig, logger *slog.Logger) []string {
	seeds := site.Seeds
	if !site.DiscoverSeeds || s.Sitemaps == nil {
		return seeds
	}
	for _, seed := range site.Seeds {
		discovered, err := s.Sitemaps.DiscoverURLs(ctx, seed, nil)
		if err != nil {
			logger.Warn("sitemap discovery failed", "site", site.Name, "seed", seed, "error", err)
			continue
		}
		seeds = append(seeds, discovered...)
	}
	return seeds
}

// scanSeed handles one seed URL end to end. Every failure short of a
// configuration error is absorbed and counted.
func (s *Scanner) scanSeed(ctx context.Context, site *aptscan.SiteConfig, seed string, r *run, logger *slog.Logger) error {
	if r.markFetched(seed) {
		logger.Debug("skipping already fetched URL", "url", seed)
		return nil
	}

	if s.Robots != nil {
		allowed, err := s.Robots.Allowed(ctx, seed)
		if err != nil {
			logger.Warn("robots check failed, proceeding", "url", seed, "error", err)
		} else if !allowed {
			logger.Warn("robots disallows seed", "site", site.Name, "url", seed)
			r.count(func(r *run) { r.denied++ })
			return nil
		}
	}

	if s.Limiter != nil {
		host := seed
		if u, err := url.Parse(seed); err == nil {
			host = u.Host
		}
		if err := s.Limiter.Wait(ctx, host, site.RateLimit); err != nil {
			return err // context canceled
		}
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	body, err := FetchWithRetryDelays(ctx, seed, s.Fetcher.Fetch, func(url string, attempt int, err error) {
		logger.Debug("retrying fetch", "url", url, "attempt", attempt, "error", err)
	}, delays)
	if err != nil {
		logger.Warn("seed fetch failed after retries", "site", site.Name, "url", seed, "error", err)
		r.count(func(r *run) { r.failed++ })
		return nil
	}

	listings, err := s.Pipeline.Run(ctx, aptscan.Page{URL: seed, Body: body}, site, r.dedup)
	if err != nil {
		return err // configuration errors are the one hard failure
	}

	if s.Listings != nil {
		for _, listing := range listings {
			if err := s.Listings.CreateListing(ctx, listing); err != nil {
				logger.Warn("failed to persist listing", "url", listing.URL, "error", err)
			}
		}
	}

	r.mu.Lock()
	r.pages++
	r.listings = append(r.listings, listings...)
	r.mu.Unlock()
	return nil
}

// markFetched records the URL in the run's seen filter and reports
// whether it was already there.
func (r *run) markFetched(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frontier.Test(url) {
		return true
	}
	r.frontier.Add(url)
	return false
}

func (r *run) count(fn func(*run)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}
