// Package rod provides a browser-automation implementation of
// aptscan.Fetcher for listing sites that render their unit grids with
// JavaScript. Static sites should use the cheaper http fetcher.
package rod

import (
	"context"
	"sync"

	"github.com/aptscanio/aptscan"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages fetched before the browser is
// recycled. Chrome accumulates memory under load and never returns to
// its baseline, so a long run needs periodic fresh processes.
const DefaultMaxPages = 75

// Ensure Fetcher implements aptscan.Fetcher at compile time.
var _ aptscan.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome. It recycles
// the browser process after maxPages fetches. Safe for concurrent use.
type Fetcher struct {
	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int
	maxPages  int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxPages sets the number of pages fetched before the browser is
// recycled. Defaults to DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called
// when the Fetcher is no longer needed. Returns an error if
// Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquire()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", aptscan.Errorf(aptscan.EUNAVAILABLE, "opening page for %s: %v", url, err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", aptscan.Errorf(aptscan.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", aptscan.Errorf(aptscan.EUNAVAILABLE, "waiting for %s: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", aptscan.Errorf(aptscan.EUNAVAILABLE, "reading HTML for %s: %v", url, err)
	}
	return html, nil
}

// Close releases browser resources. Safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown()
}

// acquire returns the live browser, recycling it once maxPages fetches
// have gone through. A failed relaunch keeps the old browser running.
func (f *Fetcher) acquire() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		if err := f.launch(); err != nil {
			return nil, err
		}
	}

	f.pageCount++
	if f.pageCount > f.maxPages {
		old, oldLauncher := f.browser, f.launcher
		f.browser, f.launcher = nil, nil
		if err := f.launch(); err != nil {
			f.browser, f.launcher = old, oldLauncher
		} else {
			if old != nil {
				_ = old.Close()
			}
			if oldLauncher != nil {
				oldLauncher.Kill()
			}
			f.pageCount = 1
		}
	}
	return f.browser, nil
}

// launch starts a browser with stability flags for long scans.
func (f *Fetcher) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return aptscan.Errorf(aptscan.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return aptscan.Errorf(aptscan.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = lnchr
	return nil
}

// shutdown closes the browser and launcher. Must be called with mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}
