package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/aptscanio/aptscan"
	aptscanhttp "github.com/aptscanio/aptscan/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSite serves a mutable set of paths so tests can register pages
// that reference the server's own URL.
type fakeSite struct {
	mu    sync.Mutex
	pages map[string]string
	srv   *httptest.Server
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	f := &fakeSite{pages: make(map[string]string)}
	f.srv = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		f.mu.Lock()
		body, ok := f.pages[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(nethttp.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSite) set(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[path] = body
}

func urlset(urls ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?><urlset>`
	for _, u := range urls {
		out += "<url><loc>" + u + "</loc></url>"
	}
	return out + "</urlset>"
}

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("discovers through robots directive", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		srv := site.srv
		site.set("/robots.txt", "User-agent: *\nSitemap: "+srv.URL+"/listings-sitemap.xml\n")
		site.set("/listings-sitemap.xml", urlset(srv.URL+"/rentals/1", srv.URL+"/rentals/2"))

		s := aptscanhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/rentals/1", srv.URL + "/rentals/2"}, urls)
	})

	t.Run("falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		srv := site.srv
		site.set("/sitemap.xml", urlset(srv.URL+"/rentals/1"))

		s := aptscanhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/rentals/1"}, urls)
	})

	t.Run("recurses sitemap indexes", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		srv := site.srv
		site.set("/sitemap.xml", `<?xml version="1.0"?><sitemapindex>`+
			"<sitemap><loc>"+srv.URL+"/a.xml</loc></sitemap>"+
			"<sitemap><loc>"+srv.URL+"/b.xml</loc></sitemap>"+
			"</sitemapindex>")
		site.set("/a.xml", urlset(srv.URL+"/rentals/1"))
		site.set("/b.xml", urlset(srv.URL+"/rentals/2"))

		s := aptscanhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Len(t, urls, 2)
	})

	t.Run("path prefix limits results", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		srv := site.srv
		site.set("/sitemap.xml", urlset(srv.URL+"/rentals/1", srv.URL+"/about"))

		s := aptscanhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/rentals", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/rentals/1"}, urls)
	})

	t.Run("filter applies", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(t)
		srv := site.srv
		site.set("/sitemap.xml", urlset(srv.URL+"/rentals/1", srv.URL+"/sold/2"))

		s := aptscanhttp.NewSitemapService(nil)
		filter := &aptscan.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`/rentals/`)}}
		urls, err := s.DiscoverURLs(context.Background(), srv.URL, filter)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/rentals/1"}, urls)
	})

	t.Run("no sitemaps yields empty result", func(t *testing.T) {
		t.Parallel()

		srv := newFakeSite(t).srv

		s := aptscanhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})
}
