package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	aptscanhttp "github.com/aptscanio/aptscan/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robotsServer(t *testing.T, robots string, fetches *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/robots.txt" {
			if fetches != nil {
				fetches.Add(1)
			}
			_, _ = w.Write([]byte(robots))
			return
		}
		w.WriteHeader(nethttp.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRobots_Allowed(t *testing.T) {
	t.Parallel()

	t.Run("wildcard disallow denies matching paths", func(t *testing.T) {
		t.Parallel()

		srv := robotsServer(t, "User-agent: *\nDisallow: /private/\n", nil)
		r := aptscanhttp.NewRobots(nil, "")

		allowed, err := r.Allowed(context.Background(), srv.URL+"/private/listing")
		require.NoError(t, err)
		assert.False(t, allowed)

		allowed, err = r.Allowed(context.Background(), srv.URL+"/rentals")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("longer allow rule overrides a shorter disallow", func(t *testing.T) {
		t.Parallel()

		srv := robotsServer(t, "User-agent: *\nDisallow: /api/\nAllow: /api/public/\n", nil)
		r := aptscanhttp.NewRobots(nil, "")

		allowed, err := r.Allowed(context.Background(), srv.URL+"/api/public/units")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = r.Allowed(context.Background(), srv.URL+"/api/internal")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("rules for other agents do not apply", func(t *testing.T) {
		t.Parallel()

		srv := robotsServer(t, "User-agent: otherbot\nDisallow: /\n", nil)
		r := aptscanhttp.NewRobots(nil, "aptscan/1.0")

		allowed, err := r.Allowed(context.Background(), srv.URL+"/anything")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("missing robots permits fetching", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusNotFound)
		}))
		t.Cleanup(srv.Close)
		r := aptscanhttp.NewRobots(nil, "")

		allowed, err := r.Allowed(context.Background(), srv.URL+"/rentals")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("robots fetched once per host", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int64
		srv := robotsServer(t, "User-agent: *\nDisallow: /private/\n", &fetches)
		r := aptscanhttp.NewRobots(nil, "")

		for range 5 {
			_, err := r.Allowed(context.Background(), srv.URL+"/rentals")
			require.NoError(t, err)
		}
		assert.Equal(t, int64(1), fetches.Load())
	})
}
