package mock

import (
	"context"

	"github.com/aptscanio/aptscan"
)

var _ aptscan.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of aptscan.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ aptscan.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of aptscan.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) (bool, error)
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) (bool, error) {
	return p.AllowedFn(ctx, url)
}
