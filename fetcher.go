package aptscan

import "context"

// Fetcher retrieves page bodies from URLs. Implementations may use plain
// HTTP or browser automation for JavaScript-rendered content; the
// extraction core only ever sees the resulting bytes.
type Fetcher interface {
	// Fetch retrieves the body at url. The context controls timeout and
	// cancellation; the core itself imposes neither.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases fetcher resources (connections, browser processes).
	Close() error
}

// RobotsPolicy answers whether a URL may be fetched at all. Denials are
// fatal only for the URL in question, never for a whole run.
type RobotsPolicy interface {
	// Allowed reports whether fetching url is permitted. Unreachable or
	// malformed robots.txt files permit fetching.
	Allowed(ctx context.Context, url string) (bool, error)
}
