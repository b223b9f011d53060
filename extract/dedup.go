package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/heuristics"
	"github.com/cespare/xxhash/v2"
)

// Deduper validates listing candidates and keeps the first record per
// fingerprint. Invalid records and later duplicates are dropped and
// counted, never surfaced as errors. Safe for concurrent use; one
// Deduper is shared across a whole run.
type Deduper struct {
	logger *slog.Logger

	mu         sync.Mutex
	seen       map[string]bool
	kept       int
	invalid    int
	duplicates int
}

// DedupStats summarizes a run's record accounting.
type DedupStats struct {
	Kept       int
	Invalid    int
	Duplicates int
}

// NewDeduper creates an empty Deduper. A nil logger disables logging.
func NewDeduper(logger *slog.Logger) *Deduper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Deduper{logger: logger, seen: make(map[string]bool)}
}

// Add validates the listing and admits it if its fingerprint under the
// policy is new, stamping the fingerprint on the listing. It reports
// whether the listing was kept.
func (d *Deduper) Add(listing *aptscan.Listing, policy aptscan.FingerprintPolicy) bool {
	if err := listing.Validate(); err != nil {
		d.mu.Lock()
		d.invalid++
		d.mu.Unlock()
		d.logger.Debug("dropping invalid listing", "url", listing.URL, "error", err)
		return false
	}

	fp := Fingerprint(listing, policy)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[fp] {
		d.duplicates++
		d.logger.Debug("dropping duplicate listing", "url", listing.URL, "fingerprint", fp)
		return false
	}
	d.seen[fp] = true
	d.kept++
	listing.Fingerprint = fp
	return true
}

// Stats returns the accounting so far.
func (d *Deduper) Stats() DedupStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DedupStats{Kept: d.kept, Invalid: d.invalid, Duplicates: d.duplicates}
}

// Fingerprint computes the listing's dedup identity under the policy.
// The url policy keys on where the listing was found; the unit policy
// keys on what it is, collapsing the same unit across URLs. Addresses
// are normalized so formatting differences don't defeat the identity.
func Fingerprint(listing *aptscan.Listing, policy aptscan.FingerprintPolicy) string {
	var parts []string
	switch policy {
	case aptscan.FingerprintUnit:
		parts = []string{
			normalizedAddress(listing),
			formatFloat(listing.Beds),
			formatFloat(listing.Baths),
			formatInt(listing.RentMin),
		}
	default:
		parts = []string{
			listing.URL,
			derefString(listing.Unit),
			normalizedAddress(listing),
		}
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "|")))
}

func normalizedAddress(listing *aptscan.Listing) string {
	if listing.Address == nil {
		return ""
	}
	return heuristics.NormalizeAddress(*listing.Address)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
