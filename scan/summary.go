package scan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aptscanio/aptscan"
)

// Summary renders a plain-text report of a run, suitable for an alert
// email body: the headline counts followed by one line per listing.
func Summary(result *Result, matches []*aptscan.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching listings (%d extracted, %d pages, %d failed, %d robots-denied)\n",
		len(matches), len(result.Listings), result.Pages, result.Failed, result.Denied)
	if result.Dedup.Invalid > 0 || result.Dedup.Duplicates > 0 {
		fmt.Fprintf(&b, "Dropped %d invalid and %d duplicate records\n",
			result.Dedup.Invalid, result.Dedup.Duplicates)
	}
	if len(matches) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	for _, listing := range matches {
		b.WriteString(formatListing(listing))
		b.WriteString("\n")
	}
	return b.String()
}

// formatListing renders one listing as a single report line.
func formatListing(l *aptscan.Listing) string {
	var parts []string
	if l.Address != nil {
		addr := *l.Address
		if l.Unit != nil {
			addr += " #" + *l.Unit
		}
		parts = append(parts, addr)
	} else if l.Title != nil {
		parts = append(parts, *l.Title)
	}
	if l.Neighborhood != nil {
		parts = append(parts, *l.Neighborhood)
	}
	if l.Beds != nil {
		parts = append(parts, strconv.FormatFloat(*l.Beds, 'f', -1, 64)+"bd")
	}
	if l.Baths != nil {
		parts = append(parts, strconv.FormatFloat(*l.Baths, 'f', -1, 64)+"ba")
	}
	if rent := formatRent(l); rent != "" {
		parts = append(parts, rent)
	}
	parts = append(parts, l.URL)
	return "- " + strings.Join(parts, " | ")
}

func formatRent(l *aptscan.Listing) string {
	switch {
	case l.RentMin != nil && l.RentMax != nil && *l.RentMin != *l.RentMax:
		return fmt.Sprintf("$%d-$%d", *l.RentMin, *l.RentMax)
	case l.RentMin != nil:
		return fmt.Sprintf("$%d", *l.RentMin)
	case l.RentMax != nil:
		return fmt.Sprintf("$%d", *l.RentMax)
	default:
		return ""
	}
}
