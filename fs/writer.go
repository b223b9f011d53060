// Package fs writes extracted listings to local files.
package fs

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aptscanio/aptscan"
)

// WriteCSV writes listings as CSV with a header row in the canonical
// field order. Absent optional fields become empty cells.
func WriteCSV(w io.Writer, listings []*aptscan.Listing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(aptscan.Fields); err != nil {
		return err
	}
	for _, listing := range listings {
		if err := cw.Write(listingRow(listing)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes listings as an indented JSON array.
func WriteJSON(w io.Writer, listings []*aptscan.Listing) error {
	if listings == nil {
		listings = []*aptscan.Listing{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

// SaveCSV writes listings as CSV to path, creating parent directories.
func SaveCSV(path string, listings []*aptscan.Listing) error {
	return save(path, listings, WriteCSV)
}

// SaveJSON writes listings as JSON to path, creating parent directories.
func SaveJSON(path string, listings []*aptscan.Listing) error {
	return save(path, listings, WriteJSON)
}

func save(path string, listings []*aptscan.Listing, write func(io.Writer, []*aptscan.Listing) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, listings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// listingRow renders one listing in the aptscan.Fields column order.
func listingRow(l *aptscan.Listing) []string {
	return []string{
		l.Source,
		l.ScrapedAt.Format(time.RFC3339),
		strDeref(l.Title),
		strDeref(l.Address),
		strDeref(l.Unit),
		strDeref(l.Neighborhood),
		floatCell(l.Beds),
		floatCell(l.Baths),
		intCell(l.Sqft),
		intCell(l.RentMin),
		intCell(l.RentMax),
		strDeref(l.AvailableDate),
		l.URL,
	}
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
