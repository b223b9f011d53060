package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/fs"
	"github.com/aptscanio/aptscan/scan"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	sites := deps.Sites
	if len(c.Site) > 0 {
		sites = nil
		for _, site := range deps.Sites {
			if slices.Contains(c.Site, site.Name) {
				sites = append(sites, site)
			}
		}
		if len(sites) == 0 {
			err := aptscan.Errorf(aptscan.ENOTFOUND, "no configured site matches %s", strings.Join(c.Site, ", "))
			fmt.Fprintf(deps.Stderr, "error: %s\n", aptscan.ErrorMessage(err))
			return err
		}
	}

	result, err := deps.Scanner.Scan(deps.Ctx, sites)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aptscan.ErrorMessage(err))
		return err
	}

	matches := scan.Filter(result.Listings, scan.Criteria{
		MinBeds:       c.MinBeds,
		MaxRent:       c.MaxRent,
		Neighborhoods: c.Neighborhood,
	})

	fmt.Fprint(deps.Stdout, scan.Summary(result, matches))

	if c.Output != "" {
		if err := writeOutput(c.Output, matches); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", aptscan.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d listings to %s\n", len(matches), c.Output)
	}

	return nil
}

// writeOutput saves listings in the format implied by the file extension.
func writeOutput(path string, listings []*aptscan.Listing) error {
	switch filepath.Ext(path) {
	case ".csv":
		return fs.SaveCSV(path, listings)
	case ".json":
		return fs.SaveJSON(path, listings)
	default:
		return aptscan.Errorf(aptscan.EINVALID, "output path %q must end in .csv or .json", path)
	}
}
