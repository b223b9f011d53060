package main

import (
	"fmt"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/fs"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	listings, err := deps.Listings.FindListings(deps.Ctx, aptscan.ListingFilter{
		Source:       c.Source,
		Neighborhood: c.Neighborhood,
		MinBeds:      c.MinBeds,
		MaxRent:      c.MaxRent,
		Limit:        c.Limit,
		Offset:       c.Offset,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aptscan.ErrorMessage(err))
		return err
	}

	if len(listings) == 0 {
		fmt.Fprintln(deps.Stdout, "No listings found. Use 'aptscan scan --store' to collect some.")
		return nil
	}

	return fs.WriteCSV(deps.Stdout, listings)
}
