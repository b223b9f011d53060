package main

import (
	"context"
	"io"

	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/scan"
	"github.com/aptscanio/aptscan/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Listings aptscan.ListingService
	Scanner  *scan.Scanner
	Sites    []*aptscan.SiteConfig
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scan  ScanCmd  `cmd:"" help:"Scan configured sites and extract listings"`
	List  ListCmd  `cmd:"" help:"List stored listings"`
	Sites SitesCmd `cmd:"" help:"Show configured sites"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Config      string   `short:"C" default:"sites" help:"Site config file or directory"`
	Site        []string `short:"s" help:"Limit the scan to named sites (repeatable)"`
	Output      string   `short:"o" help:"Write listings to a .csv or .json file"`
	Store       bool     `help:"Persist listings to the database"`
	Browser     bool     `short:"b" help:"Fetch pages with headless Chrome"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent seed fetch limit"`
	Verbose     bool     `short:"v" help:"Enable debug logging"`

	MinBeds      *float64 `help:"Only report listings with at least this many bedrooms"`
	MaxRent      *int     `help:"Only report listings at or below this rent"`
	Neighborhood []string `short:"n" help:"Only report listings in these neighborhoods (repeatable)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Source       *string  `help:"Filter by source site name"`
	Neighborhood *string  `short:"n" help:"Filter by neighborhood"`
	MinBeds      *float64 `help:"Minimum bedrooms"`
	MaxRent      *int     `help:"Maximum rent"`
	Limit        int      `default:"50" help:"Maximum rows"`
	Offset       int      `help:"Rows to skip"`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct {
	Config string `short:"C" default:"sites" help:"Site config file or directory"`
}
