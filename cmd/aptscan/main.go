package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/extract"
	"github.com/aptscanio/aptscan/goquery"
	aptscanhttp "github.com/aptscanio/aptscan/http"
	"github.com/aptscanio/aptscan/rod"
	"github.com/aptscanio/aptscan/scan"
	aptscanslog "github.com/aptscanio/aptscan/slog"
	"github.com/aptscanio/aptscan/sqlite"
	"github.com/aptscanio/aptscan/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Service for end-to-end testing.
	ListingService aptscan.ListingService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("aptscan"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'aptscan --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Only scan --store and list touch the database.
	if cmd == "list" || (cmd == "scan" && cli.Scan.Store) {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set APTSCAN_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.ListingService = sqlite.NewListingService(m.DB)
		deps.DB = m.DB
		deps.Listings = m.ListingService
	}

	switch cmd {
	case "scan":
		sites, err := loadSites(cli.Scan.Config)
		if err != nil {
			return err
		}
		deps.Sites = sites

		logger := newLogger(stderr, cli.Scan.Verbose)

		var fetcher aptscan.Fetcher
		if cli.Scan.Browser {
			browserFetcher, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = browserFetcher
		} else {
			fetcher = aptscanhttp.NewFetcher()
		}
		fetcher = aptscanslog.NewLoggingFetcher(fetcher, logger)
		defer fetcher.Close()

		selector := extract.NewSelector(logger,
			goquery.NewStructuredStrategy(logger),
			extract.NewXHRStrategy(fetcher, logger),
			goquery.NewDOMStrategy(logger),
		)

		deps.Scanner = &scan.Scanner{
			Fetcher:     fetcher,
			Robots:      aptscanhttp.NewRobots(nil, aptscanhttp.DefaultUserAgent),
			Pipeline:    extract.NewPipeline(selector, extract.NewNormalizer(logger), logger),
			Sitemaps:    aptscanslog.NewLoggingSitemapService(aptscanhttp.NewSitemapService(nil), logger),
			Listings:    deps.Listings,
			Limiter:     scan.NewDomainLimiter(1.0),
			Logger:      logger,
			Concurrency: cli.Scan.Concurrency,
		}

	case "sites":
		sites, err := loadSites(cli.Sites.Config)
		if err != nil {
			return err
		}
		deps.Sites = sites
	}

	return kongCtx.Run(deps)
}

// loadSites reads site configs from a file or a directory of files.
func loadSites(path string) ([]*aptscan.SiteConfig, error) {
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		site, err := yaml.LoadSite(path)
		if err != nil {
			return nil, err
		}
		return []*aptscan.SiteConfig{site}, nil
	}
	return yaml.LoadDir(path)
}

// newLogger builds the run logger writing to stderr so command output
// stays machine-readable.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("APTSCAN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "aptscan.db"
	}
	dir := filepath.Join(home, ".aptscan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "aptscan.db")
}
