package main

import (
	"fmt"
	"strings"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	if len(deps.Sites) == 0 {
		fmt.Fprintln(deps.Stdout, "No sites configured.")
		return nil
	}

	for _, site := range deps.Sites {
		fmt.Fprintf(deps.Stdout, "%s  seeds=%d  strategies=%s  fingerprint=%s\n",
			site.Name, len(site.Seeds), strings.Join(site.StrategyOrder, ","), site.Fingerprint)
	}

	return nil
}
