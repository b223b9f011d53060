// Package goquery provides the DOM-based extraction strategies: the
// generic listing-container heuristic and the embedded structured-data
// scanner. Neither relies on site-specific markup knowledge; per-site
// selector overrides are honored when a config supplies them.
package goquery

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aptscanio/aptscan"
	"github.com/aptscanio/aptscan/heuristics"
	"golang.org/x/net/html"
)

// Token tables driving listing-container detection. Exported as data so
// tests and callers can extend them without touching the algorithm.
var (
	PriceTokens        = []string{"$", "rent", "per month"}
	BedTokens          = []string{"bed", "bd", "br"}
	BathTokens         = []string{"bath", "ba"}
	AddressAttrTokens  = []string{"address", "addr", "location"}
	NeighborhoodTokens = []string{"neighborhood", "hood", "district", "area", "breadcrumb"}
)

// Ensure DOMStrategy implements aptscan.Strategy at compile time.
var _ aptscan.Strategy = (*DOMStrategy)(nil)

// DOMStrategy locates "one element per listing" in arbitrary markup using
// generic token signals instead of site-specific selectors. An element is a
// candidate container when its visible text carries both a price-like token
// and a bed-or-bath token; the deepest such elements win, so an outer
// wrapper never double-counts the card nested inside it.
type DOMStrategy struct {
	logger *slog.Logger
}

// NewDOMStrategy creates a new DOMStrategy. A nil logger disables logging.
func NewDOMStrategy(logger *slog.Logger) *DOMStrategy {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DOMStrategy{logger: logger}
}

// Name returns the strategy identifier.
func (s *DOMStrategy) Name() string {
	return aptscan.StrategyDOM
}

// Extract returns one raw record per detected listing container, in
// document order. When the config carries an explicit list selector the
// generic heuristic is bypassed in favor of the configured selectors.
func (s *DOMStrategy) Extract(_ context.Context, page aptscan.Page, cfg *aptscan.SiteConfig) ([]aptscan.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return nil, aptscan.Errorf(aptscan.EINVALID, "parsing HTML for %s: %v", page.URL, err)
	}

	if cfg != nil && cfg.DOM.ListSelector != "" {
		return s.extractConfigured(doc, cfg)
	}

	containers := s.findContainers(doc)
	s.logger.Debug("identified candidate containers", "url", page.URL, "count", len(containers))

	var records []aptscan.RawRecord
	seen := make(map[identity]bool)
	for _, c := range containers {
		rec := s.extractContainer(c)
		key := identityOf(rec)
		if seen[key] {
			s.logger.Debug("collapsing duplicate container", "address", key.address, "rent", key.rent)
			continue
		}
		if rec["address"] == nil && rec["rent"] == nil && rec["beds"] == nil && rec["baths"] == nil {
			continue // noise container
		}
		seen[key] = true
		records = append(records, rec)
	}
	return records, nil
}

// container is one selected candidate element plus its enumeration metadata.
type container struct {
	node  *html.Node
	sel   *goquery.Selection
	lines []string
	depth int
	order int // document traversal order
}

// identity is the tuple repeated containers for the same unit collapse on.
type identity struct {
	address string
	beds    float64
	baths   float64
	rent    int
	ok      [4]bool
}

func identityOf(rec aptscan.RawRecord) identity {
	var id identity
	if v, ok := rec["address"].(string); ok {
		id.address, id.ok[0] = v, true
	}
	if v, ok := rec["beds"].(float64); ok {
		id.beds, id.ok[1] = v, true
	}
	if v, ok := rec["baths"].(float64); ok {
		id.baths, id.ok[2] = v, true
	}
	if v, ok := rec["rent"].(int); ok {
		id.rent, id.ok[3] = v, true
	}
	return id
}

// findContainers returns the selected listing containers in document order.
func (s *DOMStrategy) findContainers(doc *goquery.Document) []*container {
	var candidates []*container
	doc.Find("*").Each(func(i int, sel *goquery.Selection) {
		node := sel.Get(0)
		lines := textLines(node)
		if len(lines) == 0 {
			return
		}
		lower := strings.ToLower(strings.Join(lines, " "))
		if !containsAny(lower, PriceTokens) {
			return
		}
		if !containsAny(lower, BedTokens) && !containsAny(lower, BathTokens) {
			return
		}
		candidates = append(candidates, &container{
			node:  node,
			sel:   sel,
			lines: lines,
			depth: nodeDepth(node),
			order: i,
		})
	})

	// Deepest first, so the most specific container for a listing is
	// considered before any wrapper around it.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].depth > candidates[j].depth
	})

	chosen := make(map[*html.Node]bool)
	blocked := make(map[*html.Node]bool) // ancestors of chosen nodes
	var selected []*container
	for _, c := range candidates {
		if blocked[c.node] || hasChosenAncestor(c.node, chosen) {
			continue
		}
		chosen[c.node] = true
		for p := c.node.Parent; p != nil; p = p.Parent {
			blocked[p] = true
		}
		selected = append(selected, c)
	}

	// Back to document order for downstream consumers.
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].order < selected[j].order
	})
	return selected
}

// extractContainer pulls fields out of one selected container independently.
func (s *DOMStrategy) extractContainer(c *container) aptscan.RawRecord {
	rec := aptscan.RawRecord{}

	if addr := findAddress(c); addr != "" {
		rec["address"] = addr
	}
	for _, line := range c.lines {
		if v := heuristics.MatchBeds(line); v != nil {
			rec["beds"] = *v
			break
		}
	}
	for _, line := range c.lines {
		if v := heuristics.MatchBaths(line); v != nil {
			rec["baths"] = *v
			break
		}
	}
	for _, line := range c.lines {
		if v := heuristics.Money(line); v != nil {
			rec["rent"] = *v
			break
		}
	}
	if hood := findNeighborhood(c); hood != "" {
		rec["neighborhood"] = hood
	}
	if href, ok := c.sel.Find("a[href]").Attr("href"); ok && href != "" {
		rec["url"] = href
	}
	return rec
}

// extractConfigured applies the per-site selector override instead of the
// generic heuristic: one record per list-selector match, fields captured by
// the configured sub-selectors and optional regex helpers.
func (s *DOMStrategy) extractConfigured(doc *goquery.Document, cfg *aptscan.SiteConfig) ([]aptscan.RawRecord, error) {
	helpers := make(map[string]*regexp.Regexp, len(cfg.DOM.RegexHelpers))
	for field, pattern := range cfg.DOM.RegexHelpers {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, aptscan.Errorf(aptscan.EINVALID, "regex helper for %q: %v", field, err)
		}
		helpers[field] = re
	}

	var records []aptscan.RawRecord
	doc.Find(cfg.DOM.ListSelector).Each(func(_ int, sel *goquery.Selection) {
		rec := aptscan.RawRecord{}
		for field, fieldSel := range cfg.DOM.FieldSelectors {
			if fieldSel == "" {
				continue
			}
			text, ok := selectField(sel, fieldSel)
			if !ok {
				continue
			}
			if re, ok := helpers[field]; ok {
				if m := re.FindStringSubmatch(text); m != nil && len(m) > 1 {
					text = m[1]
				}
			}
			rec[field] = text
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	})
	return records, nil
}

// selectField resolves a field selector, honoring a trailing ::attr(name)
// suffix for attribute captures.
func selectField(sel *goquery.Selection, fieldSel string) (string, bool) {
	attrName := ""
	if before, after, ok := strings.Cut(fieldSel, "::attr("); ok {
		fieldSel = strings.TrimSpace(before)
		attrName = strings.TrimSuffix(after, ")")
	}

	target := sel
	if fieldSel != "" {
		target = sel.Find(fieldSel).First()
		if target.Length() == 0 {
			return "", false
		}
	}
	if attrName != "" {
		return target.Attr(attrName)
	}
	text := strings.TrimSpace(target.Text())
	return text, text != ""
}

func findAddress(c *container) string {
	// explicit <address> tags win
	if text := firstText(c.sel.Find("address")); text != "" {
		return text
	}

	// then elements whose attributes announce an address
	var fromAttrs string
	c.sel.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !attrsContain(sel, AddressAttrTokens) {
			return true
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			fromAttrs = collapseSpace(text)
			return false
		}
		return true
	})
	if fromAttrs != "" {
		return fromAttrs
	}

	// else the first text line that reads like a street address or a
	// unit marker with a number
	for _, line := range c.lines {
		if heuristics.LooksLikeAddress(line) {
			return line
		}
	}
	return ""
}

func findNeighborhood(c *container) string {
	var fromAttrs string
	c.sel.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !attrsContain(sel, NeighborhoodTokens) {
			return true
		}
		if cleaned := heuristics.CleanNeighborhood(sel.Text()); cleaned != "" {
			fromAttrs = cleaned
			return false
		}
		return true
	})
	if fromAttrs != "" {
		return fromAttrs
	}

	for _, line := range c.lines {
		if containsAny(strings.ToLower(line), NeighborhoodTokens) {
			if cleaned := heuristics.CleanNeighborhood(line); cleaned != "" {
				return cleaned
			}
		}
	}
	return ""
}

// textLines returns the container's non-empty text nodes in document
// order, whitespace-collapsed. Script and style bodies are excluded so
// embedded JSON never reads as listing text.
func textLines(n *html.Node) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if s := collapseSpace(c.Data); s != "" {
					lines = append(lines, s)
				}
			case html.ElementNode:
				if c.Data == "script" || c.Data == "style" {
					continue
				}
				walk(c)
			}
		}
	}
	walk(n)
	return lines
}

func firstText(sel *goquery.Selection) string {
	var out string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := collapseSpace(s.Text()); text != "" {
			out = text
			return false
		}
		return true
	})
	return out
}

// attrsContain reports whether the element's class, id, role, or
// aria-label attributes mention any of the tokens.
func attrsContain(sel *goquery.Selection, tokens []string) bool {
	var parts []string
	for _, name := range []string{"class", "id", "role", "aria-label"} {
		if v, ok := sel.Attr(name); ok && v != "" {
			parts = append(parts, strings.ToLower(v))
		}
	}
	if len(parts) == 0 {
		return false
	}
	return containsAny(strings.Join(parts, " "), tokens)
}

func containsAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

func nodeDepth(n *html.Node) int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

func hasChosenAncestor(n *html.Node, chosen map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if chosen[p] {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
