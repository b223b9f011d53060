package heuristics

import (
	"regexp"
	"strings"
)

// UnitMarkers are the tokens that, combined with a digit, mark a line as
// referring to a specific unit.
var UnitMarkers = []string{"#", "unit", "apt", "apartment", "suite"}

var (
	addressRE = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z0-9.'\- ]+\s+(?:St|Street|Ave|Avenue|Rd|Road|Blvd|Boulevard|Dr|Drive|Way|Ct|Court|Ln|Lane|Ter|Terrace|Pl|Place|Pkwy|Parkway|Cir|Circle)\b`)
	digitRE   = regexp.MustCompile(`\d`)
	spaceRE   = regexp.MustCompile(`\s+`)

	cityTokenRE    = regexp.MustCompile(`(?i)\b(San\s+Francisco|CA|California)\b`)
	segmentSplitRE = regexp.MustCompile(`[,/|\x{2022}]`)
)

// streetAbbrev maps long street-name forms to the short forms used when
// normalizing addresses for fingerprinting.
var streetAbbrev = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"drive":     "dr",
	"road":      "rd",
	"boulevard": "blvd",
	"lane":      "ln",
	"court":     "ct",
	"place":     "pl",
	"circle":    "cir",
	"terrace":   "ter",
	"highway":   "hwy",
	"parkway":   "pkwy",
	"square":    "sq",
	"apartment": "apt",
	"suite":     "ste",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
}

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9\s]`)

// LooksLikeAddress reports whether text appears to be a street address:
// either it matches the street-suffix pattern or it carries a unit marker
// together with a digit.
func LooksLikeAddress(text string) bool {
	cleaned := collapseSpace(text)
	if cleaned == "" {
		return false
	}
	if addressRE.MatchString(cleaned) {
		return true
	}

	lowered := strings.ToLower(cleaned)
	for _, marker := range UnitMarkers {
		if strings.Contains(lowered, marker) && digitRE.MatchString(cleaned) {
			return true
		}
	}
	return false
}

// CleanNeighborhood derives a compact neighborhood name from free text:
// the first non-empty segment split on commas, slashes, pipes, or bullets,
// with city/state filler stripped.
func CleanNeighborhood(text string) string {
	cleaned := collapseSpace(text)
	if cleaned == "" {
		return ""
	}

	candidate := cleaned
	for _, part := range segmentSplitRE.Split(cleaned, -1) {
		if p := strings.TrimSpace(part); p != "" {
			candidate = p
			break
		}
	}

	candidate = collapseSpace(cityTokenRE.ReplaceAllString(candidate, ""))
	if candidate == "" {
		return cleaned
	}
	return candidate
}

// NormalizeAddress lowercases an address, strips punctuation, and
// abbreviates street-name words so that trivially different spellings of
// the same address fingerprint identically.
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	addr = nonAlnumRE.ReplaceAllString(addr, " ")

	words := strings.Fields(addr)
	for i, w := range words {
		if short, ok := streetAbbrev[w]; ok {
			words[i] = short
		}
	}
	return strings.Join(words, " ")
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}
