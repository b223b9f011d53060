package heuristics

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bedRE  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:bed|beds|bedroom|bedrooms|br|brs|bd|bds|bdr|bdrm)\b`)
	bathRE = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:bath|baths|bathroom|bathrooms|ba|bth)\b`)
	sqftRE = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+|\d+)\s*(?:sq\.?\s*ft\.?|square\s*feet)`)

	// compact forms like "3bd/2ba" parse once separators become spaces
	separatorRE = regexp.MustCompile(`[-/]`)
)

// MatchBeds parses a bedroom count from an explicit bed phrase. "Studio"
// means zero bedrooms; "loft" is ambiguous and yields nil rather than a
// guess. Text without a bed token yields nil; see Beds for the lenient
// variant used on values already known to describe bedrooms.
func MatchBeds(text string) *float64 {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "studio") {
		v := 0.0
		return &v
	}
	if strings.Contains(lowered, "loft") {
		return nil
	}

	normalized := separatorRE.ReplaceAllString(lowered, " ")
	if m := bedRE.FindStringSubmatch(normalized); m != nil {
		return parseCount(m[1])
	}
	return nil
}

// Beds parses a bedroom count, additionally accepting a bare numeric
// string when no bed token is present.
func Beds(text string) *float64 {
	if v := MatchBeds(text); v != nil {
		return v
	}
	if strings.Contains(strings.ToLower(text), "loft") {
		return nil
	}
	return parseCount(strings.TrimSpace(text))
}

// MatchBaths parses a bathroom count from an explicit bath phrase;
// half-baths like "1.5" are preserved. Text without a bath token yields nil.
func MatchBaths(text string) *float64 {
	if text == "" {
		return nil
	}

	normalized := separatorRE.ReplaceAllString(strings.ToLower(text), " ")
	if m := bathRE.FindStringSubmatch(normalized); m != nil {
		return parseCount(m[1])
	}
	return nil
}

// Baths parses a bathroom count, additionally accepting a bare numeric
// string when no bath token is present.
func Baths(text string) *float64 {
	if v := MatchBaths(text); v != nil {
		return v
	}
	return parseCount(strings.TrimSpace(text))
}

// Sqft parses a square-footage figure, accepting "sq ft", "sq.ft.",
// "square feet", and bare numbers.
func Sqft(text string) *int {
	if text == "" {
		return nil
	}

	if m := sqftRE.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			return &v
		}
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && v >= 0 {
		n := int(v)
		return &n
	}
	return nil
}

func parseCount(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
