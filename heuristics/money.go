package heuristics

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	moneyRE = regexp.MustCompile(`(?i)\$\s*(\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?`)
	rangeRE = regexp.MustCompile(`(?i)\$\s*(\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?\s*[\x{2013}-]\s*\$?\s*(\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?`)
)

// Money extracts an integer USD amount from text. Range patterns like
// "$3,200–$3,450" (hyphen or en-dash) win over single amounts and yield
// the lower bound. "Call for pricing" style strings mean the price is
// unavailable and yield nil, not zero.
func Money(text string) *int {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "call") && strings.Contains(lowered, "price") {
		return nil
	}

	text = strings.ReplaceAll(text, "\u00a0", " ")
	if m := rangeRE.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	if m := moneyRE.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	return nil
}

// RentRange extracts the lowest and highest USD amounts in text. A single
// amount fills both bounds; a bare numeric string is accepted as-is.
func RentRange(text string) (min, max *int) {
	if text == "" {
		return nil, nil
	}

	text = strings.ReplaceAll(text, "\u00a0", " ")
	var amounts []int
	for _, m := range moneyRE.FindAllStringSubmatch(text, -1) {
		if v := parseAmount(m[1]); v != nil {
			amounts = append(amounts, *v)
		}
	}
	if len(amounts) == 0 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && v >= 0 {
			n := int(v)
			return &n, &n
		}
		return nil, nil
	}

	lo, hi := amounts[0], amounts[0]
	for _, v := range amounts[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return &lo, &hi
}

func parseAmount(s string) *int {
	v, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return nil
	}
	return &v
}
