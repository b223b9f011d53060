package heuristics

import (
	"strings"
	"time"
)

// dateLayouts are tried in order against availability strings.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// immediateWords map availability phrases to "available today".
var immediateWords = map[string]bool{
	"now":         true,
	"immediately": true,
	"today":       true,
}

// Date parses an availability date and returns it in ISO-8601 form.
// "now", "immediately", and "today" resolve to now's UTC date. Unparseable
// text yields nil.
func Date(text string, now time.Time) *string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			s := t.Format("2006-01-02")
			return &s
		}
	}
	if immediateWords[strings.ToLower(text)] {
		s := now.UTC().Format("2006-01-02")
		return &s
	}
	return nil
}
