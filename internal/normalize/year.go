// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/litindex/pkg/types"
)

// dateLayouts are tried in order when a record carries a free-form date.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	"2006/01/02",
	"2006/01",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"Jan 2006",
	"Jan. 2006",
}

// Year resolves the publication year of raw. An explicit year field is used
// verbatim, so values such as "2021a" survive; otherwise the date field is
// parsed and its calendar year rendered as a decimal string.
func Year(raw types.RawRecord) (string, error) {
	if y, ok := raw.Get("year"); ok && strings.TrimSpace(y) != "" {
		return strings.TrimSpace(y), nil
	}

	date, ok := raw.Get("date")
	if !ok || strings.TrimSpace(date) == "" {
		return "", &DateResolutionError{Identifier: raw.ID}
	}

	t, err := ParseDate(date)
	if err != nil {
		return "", &DateResolutionError{Identifier: raw.ID, Value: date}
	}
	return strconv.Itoa(t.Year()), nil
}

// ParseDate parses a free-form date. BibLaTeX ranges ("2020-01/2020-06")
// resolve to their start.
func ParseDate(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	if start, _, ok := strings.Cut(s, "/"); ok && !strings.Contains(s[len(start)+1:], "/") && isISODate(start) {
		s = start
	}

	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// isISODate reports whether s looks like the start of an ISO date (YYYY, YYYY-MM...).
func isISODate(s string) bool {
	if len(s) < 4 {
		return false
	}
	for _, r := range s[:4] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) == 4 || s[4] == '-'
}
