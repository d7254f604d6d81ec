// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy parses the keyword field of a citation entry into
// categorized tags and flattens sorted tag lists for tree rendering.
//
// The keyword field is a comma-separated list. Each token is split on its
// first hyphen: "1-images:3d" is an applications tag, "C-https://..." is an
// associated code link, and a bare "innovate" is a flavour tag.
package taxonomy

import (
	"strings"
	"unicode"

	"github.com/pdiddy/litindex/pkg/types"
)

// Tag categories.
const (
	CategoryApplications = "applications"
	CategoryTools        = "tools"
	CategoryData         = "data"
	CategoryFlavour      = "flavour"
)

// Link codes for associated resources.
const (
	LinkCode  = "C"
	LinkData  = "D"
	LinkVideo = "V"
)

// categoryCodes maps numeric keyword codes to category names.
var categoryCodes = map[string]string{
	"1": CategoryApplications,
	"2": CategoryTools,
	"3": CategoryData,
}

// flavours are the bare tokens kept as flavour tags.
var flavours = map[string]bool{
	"confirm":  true,
	"innovate": true,
}

// HierarchySeparator separates levels in a hierarchical label.
const HierarchySeparator = ":"

// ParseKeywords turns a raw keyword field into a sorted, deduplicated,
// ancestor-closed set of tags. Alphabetic codes denote links and are left
// to ParseLinks. Bare tokens that are not flavours are dropped.
func ParseKeywords(raw string) []types.Keyword {
	var out []types.Keyword

	for _, token := range strings.Split(raw, ",") {
		code, label, coded := strings.Cut(token, "-")
		if !coded {
			flavour := strings.ToLower(strings.TrimSpace(token))
			if flavour != "" && flavours[flavour] {
				out = append(out, types.Keyword{Category: CategoryFlavour, Label: flavour})
			}
			continue
		}

		code = strings.TrimSpace(code)
		label = strings.ToLower(strings.TrimSpace(label))
		if code == "" || label == "" || isAlpha(code) {
			continue
		}

		category, ok := categoryCodes[code]
		if !ok {
			category = code
		}
		for _, l := range Ancestors(label) {
			out = append(out, types.Keyword{Category: category, Label: l})
		}
	}

	return types.SortKeywords(out)
}

// Ancestors returns label followed by each of its parent labels, longest
// first: "a:b:c" yields "a:b:c", "a:b", "a".
func Ancestors(label string) []string {
	parts := strings.Split(label, HierarchySeparator)
	out := make([]string, 0, len(parts))
	for i := len(parts); i > 0; i-- {
		out = append(out, strings.Join(parts[:i], HierarchySeparator))
	}
	return out
}

// Depth is the number of hierarchy separators in label.
func Depth(label string) int {
	return strings.Count(label, HierarchySeparator)
}

// ParseLinks extracts the links whose alphabetic code equals code. The first
// whitespace-separated field after the hyphen is the URL; anything after it
// is the link title.
func ParseLinks(raw, code string) []types.Link {
	var out []types.Link

	for _, token := range strings.Split(raw, ",") {
		c, rest, coded := strings.Cut(token, "-")
		if !coded || strings.TrimSpace(c) != code {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		out = append(out, types.Link{
			URL:   fields[0],
			Title: strings.Join(fields[1:], " "),
		})
	}

	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
