// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"

	"github.com/pdiddy/litindex/internal/textnorm"
)

// particles belong to the last name ("Ludwig van Beethoven").
var particles = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "de": true,
	"du": true, "da": true, "di": true, "del": true, "della": true,
	"dos": true, "la": true, "le": true, "ter": true, "ten": true,
	"zu": true, "bin": true, "al": true,
}

// suffixes are generational suffixes dropped from the displayed name.
var suffixes = map[string]bool{
	"jr": true, "jr.": true, "sr": true, "sr.": true,
	"ii": true, "iii": true, "iv": true,
}

// Authors converts "Last, First Middle" names into "First Middle Last" form,
// preserving order. Brace-protected names and single tokens, typically
// organisations, pass through without their braces.
func Authors(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if n := Author(name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Author formats one name.
func Author(name string) string {
	name = textnorm.CollapseSpace(textnorm.DecodeLaTeX(name))
	if name == "" {
		return ""
	}
	if isProtected(name) {
		return strings.TrimSpace(name[1 : len(name)-1])
	}

	segments := strings.Split(name, ",")
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	joined := textnorm.CollapseSpace(strings.Join(segments, " "))

	first, middle, last := splitName(stripBraces(joined))
	return strings.Join(nonEmpty(first, middle, last), " ")
}

// splitName separates a "First Middle Last" string into its parts. A single
// token is returned as the first name.
func splitName(s string) (first, middle, last string) {
	tokens := strings.Fields(s)
	if len(tokens) > 1 {
		kept := tokens[:0]
		for _, t := range tokens {
			if !suffixes[strings.ToLower(t)] {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	switch len(tokens) {
	case 0:
		return "", "", ""
	case 1:
		return tokens[0], "", ""
	}

	lastStart := len(tokens) - 1
	for lastStart > 1 && particles[tokens[lastStart-1]] {
		lastStart--
	}

	return tokens[0], strings.Join(tokens[1:lastStart], " "), strings.Join(tokens[lastStart:], " ")
}

func isProtected(s string) bool {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func stripBraces(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
