// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// combining maps LaTeX accent commands to Unicode combining marks.
var combining = map[string]string{
	"`":  "̀",
	"'":  "́",
	"^":  "̂",
	"~":  "̃",
	"=":  "̄",
	"u":  "̆",
	".":  "̇",
	"\"": "̈",
	"H":  "̋",
	"v":  "̌",
	"c":  "̧",
	"k":  "̨",
}

var (
	symbolAccent = regexp.MustCompile("\\{?\\\\([`'^~=.\"])\\s*\\{?(\\\\[ij]|[A-Za-z])\\}?\\}?")
	letterAccent = regexp.MustCompile(`\{?\\([uvHck])(?:\s+|\{)(\\[ij]|[A-Za-z])\}?\}?`)
	specialChar  = regexp.MustCompile(`\{?\\(ss|aa|AA|ae|AE|oe|OE|o|O|l|L|i|j)\}?(?:\s|\b|$)`)

	specials = map[string]string{
		"ss": "ß", "aa": "å", "AA": "Å", "ae": "æ", "AE": "Æ",
		"oe": "œ", "OE": "Œ", "o": "ø", "O": "Ø", "l": "ł", "L": "Ł",
		"i": "ı", "j": "ȷ",
	}

	escapes = strings.NewReplacer(
		`\&`, "&",
		`\%`, "%",
		`\_`, "_",
		`\$`, "$",
		`\#`, "#",
		"---", "—",
		"--", "–",
	)
)

// DecodeLaTeX converts LaTeX accent commands and escaped symbols into their
// Unicode characters ({\"o} -> ö, \c{c} -> ç, \ss -> ß, \& -> &). Formatting
// commands are left for StripMarkup.
func DecodeLaTeX(s string) string {
	if !strings.ContainsAny(s, `\-`) {
		return s
	}
	s = symbolAccent.ReplaceAllStringFunc(s, func(m string) string {
		sub := symbolAccent.FindStringSubmatch(m)
		return accented(sub[2], combining[sub[1]])
	})
	s = letterAccent.ReplaceAllStringFunc(s, func(m string) string {
		sub := letterAccent.FindStringSubmatch(m)
		return accented(sub[2], combining[sub[1]])
	})
	s = specialChar.ReplaceAllStringFunc(s, func(m string) string {
		sub := specialChar.FindStringSubmatch(m)
		// A braced command keeps the following space; a bare one ends at it.
		trail := m[strings.Index(m, sub[1])+len(sub[1]):]
		if strings.HasPrefix(trail, "}") {
			return specials[sub[1]] + trail[1:]
		}
		return specials[sub[1]]
	})
	return escapes.Replace(s)
}

func accented(base, mark string) string {
	switch base {
	case `\i`:
		base = "i"
	case `\j`:
		base = "j"
	}
	return norm.NFC.String(base + mark)
}
