// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm provides the string transforms applied to citation fields
// before they are stored: title casing, LaTeX markup removal, accent folding,
// and DOI cleanup.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// smallWords stay lower-case inside a title.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "en": true, "for": true, "if": true, "in": true, "nor": true,
	"of": true, "on": true, "or": true, "per": true, "the": true, "to": true,
	"v": true, "via": true, "vs": true,
}

// TitleCase capitalizes the words of s. Small connector words are lower-cased
// unless they open the title, close it, or follow a colon. Words that already
// carry an inner capital (acronyms, "iPhone") and brace-protected words are
// left as they are. For a "\cmd{arg}" token only the argument is cased.
func TitleCase(s string) string {
	words := strings.Fields(s)
	out := make([]string, len(words))

	force := true
	for i, w := range words {
		out[i] = caseWord(w, force || i == len(words)-1)
		force = strings.HasSuffix(w, ":") || strings.HasSuffix(w, "?") || strings.HasSuffix(w, "!")
	}
	return strings.Join(out, " ")
}

func caseWord(w string, force bool) string {
	switch {
	case w == "":
		return w
	case w[0] == '{':
		return w
	case w[0] == '\\':
		j := 1
		for j < len(w) && isASCIILetter(w[j]) {
			j++
		}
		if j < len(w) && w[j] == '{' {
			return w[:j+1] + caseWord(w[j+1:], force)
		}
		return w
	case strings.Contains(w, "://") || strings.Contains(w, "@"):
		return w
	}

	if strings.Contains(w, "-") {
		parts := strings.Split(w, "-")
		for i, p := range parts {
			parts[i] = caseCore(p, true)
		}
		// A small word inside a hyphenation stays lower unless it closes it.
		for i := 1; i < len(parts)-1; i++ {
			if smallWords[strings.ToLower(trimPunct(parts[i]))] {
				parts[i] = strings.ToLower(parts[i])
			}
		}
		return strings.Join(parts, "-")
	}
	return caseCore(w, force)
}

// caseCore cases a single word, ignoring surrounding punctuation.
func caseCore(w string, force bool) string {
	start := strings.IndexFunc(w, isWordRune)
	if start < 0 {
		return w
	}
	end := strings.LastIndexFunc(w, isWordRune)
	_, size := utf8.DecodeRuneInString(w[end:])
	end += size

	core := w[start:end]
	if hasInnerUpper(core) {
		return w
	}

	lower := strings.ToLower(core)
	if !force && smallWords[strings.TrimSuffix(lower, ".")] {
		return w[:start] + lower + w[end:]
	}

	r, n := utf8.DecodeRuneInString(core)
	return w[:start] + string(unicode.ToUpper(r)) + core[n:] + w[end:]
}

func hasInnerUpper(s string) bool {
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIILetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return !isWordRune(r) })
}

var (
	// markupArgument matches an inline formatting command followed by its
	// braced argument.
	markupArgument = regexp.MustCompile(`(?i)\\(emph|mbox|textbf|texttt|textit)\s*\{`)

	// markupBare matches a formatting command used without braces.
	markupBare = regexp.MustCompile(`(?i)\\(emph|mbox|textbf|texttt|textit)\b\s*`)

	markupReplacer = strings.NewReplacer(
		"{", "",
		"}", "",
		"`", "'",
		"~", "&nbsp;",
	)
)

// StripMarkup removes inline formatting commands (\emph, \mbox, \textbf,
// \texttt, \textit) while keeping their argument text, drops BibTeX
// protective braces, replaces backticks with apostrophes, and turns literal
// tildes into non-breaking space escapes.
func StripMarkup(s string) string {
	for {
		loc := markupArgument.FindStringIndex(s)
		if loc == nil {
			break
		}
		open := loc[1] - 1
		closing := matchBrace(s, open)
		if closing < 0 {
			s = s[:loc[0]] + s[loc[1]:]
			continue
		}
		s = s[:loc[0]] + s[open+1:closing] + s[closing+1:]
	}
	s = markupBare.ReplaceAllString(s, "")
	return markupReplacer.Replace(s)
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// doiPrefixes are the resolver URLs stripped from DOI fields.
var doiPrefixes = []string{
	"https://dx.doi.org/",
	"https://doi.org/",
	"http://dx.doi.org/",
	"http://doi.org/",
}

// StripURLPrefix removes a DOI resolver URL from the start of doi.
func StripURLPrefix(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, p := range doiPrefixes {
		if strings.HasPrefix(doi, p) {
			return strings.TrimPrefix(doi, p)
		}
	}
	return doi
}

// CollapseSpace replaces every run of whitespace with a single space and
// trims the ends. BibTeX values routinely span several lines.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// letters without a canonical decomposition.
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"þ", "th", "Þ", "Th",
	"ı", "i",
)

// Fold transliterates s to plain ASCII letters where possible
// ("Jürgen Moßbrücker" -> "Jurgen Mossbrucker", "Søren" -> "Soren").
func Fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return foldReplacer.Replace(out)
}
