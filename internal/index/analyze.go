// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Terms splits text into lower-case word tokens and reduces each to its
// English Snowball stem. Ingestion and query parsing share it, so
// morphological variants ("graphs", "graphing") meet at the same term.
func Terms(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
	for i, w := range words {
		words[i] = english.Stem(w, true)
	}
	return words
}

// analyze renders the terms of text as a space-separated string for the
// full-text table.
func analyze(text string) string {
	return strings.Join(Terms(text), " ")
}
