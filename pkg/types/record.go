// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litindex pipeline:
// raw citation records as read from source files, the canonical records
// derived from them, and the tag structures used for browsing.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Entry kinds with special handling during normalization.
const (
	KindSoftware = "software"
)

// RawRecord is one citation entry exactly as the source format supplied it.
// Field names are lower-case; values are the unprocessed field text.
type RawRecord struct {
	// ID is the citation key (e.g. "Rieck21a"). Required.
	ID string `json:"ID" yaml:"id"`

	// EntryType is the entry kind (article, thesis, software, unpublished, ...). Required.
	EntryType string `json:"ENTRYTYPE" yaml:"type"`

	// Fields maps lower-case field names to their raw values.
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// NewRawRecord validates and builds a RawRecord. Field names are folded to
// lower case; the fields map is copied.
func NewRawRecord(id, entryType string, fields map[string]string) (RawRecord, error) {
	id = strings.TrimSpace(id)
	entryType = strings.ToLower(strings.TrimSpace(entryType))
	if id == "" {
		return RawRecord{}, fmt.Errorf("raw record: missing citation key")
	}
	if entryType == "" {
		return RawRecord{}, fmt.Errorf("raw record %s: missing entry type", id)
	}

	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return RawRecord{ID: id, EntryType: entryType, Fields: copied}, nil
}

// Get returns the named field and whether it is present.
func (r RawRecord) Get(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Value returns the named field or the empty string.
func (r RawRecord) Value(name string) string {
	return r.Fields[name]
}

// FieldNames returns the record's field names in sorted order.
func (r RawRecord) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Authors splits the author field on the BibTeX " and " separator. Separators
// inside braces belong to a protected name and are not split.
func (r RawRecord) Authors() []string {
	raw, ok := r.Fields["author"]
	if !ok {
		return nil
	}

	var (
		names []string
		depth int
		start int
	)
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && isAndSeparator(raw, i) {
			names = appendName(names, raw[start:i])
			start = i + 5
			i += 4
		}
	}
	return appendName(names, raw[start:])
}

// isAndSeparator reports whether s[i:] begins with whitespace, "and" in any
// case, whitespace.
func isAndSeparator(s string, i int) bool {
	if i+5 > len(s) || !isSpace(s[i]) || !isSpace(s[i+4]) {
		return false
	}
	return strings.EqualFold(s[i+1:i+4], "and")
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

func appendName(names []string, name string) []string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return names
	}
	return append(names, name)
}

// Keyword is one categorized tag attached to a record.
type Keyword struct {
	// Category is the tag category (applications, tools, data, flavour, ...).
	Category string `json:"category" yaml:"category"`

	// Label is the lower-case tag text. Hierarchy levels are separated by ':'.
	Label string `json:"label" yaml:"label"`
}

// Less orders keywords by category, then label in hierarchy order.
func (k Keyword) Less(o Keyword) bool {
	if k.Category != o.Category {
		return k.Category < o.Category
	}
	return CompareLabels(k.Label, o.Label) < 0
}

// SortKeywords sorts ks in place and removes duplicates.
func SortKeywords(ks []Keyword) []Keyword {
	sort.Slice(ks, func(i, j int) bool { return ks[i].Less(ks[j]) })
	out := ks[:0]
	for i, k := range ks {
		if i > 0 && k == ks[i-1] {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Link is an associated resource such as a code repository, dataset, or video.
type Link struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// NormalizedRecord is the canonical form of a citation entry. It is built
// once by the normalizer and not modified afterwards.
type NormalizedRecord struct {
	// Identifier is the citation key, unique within a collection.
	Identifier string `json:"id" yaml:"id"`

	// EntryKind is the lower-case entry type.
	EntryKind string `json:"type" yaml:"type"`

	// Title is title-cased with markup removed.
	Title string `json:"title" yaml:"title"`

	// Authors lists names in "First Middle Last" form, in source order.
	Authors []string `json:"author" yaml:"author"`

	// Year is kept as a string so values like "2021a" survive.
	Year string `json:"year" yaml:"year"`

	Abstract string `json:"abstract" yaml:"abstract"`

	// DOI has resolver URL prefixes removed.
	DOI string `json:"doi" yaml:"doi"`

	URL string `json:"url" yaml:"url"`

	// Keywords is sorted by (Category, Label) and ancestor-closed.
	Keywords []Keyword `json:"keywords" yaml:"keywords"`

	Code   []Link `json:"code,omitempty" yaml:"code,omitempty"`
	Data   []Link `json:"data,omitempty" yaml:"data,omitempty"`
	Videos []Link `json:"videos,omitempty" yaml:"videos,omitempty"`

	// Raw is the untouched source entry, kept for lossless re-export.
	Raw RawRecord `json:"raw" yaml:"raw"`
}

// IsSoftware reports whether the record describes a software package.
func (r NormalizedRecord) IsSoftware() bool {
	return r.EntryKind == KindSoftware
}
