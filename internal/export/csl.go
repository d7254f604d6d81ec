// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litindex/internal/index"
	"github.com/pdiddy/litindex/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	DOI      string    `yaml:"DOI,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
	Keyword  string    `yaml:"keyword,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps BibTeX entry types to CSL item types.
var cslTypes = map[string]string{
	"article":       "article-journal",
	"inproceedings": "paper-conference",
	"conference":    "paper-conference",
	"book":          "book",
	"incollection":  "chapter",
	"inbook":        "chapter",
	"phdthesis":     "thesis",
	"mastersthesis": "thesis",
	"thesis":        "thesis",
	"techreport":    "report",
	"report":        "report",
	"software":      "software",
	"unpublished":   "manuscript",
	"online":        "webpage",
}

// FormatCSLYAML writes documents as a CSL-YAML list to w.
func FormatCSLYAML(w io.Writer, docs ...index.Document) error {
	items := make([]CSLItem, len(docs))
	for i, d := range docs {
		items[i] = toCSLItem(d.Record)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a normalized record to a CSLItem.
func toCSLItem(r types.NormalizedRecord) CSLItem {
	item := CSLItem{
		ID:       r.Identifier,
		Type:     cslType(r.EntryKind),
		Title:    r.Title,
		Abstract: r.Abstract,
		DOI:      r.DOI,
		URL:      r.URL,
	}

	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if year := index.SortYear(r.Year); year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}

	var labels []string
	for _, k := range r.Keywords {
		labels = append(labels, k.Label)
	}
	item.Keyword = strings.Join(labels, ", ")

	return item
}

func cslType(kind string) string {
	if t, ok := cslTypes[kind]; ok {
		return t
	}
	return "document"
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
