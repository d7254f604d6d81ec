// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litindex/internal/bibtex"
	"github.com/pdiddy/litindex/internal/index"
	"github.com/pdiddy/litindex/pkg/types"
)

func sampleDoc(t *testing.T) index.Document {
	t.Helper()
	raw, err := types.NewRawRecord("Rieck21a", "article", map[string]string{
		"title":  "{Topological} Graph Neural Networks",
		"author": "Rieck, Bastian and Horn, Max",
		"year":   "2021",
	})
	if err != nil {
		t.Fatal(err)
	}
	return index.Document{
		DocID: 7,
		Record: types.NormalizedRecord{
			Identifier: "Rieck21a",
			EntryKind:  "article",
			Title:      "Topological Graph Neural Networks",
			Authors:    []string{"Bastian Rieck", "Max Horn"},
			Year:       "2021a",
			Abstract:   "Graphs meet topology.",
			DOI:        "10.1000/xyz",
			Keywords: []types.Keyword{
				{Category: "tools", Label: "tda"},
				{Category: "tools", Label: "tda:persistent homology"},
			},
			Code: []types.Link{{URL: "https://github.com/x/y", Title: "reference"}},
			Raw:  raw,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatText, true},
		{"text", FormatText, true},
		{"BibTeX", FormatBibTeX, true},
		{"csl", FormatCSL, true},
		{"yaml", FormatYAML, true},
		{"json", FormatJSON, true},
		{"ris", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseFormat(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sampleDoc(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"[7] Topological Graph Neural Networks",
		"Bastian Rieck, Max Horn",
		"2021a (article) Rieck21a",
		"doi: 10.1000/xyz",
		"code: https://github.com/x/y (reference)",
		"tags: tools/tda, tools/tda:persistent homology",
		"Graphs meet topology.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteBibTeXRoundTrip(t *testing.T) {
	doc := sampleDoc(t)
	var buf bytes.Buffer
	if err := Write(&buf, FormatBibTeX, doc); err != nil {
		t.Fatal(err)
	}

	records, malformed, err := bibtex.Parse("export.bib", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(malformed) != 0 {
		t.Fatalf("malformed entries: %v", malformed)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	got := records[0]
	if got.ID != "Rieck21a" || got.EntryType != "article" {
		t.Errorf("got %s/%s, want Rieck21a/article", got.ID, got.EntryType)
	}
	if got.Value("title") != "{Topological} Graph Neural Networks" {
		t.Errorf("title = %q", got.Value("title"))
	}
}

func TestWriteCSL(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSL, sampleDoc(t)); err != nil {
		t.Fatal(err)
	}

	var items []CSLItem
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	item := items[0]
	if item.Type != "article-journal" {
		t.Errorf("Type = %q, want article-journal", item.Type)
	}
	if item.Issued == nil || item.Issued.DateParts[0][0] != 2021 {
		t.Errorf("Issued year should be 2021")
	}
	if len(item.Author) != 2 || item.Author[0].Family != "Rieck" || item.Author[0].Given != "Bastian" {
		t.Errorf("Author = %+v", item.Author)
	}
	if item.DOI != "10.1000/xyz" {
		t.Errorf("DOI = %q", item.DOI)
	}
}

func TestToCSLItemUnknownTypeAndYear(t *testing.T) {
	item := toCSLItem(types.NormalizedRecord{Identifier: "x", EntryKind: "misc", Year: "n.d.", Authors: []string{"Plato"}})
	if item.Type != "document" {
		t.Errorf("Type = %q, want document", item.Type)
	}
	if item.Issued != nil {
		t.Errorf("Issued = %+v, want nil", item.Issued)
	}
	if item.Author[0].Literal != "Plato" {
		t.Errorf("Author = %+v, want literal Plato", item.Author[0])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleDoc(t)); err != nil {
		t.Fatal(err)
	}
	var docs []index.Document
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]index.Document{sampleDoc(t)}, docs); diff != "" {
		t.Errorf("decoded documents mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sampleDoc(t)); err != nil {
		t.Fatal(err)
	}
	var docs []index.Document
	if err := yaml.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Record.Title != "Topological Graph Neural Networks" {
		t.Errorf("decoded %+v", docs)
	}
}
