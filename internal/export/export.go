// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders stored documents for people and for other tools:
// a plain-text summary, the original BibTeX entry, CSL-YAML for Pandoc and
// reference managers, and full YAML or JSON dumps.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litindex/internal/bibtex"
	"github.com/pdiddy/litindex/internal/index"
	"github.com/pdiddy/litindex/pkg/types"
)

// Format names an output format.
type Format string

const (
	FormatText   Format = "text"
	FormatBibTeX Format = "bibtex"
	FormatCSL    Format = "csl"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatBibTeX, FormatCSL, FormatYAML, FormatJSON}

// ParseFormat resolves a format name; the empty string means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q: use text, bibtex, csl, yaml, or json", s)
}

// Write renders docs to w in the given format.
func Write(w io.Writer, format Format, docs ...index.Document) error {
	switch format {
	case FormatText, "":
		for i, d := range docs {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeText(w, d)
		}
		return nil
	case FormatBibTeX:
		raws := make([]types.RawRecord, len(docs))
		for i, d := range docs {
			raws[i] = d.Record.Raw
		}
		return bibtex.Write(w, raws...)
	case FormatCSL:
		return FormatCSLYAML(w, docs...)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}

func writeText(w io.Writer, d index.Document) {
	r := d.Record
	fmt.Fprintf(w, "[%d] %s\n", d.DocID, r.Title)
	if len(r.Authors) > 0 {
		fmt.Fprintf(w, "     %s\n", strings.Join(r.Authors, ", "))
	}
	fmt.Fprintf(w, "     %s (%s) %s\n", r.Year, r.EntryKind, r.Identifier)
	if r.DOI != "" {
		fmt.Fprintf(w, "     doi: %s\n", r.DOI)
	}
	if r.URL != "" {
		fmt.Fprintf(w, "     url: %s\n", r.URL)
	}
	writeLinks(w, "code", r.Code)
	writeLinks(w, "data", r.Data)
	writeLinks(w, "video", r.Videos)
	if len(r.Keywords) > 0 {
		labels := make([]string, len(r.Keywords))
		for i, k := range r.Keywords {
			labels[i] = k.Category + "/" + k.Label
		}
		fmt.Fprintf(w, "     tags: %s\n", strings.Join(labels, ", "))
	}
	if r.Abstract != "" {
		fmt.Fprintf(w, "\n     %s\n", r.Abstract)
	}
}

func writeLinks(w io.Writer, name string, links []types.Link) {
	for _, l := range links {
		if l.Title != "" {
			fmt.Fprintf(w, "     %s: %s (%s)\n", name, l.URL, l.Title)
		} else {
			fmt.Fprintf(w, "     %s: %s\n", name, l.URL)
		}
	}
}
