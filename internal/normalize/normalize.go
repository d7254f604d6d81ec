// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw citation entries into canonical records.
// A record that cannot be normalized yields a typed error so batch callers
// can skip it and continue.
package normalize

import (
	"fmt"
	"strings"

	"github.com/pdiddy/litindex/internal/taxonomy"
	"github.com/pdiddy/litindex/internal/textnorm"
	"github.com/pdiddy/litindex/pkg/types"
)

// MissingFieldError reports a required field absent from a raw record.
type MissingFieldError struct {
	Identifier string
	Field      string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %s: missing required field %q", e.Identifier, e.Field)
}

// DateResolutionError reports a record whose publication year cannot be
// determined from either the year or the date field.
type DateResolutionError struct {
	Identifier string
	Value      string
}

func (e *DateResolutionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("record %s: no year or date field", e.Identifier)
	}
	return fmt.Sprintf("record %s: cannot resolve year from date %q", e.Identifier, e.Value)
}

// Record normalizes one raw entry. It fails with *MissingFieldError when the
// title is absent or empty once markup is removed, or when the author is
// absent for a non-software entry. It fails with *DateResolutionError when
// no year can be resolved.
func Record(raw types.RawRecord) (types.NormalizedRecord, error) {
	// A title made only of markup ("{}", "\emph{}") counts as missing.
	title := strings.TrimSpace(Title(raw.Value("title")))
	if title == "" {
		return types.NormalizedRecord{}, &MissingFieldError{Identifier: raw.ID, Field: "title"}
	}

	authors := Authors(raw.Authors())
	if len(authors) == 0 && raw.EntryType != types.KindSoftware {
		return types.NormalizedRecord{}, &MissingFieldError{Identifier: raw.ID, Field: "author"}
	}

	year, err := Year(raw)
	if err != nil {
		return types.NormalizedRecord{}, err
	}

	keywords := raw.Value("keywords")

	return types.NormalizedRecord{
		Identifier: raw.ID,
		EntryKind:  raw.EntryType,
		Title:      title,
		Authors:    authors,
		Year:       year,
		Abstract:   textnorm.CollapseSpace(textnorm.DecodeLaTeX(raw.Value("abstract"))),
		DOI:        textnorm.StripURLPrefix(raw.Value("doi")),
		URL:        strings.TrimSpace(raw.Value("url")),
		Keywords:   taxonomy.ParseKeywords(keywords),
		Code:       taxonomy.ParseLinks(keywords, taxonomy.LinkCode),
		Data:       taxonomy.ParseLinks(keywords, taxonomy.LinkData),
		Videos:     taxonomy.ParseLinks(keywords, taxonomy.LinkVideo),
		Raw:        raw,
	}, nil
}

// Title title-cases a raw title and then strips its markup. Casing runs first
// so formatting commands reach StripMarkup unchanged.
func Title(raw string) string {
	s := textnorm.CollapseSpace(textnorm.DecodeLaTeX(raw))
	return textnorm.StripMarkup(textnorm.TitleCase(s))
}
