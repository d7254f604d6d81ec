// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/litindex/internal/index"
	"github.com/pdiddy/litindex/pkg/types"
)

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	printTree(&buf, []types.RenderItem{
		types.Leaf("tda", 3),
		types.Descend,
		types.Leaf("tda:mapper", 1),
		types.Ascend,
		types.Leaf("ml", 2),
	})

	want := "  tda (3)\n    mapper (1)\n  ml (2)\n"
	if buf.String() != want {
		t.Errorf("printTree =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestPrintDocuments(t *testing.T) {
	var buf bytes.Buffer
	printDocuments(&buf, nil)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	printDocuments(&buf, []index.Document{{
		DocID: 3,
		Record: types.NormalizedRecord{
			Identifier: "AVeryLongCitationKeyIndeed",
			Title:      "Topological Graph Neural Networks",
			Year:       "2021",
		},
	}})
	out := buf.String()
	for _, want := range []string{"AVeryLongCitation...", "Topological Graph Neural Networks", "2021"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 20, "short"},
		{"AVeryLongCitationKeyIndeed", 20, "AVeryLongCitation..."},
		{"Carrière Persistence Diagrams", 12, "Carrière ..."},
		{"ééééééééééé", 10, "ééééééé..."},
		{"éééééééééé", 10, "éééééééééé"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) = %q is not valid UTF-8", tt.in, tt.width, got)
		}
	}
}
