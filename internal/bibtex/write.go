// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pdiddy/litindex/pkg/types"
)

// Write renders records as BibTeX, one entry per record with fields in
// alphabetical order and values wrapped in braces.
func Write(w io.Writer, records ...types.RawRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintf(bw, "@%s{%s", r.EntryType, r.ID)
		for _, name := range r.FieldNames() {
			fmt.Fprintf(bw, ",\n %s = {%s}", name, r.Fields[name])
		}
		bw.WriteString("\n}\n\n")
	}
	return bw.Flush()
}
