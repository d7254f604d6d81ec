// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litindex/internal/index"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index; results are listed newest first",
	Long: `Search runs a query against titles, authors, abstracts, and keyword tags
and lists every match, newest first.

Terms are stemmed, so "graphs" also finds "graph". Restrict a term to one
field with title:, author:, abstract:, or tag: (keyword: is an alias), quote
phrases ("persistent homology"), and combine clauses with AND, OR, NOT, and
parentheses. Adjacent clauses are joined with OR unless default_operator is
set to "and".

  litindex search 'tag:mapper AND author:carriere'
  litindex search 'title:"neural networks" NOT abstract:survey'`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := context.Background()
	results, err := lib.Search(ctx, text)
	var qe *index.QuerySyntaxError
	if errors.As(err, &qe) {
		return fmt.Errorf("invalid query %q: %s", qe.Query, qe.Msg)
	}
	if err != nil {
		return err
	}
	if results == nil {
		return fmt.Errorf("query required: provide search terms, e.g. litindex search 'tag:mapper'")
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(os.Stdout, results)
	}

	total, err := lib.Count(ctx)
	if err != nil {
		return err
	}
	printDocuments(os.Stdout, results.Documents)
	fmt.Fprintf(os.Stdout, "\n%d results (%d documents indexed)\n", results.Len(), total)
	return nil
}

// printDocuments writes a one-line-per-document table.
func printDocuments(w io.Writer, docs []index.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-6s  %-20s  %s\n", "ID", "Year", "Key", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range docs {
		fmt.Fprintf(w, "%-5d  %-6s  %-20s  %s\n",
			d.DocID, d.Record.Year, truncate(d.Record.Identifier, 20), truncate(d.Record.Title, 64))
	}
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
