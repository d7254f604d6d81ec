// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litindex/internal/library"
	"github.com/pdiddy/litindex/pkg/types"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show keyword tag counts by category",
	Long: `Tags counts how often each keyword tag occurs across the index, grouped
by category (applications, tools, data, flavour). With --tree, hierarchical
tags such as "tda:mapper" are shown nested under their parents.

--similar reports pairs of tags in the same category whose labels are nearly
identical (Jaro-Winkler similarity at or above the given threshold), which
usually points to a typo or an inconsistent plural in the data files.`,
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().Bool("tree", false, "show hierarchical tags nested under their parents")
	tagsCmd.Flags().Float64("similar", 0, "report near-duplicate tags at this similarity (e.g. 0.9)")
	tagsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	tree, _ := cmd.Flags().GetBool("tree")
	similar, _ := cmd.Flags().GetFloat64("similar")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := context.Background()

	if similar > 0 {
		pairs, err := lib.SimilarTags(ctx, similar)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(os.Stdout, pairs)
		}
		if len(pairs) == 0 {
			fmt.Println("No similar tags found.")
			return nil
		}
		for _, p := range pairs {
			fmt.Printf("%-13s  %.3f  %s (%d)  ~  %s (%d)\n",
				p.Category, p.Score, p.A.Label, p.A.Count, p.B.Label, p.B.Count)
		}
		return nil
	}

	freqs, err := lib.TagFrequencies(ctx)
	if err != nil {
		return err
	}

	if tree {
		rendered := library.RenderHierarchy(freqs)
		if jsonOutput {
			return writeJSON(os.Stdout, rendered)
		}
		for _, cat := range freqs.Categories() {
			fmt.Printf("%s\n", cat)
			printTree(os.Stdout, rendered[cat])
		}
		return nil
	}

	if jsonOutput {
		return writeJSON(os.Stdout, freqs)
	}
	for _, cat := range freqs.Categories() {
		fmt.Printf("%s\n", cat)
		for _, tc := range freqs.Sorted(cat) {
			fmt.Printf("  %5d  %s\n", tc.Count, tc.Label)
		}
	}
	return nil
}

// printTree indents each leaf by its nesting level and shows only its last
// label segment.
func printTree(w io.Writer, items []types.RenderItem) {
	level := 1
	for _, it := range items {
		switch it.Kind {
		case types.RenderDescend:
			level++
		case types.RenderAscend:
			level--
		default:
			name := it.Label
			if i := strings.LastIndex(name, ":"); i >= 0 {
				name = name[i+1:]
			}
			fmt.Fprintf(w, "%s%s (%d)\n", strings.Repeat("  ", level), name, it.Count)
		}
	}
}
