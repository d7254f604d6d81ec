// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litindex/internal/library"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed papers or software, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("kind", "all", "which documents to list: all, papers, or software")
	listCmd.Flags().Bool("json", false, "output documents as JSON")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	filter, err := library.ParseKindFilter(kind)
	if err != nil {
		return err
	}

	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	docs, err := lib.List(context.Background(), filter)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(os.Stdout, docs)
	}
	printDocuments(os.Stdout, docs)
	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(docs))
	return nil
}
