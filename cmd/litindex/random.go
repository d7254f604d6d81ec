// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litindex/internal/export"
	"github.com/pdiddy/litindex/internal/index"
)

// randomAttempts bounds retries when a pick lands on an unused document ID.
const randomAttempts = 5

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a randomly picked document",
	RunE:  runRandom,
}

func init() {
	randomCmd.Flags().Bool("json", false, "output the document as JSON")

	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := context.Background()
	var doc index.Document
	for attempt := 0; attempt < randomAttempts; attempt++ {
		doc, err = lib.GetRandomDocument(ctx)
		if !errors.Is(err, index.ErrNotFound) {
			break
		}
	}
	switch {
	case errors.Is(err, index.ErrEmptyIndex):
		fmt.Println("No documents indexed. Run litindex ingest first.")
		return nil
	case err != nil:
		return err
	}

	format := export.FormatText
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		format = export.FormatJSON
	}
	return export.Write(os.Stdout, format, doc)
}
