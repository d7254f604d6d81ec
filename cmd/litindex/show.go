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

var showCmd = &cobra.Command{
	Use:   "show <citation-key|doc-id>",
	Short: "Show one document",
	Long: `Show prints the document stored under a citation key or numeric document
ID. Use --format bibtex to re-export the original entry, csl for CSL-YAML
(Pandoc, reference managers), or yaml/json for the full normalized record.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("format", "text", "output format: text, bibtex, csl, yaml, or json")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	err = lib.Export(context.Background(), args[0], format, os.Stdout)
	if errors.Is(err, index.ErrNotFound) {
		return fmt.Errorf("no document %q in %s", args[0], lib.Config().IndexDir)
	}
	return err
}
