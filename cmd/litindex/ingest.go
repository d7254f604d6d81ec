// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litindex/internal/library"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Index every .bib and .yaml file in the data directory",
	Long: `Ingest reads every .bib, .yaml, and .yml file in the data directory (or
the directory or file given as an argument), normalizes each entry, and
upserts it into the index. Entries already indexed under the same citation
key are replaced in place.

Malformed entries and entries missing a title, author, or date are skipped
with a message; the rest of the collection is still indexed.

With --watch, ingest keeps running and re-indexes whenever a source file in
the directory changes, until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("watch", false, "keep running and re-index when source files change")
	ingestCmd.Flags().Duration("settle", library.DefaultSettle, "quiet period before a watched change is re-indexed")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	dir := lib.Config().DataDir
	if len(args) == 1 {
		dir = args[0]
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		settle, _ := cmd.Flags().GetDuration("settle")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return lib.Watch(ctx, dir, settle, os.Stdout)
	}

	if _, err := lib.IngestCollection(context.Background(), dir, os.Stdout); err != nil {
		return fmt.Errorf("ingest aborted, index unchanged: %w", err)
	}
	return nil
}
