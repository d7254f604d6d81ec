// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litindex/internal/httputil"
	"github.com/pdiddy/litindex/internal/secrets"
	"github.com/pdiddy/litindex/internal/zotero"
	"github.com/pdiddy/litindex/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "litindex/0.1"
)

var zoteroCmd = &cobra.Command{
	Use:   "zotero",
	Short: "Download a Zotero library into the data directory",
	Long: `Zotero downloads every item of a Zotero group (or user) library in
BibLaTeX form and writes one .bib file per entry into the data directory,
named after the lower-cased citation key. Existing files for the same keys
are overwritten; other files are left alone.

The API key is read from --api-key, LITINDEX_ZOTERO_API_KEY, or
.secrets/zotero-api-key. Pass --ingest to index the data directory
afterwards.`,
	RunE: runZotero,
}

func init() {
	zoteroCmd.Flags().String("group-id", "", "Zotero library ID (default "+zotero.DefaultGroupID+")")
	zoteroCmd.Flags().String("library-type", "", "Zotero library type: group or user (default group)")
	zoteroCmd.Flags().String("api-key", "", "Zotero API key")
	zoteroCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	zoteroCmd.Flags().Bool("ingest", false, "index the data directory after downloading")

	viper.BindPFlag("zotero.group_id", zoteroCmd.Flags().Lookup("group-id"))
	viper.BindPFlag("zotero.library_type", zoteroCmd.Flags().Lookup("library-type"))
	viper.BindPFlag("zotero.api_key", zoteroCmd.Flags().Lookup("api-key"))

	rootCmd.AddCommand(zoteroCmd)
}

func runZotero(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	cfg := types.ZoteroConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		LibraryType: viper.GetString("zotero.library_type"),
		LibraryID:   viper.GetString("zotero.group_id"),
		APIKey:      loadedSecrets.Value(secrets.ZoteroAPIKey, viper.GetString("zotero.api_key")),
	}
	httputil.RetryLog = os.Stderr

	ctx := context.Background()
	records, malformed, err := zotero.NewClient(cfg).Fetch(ctx, os.Stderr)
	if err != nil {
		return err
	}
	for _, perr := range malformed {
		fmt.Fprintf(os.Stderr, "warning: skipped %v\n", perr)
	}

	lcfg := libraryConfig()
	paths, err := zotero.WriteFiles(lcfg.DataDir, records)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d entries to %s\n", len(paths), lcfg.DataDir)

	if ingest, _ := cmd.Flags().GetBool("ingest"); !ingest {
		return nil
	}
	return runIngest(cmd, nil)
}
