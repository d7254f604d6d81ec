// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litindex CLI: it ingests a
// directory of citation files into a full-text index and answers searches,
// lookups, and tag browsing against it.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litindex/internal/library"
	"github.com/pdiddy/litindex/internal/secrets"
	"github.com/pdiddy/litindex/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// rootCmd is the base command for the litindex CLI.
var rootCmd = &cobra.Command{
	Use:   "litindex",
	Short: "Index and search a bibliography of papers and software",
	Long: `litindex keeps a literature collection as human-authored BibTeX and YAML
files, normalizes the entries, and builds a local full-text index over
titles, authors, abstracts, and keyword tags.

Run "litindex ingest" after editing the data directory, then search, show,
list, or browse tags. "litindex zotero" refreshes the data directory from a
Zotero group library.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litindex.yaml or ~/.config/litindex/litindex.yaml)")
	rootCmd.PersistentFlags().String("index-dir", types.DefaultIndexDir, "directory holding the index database")
	rootCmd.PersistentFlags().String("data-dir", types.DefaultDataDir, "directory holding .bib and .yaml source files")

	viper.BindPFlag("index_dir", rootCmd.PersistentFlags().Lookup("index-dir"))
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	viper.SetDefault("title_weight", types.DefaultTitleWeight)
	viper.SetDefault("default_operator", types.DefaultOperatorOr)
	viper.SetDefault("zotero.library_type", types.DefaultZoteroLibrary)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litindex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litindex"))
		}
	}

	viper.SetEnvPrefix("LITINDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// libraryConfig resolves the library settings from flags, environment, and
// the config file.
func libraryConfig() types.LibraryConfig {
	return types.LibraryConfig{
		IndexDir:        viper.GetString("index_dir"),
		DataDir:         viper.GetString("data_dir"),
		TitleWeight:     viper.GetFloat64("title_weight"),
		DefaultOperator: viper.GetString("default_operator"),
	}.WithDefaults()
}

// openLibrary opens the configured index.
func openLibrary() (*library.Library, error) {
	return library.Open(libraryConfig())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
