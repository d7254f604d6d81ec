package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of litindex",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Println(version)
			return
		}
		fmt.Printf("litindex %s (%s, %s/%s, index format %s)\n",
			version, runtime.Version(), runtime.GOOS, runtime.GOARCH, indexFormat)
	},
}

// indexFormat names the on-disk index layout; bump it when the schema changes
// in a way that needs a full re-ingest.
const indexFormat = "sqlite-fts5/2"

func init() {
	versionCmd.Flags().Bool("short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}
