package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-scanner",
	Short: "Repository tree scanner with versioned scan storage",
	Long: `Repo Scanner walks a repository tree and produces structured per-file
records: classification, lightweight code metadata, line statistics, and
structural patterns such as entry points and build manifests.

Scan results can be persisted as versioned snapshots and retrieved,
listed, or deleted later.`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
