package main

import (
	"github.com/spf13/cobra"

	"prox/internal/version"
)

var (
	// repoFlag is the CLI --repo flag value; empty means the working directory
	repoFlag string
)

var rootCmd = &cobra.Command{
	Use:   "prox",
	Short: "prox - file proximity context engine",
	Long: `prox indexes a repository's directory tree and ranks nearby files by
tree distance, producing candidate context files for code completion and
retrieval systems. Proximity is structural: files in sibling or cousin
directories rank ahead of distant ones, with no content analysis.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("prox version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"Repository root (default: current directory)")
}
