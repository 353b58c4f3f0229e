package main

import (
	"github.com/spf13/cobra"
)

var (
	scanScipIndex string
	scanFormat    string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Record a file-tree snapshot",
	Long: `Scan the repository and record a file-tree snapshot that proximity
queries run against. Ignore rules come from config plus an optional
WORKSPACE.toml at the repo root.

With --scip, the file list is taken from an existing SCIP index instead of
walking the filesystem.

Examples:
  prox scan
  prox scan --scip .scip/index.scip`,
	Args: cobra.NoArgs,
	Run:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanScipIndex, "scip", "", "Build the snapshot from a SCIP index file")
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format (json, yaml, human)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	var err error
	var summary interface{}
	if scanScipIndex != "" {
		summary, err = sess.engine.RecordScip(scanScipIndex)
	} else {
		summary, err = sess.engine.RecordScan()
	}
	if err != nil {
		exitWithError("scanning repository", err)
	}

	printResponse(summary, scanFormat)
}
