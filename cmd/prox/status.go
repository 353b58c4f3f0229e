package main

import (
	"github.com/spf13/cobra"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorded snapshot state",
	Args:  cobra.NoArgs,
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (json, yaml, human)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	resp, err := sess.engine.Status()
	if err != nil {
		exitWithError("reading status", err)
	}

	printResponse(resp, statusFormat)
}
