package main

import (
	"github.com/spf13/cobra"
)

var distanceFormat string

var distanceCmd = &cobra.Command{
	Use:   "distance <fileA> <fileB>",
	Short: "Compute the tree distance between two files",
	Long: `Compute the directory-tree distance between two files: the number of
path segments each file's directory has beyond their longest common prefix.

Examples:
  prox distance util/context/a.go util/service/c.go
  prox distance util/context/a.go util/b.go --format=json`,
	Args: cobra.ExactArgs(2),
	Run:  runDistance,
}

func init() {
	distanceCmd.Flags().StringVar(&distanceFormat, "format", "human", "Output format (json, yaml, human)")
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	printResponse(sess.engine.Distance(args[0], args[1]), distanceFormat)
}
