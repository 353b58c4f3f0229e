package main

import (
	"github.com/spf13/cobra"

	"prox/internal/query"
)

var (
	neighborsHops   int
	neighborsFormat string
)

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <file>",
	Short: "List files near a file in the directory tree",
	Long: `List files reachable from the given file's directory within a number
of hops, where one hop moves to a directory's parent or to any child.
The originating file is excluded; results are deduplicated by base name.

Examples:
  prox neighbors util/context/a.go
  prox neighbors util/context/a.go --hops=2 --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runNeighbors,
}

func init() {
	neighborsCmd.Flags().IntVar(&neighborsHops, "hops", -1, "Maximum traversal distance (default: config neighbors.maxHops)")
	neighborsCmd.Flags().StringVar(&neighborsFormat, "format", "human", "Output format (json, yaml, human)")
	rootCmd.AddCommand(neighborsCmd)
}

func runNeighbors(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	resp, err := sess.engine.Neighbors(query.NeighborsOptions{
		Path:    args[0],
		MaxHops: neighborsHops,
	})
	if err != nil {
		exitWithError("querying neighbors", err)
	}

	printResponse(resp, neighborsFormat)
}
