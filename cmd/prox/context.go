package main

import (
	"strings"

	"github.com/spf13/cobra"

	"prox/internal/query"
)

var (
	contextOpen   string
	contextHops   int
	contextLimit  int
	contextFormat string
)

var contextCmd = &cobra.Command{
	Use:   "context <file>",
	Short: "Assemble ranked context candidates for a file",
	Long: `Assemble a ranked list of candidate context files for a completion
request in the given file. Two proximity signals are fused: the tree-walk
neighbor search and the path distance of currently-open files.

Examples:
  prox context util/context/a.go
  prox context util/context/a.go --open=util/b.go,util/service/c.go
  prox context util/context/a.go --hops=2 --limit=10 --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runContext,
}

func init() {
	contextCmd.Flags().StringVar(&contextOpen, "open", "", "Currently-open files (comma-separated)")
	contextCmd.Flags().IntVar(&contextHops, "hops", -1, "Maximum traversal distance (default: config neighbors.maxHops)")
	contextCmd.Flags().IntVar(&contextLimit, "limit", 0, "Candidate budget (default: config context.maxCandidates)")
	contextCmd.Flags().StringVar(&contextFormat, "format", "human", "Output format (json, yaml, human)")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	var openFiles []string
	if contextOpen != "" {
		openFiles = strings.Split(contextOpen, ",")
	}

	resp, err := sess.engine.Context(query.ContextOptions{
		TargetPath: args[0],
		OpenFiles:  openFiles,
		MaxHops:    contextHops,
		Limit:      contextLimit,
	})
	if err != nil {
		exitWithError("assembling context", err)
	}

	printResponse(resp, contextFormat)
}
