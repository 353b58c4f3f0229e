package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"prox/internal/export"
	"prox/internal/paths"
	"prox/internal/query"
)

var (
	exportOut   string
	exportOpen  string
	exportHops  int
	exportLimit int
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a context-candidate bundle for a file",
	Long: `Assemble context candidates for the given file and write them as a
bundle that downstream completion systems can consume offline. An optional
.prox/export.toml profile controls include/exclude globs, the candidate
cap, and the bundle encoding.

Examples:
  prox export util/context/a.go
  prox export util/context/a.go --out=bundles/a.json --hops=2`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output path (default: .prox/bundles/<file>.json)")
	exportCmd.Flags().StringVar(&exportOpen, "open", "", "Currently-open files (comma-separated)")
	exportCmd.Flags().IntVar(&exportHops, "hops", -1, "Maximum traversal distance (default: config neighbors.maxHops)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Candidate budget (default: config context.maxCandidates)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	target := args[0]

	profile, err := export.LoadProfile(sess.repoRoot)
	if err != nil {
		exitWithError("loading export profile", err)
	}

	outPath := exportOut
	if outPath == "" {
		name := strings.ReplaceAll(paths.Normalize(target), "/", "_") + "." + profile.Format
		outPath = filepath.Join(sess.repoRoot, paths.ProxDir, "bundles", name)
	}

	var openFiles []string
	if exportOpen != "" {
		openFiles = strings.Split(exportOpen, ",")
	}

	exporter := export.NewExporter(sess.repoRoot, sess.engine, sess.logger)
	bundle, err := exporter.Export(query.ContextOptions{
		TargetPath: target,
		OpenFiles:  openFiles,
		MaxHops:    exportHops,
		Limit:      exportLimit,
	}, profile, outPath)
	if err != nil {
		exitWithError("exporting bundle", err)
	}

	fmt.Printf("Exported %d candidate(s) for %s to %s\n", len(bundle.Candidates), bundle.Target, outPath)
}
