package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	snapshotsKeep       int
	snapshotsShowFormat string
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage recorded snapshots",
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old snapshots, keeping the newest ones",
	Args:  cobra.NoArgs,
	Run:   runSnapshotsPrune,
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotsShow,
}

func init() {
	snapshotsPruneCmd.Flags().IntVar(&snapshotsKeep, "keep", 3, "Number of snapshots to keep")
	snapshotsShowCmd.Flags().StringVar(&snapshotsShowFormat, "format", "human", "Output format (json, yaml, human)")
	snapshotsCmd.AddCommand(snapshotsPruneCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshotsShow(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	snap, err := sess.engine.SnapshotByID(args[0])
	if err != nil {
		exitWithError("loading snapshot", err)
	}

	printResponse(snap, snapshotsShowFormat)
}

func runSnapshotsPrune(cmd *cobra.Command, args []string) {
	sess := mustOpenSession()
	defer sess.close()

	removed, err := sess.engine.PruneSnapshots(snapshotsKeep)
	if err != nil {
		exitWithError("pruning snapshots", err)
	}

	fmt.Printf("Removed %d snapshot(s), kept the newest %d\n", removed, snapshotsKeep)
}
