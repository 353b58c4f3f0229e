package main

import (
	"fmt"
	"os"
	"strings"

	"prox/internal/output"
	"prox/internal/query"
	"prox/internal/snapshot"
)

// printResponse renders a response in the requested format and writes it to
// stdout, exiting on formatting errors.
func printResponse(resp interface{}, formatFlag string) {
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var rendered string
	if format == output.FormatHuman {
		rendered = renderHuman(resp)
	}
	if rendered == "" {
		rendered, err = output.Render(resp, format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println(rendered)
}

func renderHuman(resp interface{}) string {
	switch v := resp.(type) {
	case *query.NeighborsResponse:
		return renderNeighborsHuman(v)
	case *query.ContextResponse:
		return renderContextHuman(v)
	case *query.DistanceResponse:
		return fmt.Sprintf("distance(%s, %s) = %d", v.PathA, v.PathB, v.Distance)
	case *query.ScanSummary:
		return renderScanHuman(v)
	case *query.StatusResponse:
		return renderStatusHuman(v)
	case *snapshot.Snapshot:
		return renderSnapshotHuman(v)
	default:
		return ""
	}
}

func renderNeighborsHuman(v *query.NeighborsResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Neighbors of %s (max %d hops):\n", v.Origin, v.MaxHops)
	if len(v.Neighbors) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, n := range v.Neighbors {
		fmt.Fprintf(&b, "  [%d] %s\n", n.Hops, n.Path)
	}
	if len(v.Dropped) > 0 {
		fmt.Fprintf(&b, "Warning: %d same-named file(s) collapsed by base-name identity:\n", len(v.Dropped))
		for _, d := range v.Dropped {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
	}
	if v.Cached {
		b.WriteString("(cached)\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderContextHuman(v *query.ContextResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context candidates for %s:\n", v.Target)
	if len(v.Candidates) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, c := range v.Candidates {
		fmt.Fprintf(&b, "  %.3f %s (%s)\n", c.Score, c.Path, strings.Join(c.Sources, "+"))
	}
	if len(v.Dropped) > 0 {
		fmt.Fprintf(&b, "Warning: %d same-named file(s) collapsed by base-name identity\n", len(v.Dropped))
	}
	if v.Cached {
		b.WriteString("(cached)\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderScanHuman(v *query.ScanSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot %s recorded (%s)\n", v.SnapshotID, v.Source)
	fmt.Fprintf(&b, "  files: %d, dirs: %d\n", v.FileCount, v.DirCount)
	if v.SkippedLarge > 0 || v.SkippedDirs > 0 {
		fmt.Fprintf(&b, "  skipped: %d large file(s), %d ignored dir(s)\n", v.SkippedLarge, v.SkippedDirs)
	}
	fmt.Fprintf(&b, "  invalidated %d stale cache entries in %dms", v.Invalidated, v.DurationMs)
	return b.String()
}

func renderStatusHuman(v *query.StatusResponse) string {
	if v.Snapshot == nil {
		return "No snapshot recorded yet. Run: prox scan"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", v.RepoRoot)
	fmt.Fprintf(&b, "Latest snapshot: %s (%s, %d files, %s)\n",
		v.Snapshot.ID, v.Snapshot.Source, v.Snapshot.FileCount,
		v.Snapshot.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(v.Snapshots) > 1 {
		fmt.Fprintf(&b, "History: %d snapshot(s)\n", len(v.Snapshots))
	}
	if v.Stale {
		b.WriteString("Warning: the working tree has changed since this snapshot. Run: prox scan\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSnapshotHuman(v *snapshot.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot %s (%s, %d files)\n", v.ID, v.Source, len(v.Files))
	fmt.Fprintf(&b, "  fingerprint: %s\n", v.Fingerprint)
	fmt.Fprintf(&b, "  created: %s", v.CreatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
