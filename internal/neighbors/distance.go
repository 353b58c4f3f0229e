package neighbors

import (
	"prox/internal/paths"
)

// PathDistance computes the tree distance between two segment sequences:
// the number of segments in each sequence beyond their longest common
// prefix. Ties between equal distances are left to the caller's stable sort.
func PathDistance(a, b []string) int {
	lcp := 0
	for lcp < len(a) && lcp < len(b) && a[lcp] == b[lcp] {
		lcp++
	}
	return (len(a) - lcp) + (len(b) - lcp)
}

// FileDistance computes the tree distance between the directories containing
// two canonical file paths. Files in the same directory have distance 0.
func FileDistance(a, b string) int {
	return PathDistance(paths.DirSegments(a), paths.DirSegments(b))
}
