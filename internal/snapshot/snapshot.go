// Package snapshot models a recorded file-tree state of the repository.
//
// Proximity queries always run against a snapshot rather than the live
// filesystem so that results are reproducible and cacheable: the snapshot
// fingerprint is part of every cache key.
package snapshot

import (
	"encoding/hex"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Source identifies how a snapshot was produced.
type Source string

const (
	// SourceScan means the snapshot came from a filesystem walk
	SourceScan Source = "scan"
	// SourceScip means the snapshot came from a SCIP index's document list
	SourceScip Source = "scip"
)

// Snapshot is an immutable record of the repository's file list.
type Snapshot struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Source      Source    `json:"source"`
	Files       []string  `json:"files"`
	CreatedAt   time.Time `json:"createdAt"`
}

// New creates a snapshot from canonical file paths. The input slice is
// copied and sorted; the fingerprint is computed over the sorted list.
func New(files []string, source Source) *Snapshot {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	return &Snapshot{
		ID:          uuid.NewString(),
		Fingerprint: Fingerprint(sorted),
		Source:      source,
		Files:       sorted,
		CreatedAt:   time.Now().UTC(),
	}
}

// Fingerprint computes a stable content hash over a sorted file list.
// Two snapshots with the same file set always share a fingerprint, so cache
// entries survive re-scans that find nothing changed.
func Fingerprint(sortedFiles []string) string {
	h, _ := blake2b.New256(nil)
	for _, f := range sortedFiles {
		_, _ = h.Write([]byte(f))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Contains reports whether the snapshot includes the given canonical path.
func (s *Snapshot) Contains(path string) bool {
	i := sort.SearchStrings(s.Files, path)
	return i < len(s.Files) && s.Files[i] == path
}
