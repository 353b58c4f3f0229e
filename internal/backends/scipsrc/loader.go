// Package scipsrc sources a repository file list from an existing SCIP
// index instead of a filesystem walk, reusing the artifact a code
// intelligence indexer already produced.
package scipsrc

import (
	"fmt"
	"os"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"prox/internal/errors"
	"prox/internal/paths"
)

// Source is a loaded SCIP index reduced to what proximity queries need.
type Source struct {
	// IndexPath is where the index was loaded from
	IndexPath string

	// ToolName is the indexer that produced the index, if recorded
	ToolName string

	// files are canonical repo-relative document paths, deduplicated,
	// in document order
	files []string
}

// Load reads and parses a SCIP index from the given path.
func Load(indexPath string) (*Source, error) {
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return nil, errors.NewProxError(
			errors.ScipIndexMissing,
			fmt.Sprintf("SCIP index not found at %s", indexPath),
			err,
			errors.GetSuggestedFixes(errors.ScipIndexMissing),
			nil,
		)
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, errors.NewProxError(
			errors.InternalError,
			fmt.Sprintf("Failed to read SCIP index from %s", indexPath),
			err, nil, nil,
		)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, errors.NewProxError(
			errors.ScipIndexInvalid,
			fmt.Sprintf("Failed to parse SCIP index from %s", indexPath),
			err,
			[]errors.FixAction{
				{
					Type:        errors.RunCommand,
					Command:     "scip print --index=" + indexPath,
					Safe:        true,
					Description: "Verify SCIP index is valid",
				},
			},
			nil,
		)
	}

	src := &Source{IndexPath: indexPath}
	if index.Metadata != nil && index.Metadata.ToolInfo != nil {
		src.ToolName = index.Metadata.ToolInfo.Name
	}

	seen := make(map[string]bool)
	for _, doc := range index.Documents {
		p := paths.Normalize(doc.RelativePath)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		src.files = append(src.files, p)
	}

	return src, nil
}

// FilePaths returns the canonical document paths of the index.
func (s *Source) FilePaths() []string {
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out
}

// NumFiles returns the number of distinct documents in the index.
func (s *Source) NumFiles() int {
	return len(s.files)
}
