// Package neighbors implements directory-tree proximity search.
//
// The tree-distance metric approximates conceptual proximity of files
// without looking at their contents: files in sibling or cousin directories
// are considered more relevant completion context than distant ones. One hop
// is a move to a directory's parent or to any of its children.
package neighbors

import (
	"prox/internal/paths"
	"prox/internal/tree"
)

// Options configures a neighbor search.
type Options struct {
	// MaxHops is the maximum traversal distance; 0 restricts the search to
	// the origin directory.
	MaxHops int

	// Exclude is the canonical path of the file the query originates from.
	// It never appears in the result.
	Exclude string

	// FullPathIdentity dedupes and excludes by full path instead of base
	// name. The base-name default matches historical behavior where
	// same-named files in different directories collapse to one entry.
	FullPathIdentity bool
}

// Neighbor is a file reached by the search.
type Neighbor struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// Hops is the tree distance from the origin directory (0 = same dir)
	Hops int `json:"hops"`
}

// Result holds the collected neighbors in expansion order: ascending hop
// distance, directory traversal order within a hop.
type Result struct {
	Neighbors []Neighbor `json:"neighbors"`

	// Dropped lists paths that were collapsed away by base-name
	// deduplication. Always empty under FullPathIdentity.
	Dropped []string `json:"dropped,omitempty"`
}

// Collect performs a breadth-first expansion from the origin directory,
// alternating between collecting the files of the current frontier and
// expanding the frontier to parents and children, MaxHops+1 times.
//
// A visited set keeps each directory from being expanded twice; because a
// directory's first visit is at its minimal hop distance and files are
// deduplicated by identity, the output is the same as the unmemoized walk.
func Collect(origin *tree.Dir, opts Options) Result {
	if origin == nil || opts.MaxHops < 0 {
		return Result{}
	}

	excludeName := paths.Base(opts.Exclude)
	excludePath := paths.Normalize(opts.Exclude)

	firstPath := make(map[string]string) // identity key -> first collected path
	visited := map[*tree.Dir]bool{origin: true}

	var result Result
	frontier := []*tree.Dir{origin}

	for hop := 0; hop <= opts.MaxHops && len(frontier) > 0; hop++ {
		for _, d := range frontier {
			for _, f := range d.Files {
				if opts.FullPathIdentity {
					if f.Path == excludePath {
						continue
					}
				} else if f.Name == excludeName {
					continue
				}

				key := f.Name
				if opts.FullPathIdentity {
					key = f.Path
				}
				if prev, ok := firstPath[key]; ok {
					if prev != f.Path {
						result.Dropped = append(result.Dropped, f.Path)
					}
					continue
				}
				firstPath[key] = f.Path
				result.Neighbors = append(result.Neighbors, Neighbor{Name: f.Name, Path: f.Path, Hops: hop})
			}
		}

		if hop == opts.MaxHops {
			break
		}

		var next []*tree.Dir
		for _, d := range frontier {
			if d.Parent != nil && !visited[d.Parent] {
				visited[d.Parent] = true
				next = append(next, d.Parent)
			}
			for _, c := range d.Children {
				if !visited[c] {
					visited[c] = true
					next = append(next, c)
				}
			}
		}
		frontier = next
	}

	return result
}
