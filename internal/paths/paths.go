// Package paths provides canonical path handling for prox.
//
// All file identifiers stored or queried by prox are repo-relative paths
// with forward slashes, regardless of platform.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ProxDir is the per-repo state directory name
const ProxDir = ".prox"

// Canonicalize converts an absolute path to a repo-relative canonical path:
// symlinks resolved, relative to repo root, forward slashes.
func Canonicalize(absolutePath string, repoRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	repoRootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			repoRootResolved = repoRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(repoRootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// IsWithinRepo checks if a path is within the repository root
func IsWithinRepo(path string, repoRoot string) bool {
	canonical, err := Canonicalize(path, repoRoot)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(canonical, "..")
}

// Normalize converts backslashes to forward slashes
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// Join joins a repo root with a canonical path using OS separators
func Join(repoRoot string, canonicalPath string) string {
	normalized := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalized, "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}

// Segments splits a canonical path into its path segments.
// The empty path (repo root) has no segments.
func Segments(canonicalPath string) []string {
	trimmed := strings.Trim(Normalize(canonicalPath), "/")
	if trimmed == "" || trimmed == "." {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// DirSegments returns the segments of the directory containing the given
// file path (all segments except the last).
func DirSegments(canonicalPath string) []string {
	segs := Segments(canonicalPath)
	if len(segs) <= 1 {
		return nil
	}
	return segs[:len(segs)-1]
}

// Base returns the final segment of a canonical path
func Base(canonicalPath string) string {
	segs := Segments(canonicalPath)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Parent returns the canonical path of the containing directory,
// "" for entries directly under the repo root.
func Parent(canonicalPath string) string {
	segs := Segments(canonicalPath)
	if len(segs) <= 1 {
		return ""
	}
	return strings.Join(segs[:len(segs)-1], "/")
}
