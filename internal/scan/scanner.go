// Package scan walks the repository filesystem and produces the canonical
// file list that snapshots and proximity queries are built from.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"prox/internal/config"
	"prox/internal/errors"
	"prox/internal/logging"
	"prox/internal/paths"
)

// Scanner produces canonical repo-relative file lists.
type Scanner struct {
	config *config.Config
	logger *logging.Logger
}

// NewScanner creates a new filesystem scanner
func NewScanner(cfg *config.Config, logger *logging.Logger) *Scanner {
	return &Scanner{
		config: cfg,
		logger: logger,
	}
}

// ScanResult holds the outcome of a filesystem walk.
type ScanResult struct {
	Files        []string `json:"files"`
	SkippedLarge int      `json:"skippedLarge"`
	SkippedDirs  int      `json:"skippedDirs"`
}

// Scan walks the repository and returns sorted canonical file paths.
// Ignore rules come from config plus the optional WORKSPACE.toml; files
// above the configured size cap are skipped. Exceeding the file-count cap
// aborts the scan with ScanLimitExceeded.
func (s *Scanner) Scan(repoRoot string) (*ScanResult, error) {
	ws, err := LoadWorkspace(repoRoot)
	if err != nil {
		return nil, err
	}

	ignore := make(map[string]bool)
	for _, name := range s.config.Scan.Ignore {
		ignore[name] = true
	}
	if ws != nil {
		for _, name := range ws.Ignore {
			ignore[name] = true
		}
	}

	roots := []string{repoRoot}
	if ws != nil && len(ws.Roots) > 0 {
		roots = roots[:0]
		for _, r := range ws.Roots {
			full := paths.Join(repoRoot, r.Path)
			if !paths.IsWithinRepo(full, repoRoot) {
				return nil, errors.NewProxError(
					errors.WorkspaceInvalid,
					fmt.Sprintf("Workspace root %q escapes the repository", r.Path),
					nil, nil, nil,
				)
			}
			roots = append(roots, full)
		}
	}

	s.logger.Info("Scanning repository", map[string]interface{}{
		"repoRoot": repoRoot,
		"roots":    len(roots),
	})

	result := &ScanResult{}
	for _, root := range roots {
		if err := s.walkRoot(root, repoRoot, ignore, result); err != nil {
			return nil, err
		}
	}

	sort.Strings(result.Files)

	s.logger.Info("Scan completed", map[string]interface{}{
		"files":        len(result.Files),
		"skippedLarge": result.SkippedLarge,
		"skippedDirs":  result.SkippedDirs,
	})

	return result, nil
}

func (s *Scanner) walkRoot(root, repoRoot string, ignore map[string]bool, result *ScanResult) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			s.logger.Warn("Skipping unreadable entry", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && ignore[d.Name()] {
				result.SkippedDirs++
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if s.config.Scan.MaxFileSizeBytes > 0 && info.Size() > s.config.Scan.MaxFileSizeBytes {
			result.SkippedLarge++
			return nil
		}

		canonical, err := paths.Canonicalize(path, repoRoot)
		if err != nil {
			return nil
		}

		result.Files = append(result.Files, canonical)
		if s.config.Scan.MaxFiles > 0 && len(result.Files) > s.config.Scan.MaxFiles {
			return errors.NewProxError(
				errors.ScanLimitExceeded,
				fmt.Sprintf("Scan exceeded configured limit of %d files", s.config.Scan.MaxFiles),
				nil, nil, nil,
			)
		}

		return nil
	})
}
