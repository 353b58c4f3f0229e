// Package export writes context-candidate bundles that downstream
// completion systems can consume without talking to the engine.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"prox/internal/logging"
	"prox/internal/output"
	"prox/internal/query"
	"prox/internal/version"
)

// Exporter writes candidate bundles for a target file.
type Exporter struct {
	repoRoot string
	engine   *query.Engine
	logger   *logging.Logger
}

// NewExporter creates a new exporter around the query engine.
func NewExporter(repoRoot string, engine *query.Engine, logger *logging.Logger) *Exporter {
	return &Exporter{
		repoRoot: repoRoot,
		engine:   engine,
		logger:   logger,
	}
}

// Bundle is the exported document.
type Bundle struct {
	GeneratedBy string                 `json:"generatedBy" yaml:"generatedBy"`
	GeneratedAt time.Time              `json:"generatedAt" yaml:"generatedAt"`
	Target      string                 `json:"target" yaml:"target"`
	SnapshotID  string                 `json:"snapshotId" yaml:"snapshotId"`
	Fingerprint string                 `json:"fingerprint" yaml:"fingerprint"`
	Candidates  []query.Candidate      `json:"candidates" yaml:"candidates"`
	Profile     map[string]interface{} `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// Export assembles candidates for the target and writes the bundle to
// outPath. The profile filters and caps the candidate list.
func (e *Exporter) Export(opts query.ContextOptions, profile *Profile, outPath string) (*Bundle, error) {
	if profile == nil {
		profile = DefaultProfile()
	}

	resp, err := e.engine.Context(opts)
	if err != nil {
		return nil, err
	}

	candidates := make([]query.Candidate, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		if profile.matches(c.Path) {
			candidates = append(candidates, c)
		}
	}
	if profile.MaxCandidates > 0 && len(candidates) > profile.MaxCandidates {
		candidates = candidates[:profile.MaxCandidates]
	}

	bundle := &Bundle{
		GeneratedBy: "prox " + version.Version,
		GeneratedAt: time.Now().UTC(),
		Target:      resp.Target,
		SnapshotID:  resp.SnapshotID,
		Fingerprint: resp.Fingerprint,
		Candidates:  candidates,
	}
	if len(profile.Include) > 0 || len(profile.Exclude) > 0 {
		bundle.Profile = map[string]interface{}{
			"include": profile.Include,
			"exclude": profile.Exclude,
		}
	}

	format := output.FormatJSON
	if profile.Format == "yaml" {
		format = output.FormatYAML
	}
	rendered, err := output.Render(bundle, format)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(rendered), 0644); err != nil {
		return nil, fmt.Errorf("failed to write bundle: %w", err)
	}

	e.logger.Info("Context bundle exported", map[string]interface{}{
		"target":     resp.Target,
		"candidates": len(candidates),
		"path":       outPath,
	})

	return bundle, nil
}
