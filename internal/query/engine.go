// Package query provides the central engine that coordinates prox
// operations: snapshot management, neighbor search, path distance, and
// context-candidate assembly, with caching layered on top.
package query

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"prox/internal/backends/scipsrc"
	"prox/internal/config"
	"prox/internal/errors"
	"prox/internal/logging"
	"prox/internal/neighbors"
	"prox/internal/paths"
	"prox/internal/scan"
	"prox/internal/snapshot"
	"prox/internal/storage"
	"prox/internal/tree"
)

// Engine is the central query coordinator for prox.
type Engine struct {
	repoRoot string
	config   *config.Config
	logger   *logging.Logger
	db       *storage.DB

	snapshots *storage.SnapshotStore
	cache     *storage.QueryCache

	// Cached snapshot + tree state
	stateMu sync.RWMutex
	snap    *snapshot.Snapshot
	tr      *tree.Tree
}

// NewEngine creates a new query engine.
func NewEngine(repoRoot string, db *storage.DB, logger *logging.Logger, cfg *config.Config) (*Engine, error) {
	snapshots, err := storage.NewSnapshotStore(db)
	if err != nil {
		return nil, err
	}
	cache, err := storage.NewQueryCache(db, cfg.Cache.LruSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		repoRoot:  repoRoot,
		config:    cfg,
		logger:    logger,
		db:        db,
		snapshots: snapshots,
		cache:     cache,
	}, nil
}

// ScanSummary describes a recorded snapshot.
type ScanSummary struct {
	SnapshotID   string `json:"snapshotId"`
	Fingerprint  string `json:"fingerprint"`
	Source       string `json:"source"`
	FileCount    int    `json:"fileCount"`
	DirCount     int    `json:"dirCount"`
	SkippedLarge int    `json:"skippedLarge,omitempty"`
	SkippedDirs  int    `json:"skippedDirs,omitempty"`
	Invalidated  int    `json:"invalidated"`
	DurationMs   int64  `json:"durationMs"`
}

// RecordScan walks the filesystem, records a snapshot, and invalidates
// cache entries from older snapshots.
func (e *Engine) RecordScan() (*ScanSummary, error) {
	start := time.Now()

	scanner := scan.NewScanner(e.config, e.logger)
	result, err := scanner.Scan(e.repoRoot)
	if err != nil {
		return nil, err
	}

	summary, err := e.record(result.Files, snapshot.SourceScan)
	if err != nil {
		return nil, err
	}
	summary.SkippedLarge = result.SkippedLarge
	summary.SkippedDirs = result.SkippedDirs
	summary.DurationMs = time.Since(start).Milliseconds()
	return summary, nil
}

// RecordScip records a snapshot from a SCIP index's document list.
func (e *Engine) RecordScip(indexPath string) (*ScanSummary, error) {
	start := time.Now()

	src, err := scipsrc.Load(indexPath)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Loaded SCIP index", map[string]interface{}{
		"path":  indexPath,
		"tool":  src.ToolName,
		"files": src.NumFiles(),
	})

	summary, err := e.record(src.FilePaths(), snapshot.SourceScip)
	if err != nil {
		return nil, err
	}
	summary.DurationMs = time.Since(start).Milliseconds()
	return summary, nil
}

func (e *Engine) record(files []string, source snapshot.Source) (*ScanSummary, error) {
	snap := snapshot.New(files, source)
	if err := e.snapshots.Save(snap); err != nil {
		return nil, err
	}

	invalidated, err := e.cache.Invalidate(snap.Fingerprint)
	if err != nil {
		return nil, err
	}

	tr := tree.Build(snap.Files)

	e.stateMu.Lock()
	e.snap = snap
	e.tr = tr
	e.stateMu.Unlock()

	e.logger.Info("Snapshot recorded", map[string]interface{}{
		"snapshotId":  snap.ID,
		"fingerprint": snap.Fingerprint[:12],
		"files":       len(snap.Files),
	})

	return &ScanSummary{
		SnapshotID:  snap.ID,
		Fingerprint: snap.Fingerprint,
		Source:      string(source),
		FileCount:   tr.NumFiles(),
		DirCount:    tr.NumDirs(),
		Invalidated: invalidated,
	}, nil
}

// state returns the current snapshot and tree, loading the latest recorded
// snapshot on first use.
func (e *Engine) state() (*snapshot.Snapshot, *tree.Tree, error) {
	e.stateMu.RLock()
	if e.snap != nil {
		snap, tr := e.snap, e.tr
		e.stateMu.RUnlock()
		return snap, tr, nil
	}
	e.stateMu.RUnlock()

	snap, err := e.snapshots.Latest()
	if err != nil {
		return nil, nil, err
	}
	tr := tree.Build(snap.Files)

	e.stateMu.Lock()
	e.snap = snap
	e.tr = tr
	e.stateMu.Unlock()

	return snap, tr, nil
}

// NeighborsOptions configures a neighbor query.
type NeighborsOptions struct {
	// Path is the canonical path of the file the query originates from
	Path string
	// MaxHops overrides the configured default when >= 0
	MaxHops int
}

// NeighborsResponse is the result of a neighbor query.
type NeighborsResponse struct {
	Origin      string               `json:"origin"`
	MaxHops     int                  `json:"maxHops"`
	SnapshotID  string               `json:"snapshotId"`
	Fingerprint string               `json:"fingerprint"`
	Neighbors   []neighbors.Neighbor `json:"neighbors"`
	Dropped     []string             `json:"dropped,omitempty"`
	Cached      bool                 `json:"cached"`
}

// Neighbors runs a tree-distance neighbor search for the given file.
func (e *Engine) Neighbors(opts NeighborsOptions) (*NeighborsResponse, error) {
	snap, tr, err := e.state()
	if err != nil {
		return nil, err
	}

	path := paths.Normalize(opts.Path)
	maxHops := opts.MaxHops
	if maxHops < 0 {
		maxHops = e.config.Neighbors.MaxHops
	}

	if !snap.Contains(path) {
		return nil, errors.NewProxError(
			errors.FileNotIndexed,
			fmt.Sprintf("File %s is not part of snapshot %s", path, snap.ID),
			nil,
			errors.GetSuggestedFixes(errors.FileNotIndexed),
			nil,
		).WithDetails(map[string]interface{}{"path": path, "snapshotId": snap.ID})
	}
	origin, _ := tr.Containing(path)

	key := fmt.Sprintf("neighbors:%s:%d:%t", path, maxHops, e.config.Neighbors.FullPathIdentity)
	if cached, ok := e.cacheGet(key, snap.Fingerprint); ok {
		var resp NeighborsResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			resp.Cached = true
			return &resp, nil
		}
	}

	result := neighbors.Collect(origin, neighbors.Options{
		MaxHops:          maxHops,
		Exclude:          path,
		FullPathIdentity: e.config.Neighbors.FullPathIdentity,
	})

	resp := &NeighborsResponse{
		Origin:      path,
		MaxHops:     maxHops,
		SnapshotID:  snap.ID,
		Fingerprint: snap.Fingerprint,
		Neighbors:   result.Neighbors,
		Dropped:     result.Dropped,
	}
	e.cacheSet(key, snap.Fingerprint, resp)
	return resp, nil
}

// DistanceResponse is the result of a path-distance query.
type DistanceResponse struct {
	PathA    string `json:"pathA"`
	PathB    string `json:"pathB"`
	Distance int    `json:"distance"`
}

// Distance computes the tree distance between the directories of two files.
// It is pure and does not require a snapshot.
func (e *Engine) Distance(a, b string) *DistanceResponse {
	a = paths.Normalize(a)
	b = paths.Normalize(b)
	return &DistanceResponse{
		PathA:    a,
		PathB:    b,
		Distance: neighbors.FileDistance(a, b),
	}
}

// StatusResponse summarizes the engine's recorded state.
type StatusResponse struct {
	RepoRoot  string                 `json:"repoRoot"`
	Snapshot  *storage.SnapshotInfo  `json:"snapshot,omitempty"`
	Snapshots []storage.SnapshotInfo `json:"snapshots,omitempty"`
	// Stale is true when the working tree no longer matches the snapshot
	Stale bool `json:"stale"`
}

// Status reports the latest snapshot, recent history, and whether the
// working tree has drifted since the snapshot was recorded.
func (e *Engine) Status() (*StatusResponse, error) {
	infos, err := e.snapshots.List(10)
	if err != nil {
		return nil, err
	}

	resp := &StatusResponse{RepoRoot: e.repoRoot}
	if len(infos) > 0 {
		resp.Snapshot = &infos[0]
		resp.Snapshots = infos

		if err := e.CheckStale(); err != nil {
			pe, ok := err.(*errors.ProxError)
			if !ok || pe.Code != errors.SnapshotStale {
				return nil, err
			}
			resp.Stale = true
		}
	}
	return resp, nil
}

// CheckStale re-walks the filesystem and compares its fingerprint against
// the recorded snapshot, returning a SnapshotStale error on drift. Only
// scan-sourced snapshots can be compared; SCIP snapshots are skipped.
func (e *Engine) CheckStale() error {
	snap, _, err := e.state()
	if err != nil {
		return err
	}
	if snap.Source != snapshot.SourceScan {
		return nil
	}

	scanner := scan.NewScanner(e.config, e.logger)
	result, err := scanner.Scan(e.repoRoot)
	if err != nil {
		return err
	}

	if snapshot.Fingerprint(result.Files) != snap.Fingerprint {
		return errors.NewProxError(
			errors.SnapshotStale,
			fmt.Sprintf("Snapshot %s no longer matches the working tree", snap.ID),
			nil,
			errors.GetSuggestedFixes(errors.SnapshotStale),
			nil,
		)
	}
	return nil
}

// SnapshotByID loads a recorded snapshot, including its file list.
func (e *Engine) SnapshotByID(id string) (*snapshot.Snapshot, error) {
	return e.snapshots.ByID(id)
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (e *Engine) PruneSnapshots(keep int) (int, error) {
	return e.snapshots.Prune(keep)
}

func (e *Engine) cacheGet(key, fingerprint string) (string, bool) {
	value, found, err := e.cache.Get(key, fingerprint)
	if err != nil {
		e.logger.Warn("Cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return "", false
	}
	return value, found
}

func (e *Engine) cacheSet(key, fingerprint string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := e.cache.Set(key, fingerprint, string(data), e.config.Cache.QueryTtlSeconds); err != nil {
		e.logger.Warn("Cache store failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
