package query

import (
	"encoding/json"
	"fmt"
	"sort"

	"prox/internal/config"
	"prox/internal/errors"
	"prox/internal/neighbors"
	"prox/internal/paths"
)

// ContextOptions configures candidate assembly for a completion request.
type ContextOptions struct {
	// TargetPath is the file completion is happening in
	TargetPath string
	// OpenFiles are currently-open editor files, ranked by path distance
	OpenFiles []string
	// MaxHops overrides the configured neighbor distance when >= 0
	MaxHops int
	// Limit overrides the configured candidate budget when > 0
	Limit int
}

// Candidate is a context file proposed for a completion request.
type Candidate struct {
	Path string `json:"path"`
	Name string `json:"name"`
	// Score is the fused proximity score, higher is closer
	Score float64 `json:"score"`
	// Hops is the neighbor-search distance, -1 if not reached by the walk
	Hops int `json:"hops"`
	// Distance is the open-file path distance, -1 if the file is not open
	Distance int      `json:"distance"`
	Sources  []string `json:"sources"`
}

// ContextResponse is the assembled candidate set.
type ContextResponse struct {
	Target      string      `json:"target"`
	MaxHops     int         `json:"maxHops"`
	Limit       int         `json:"limit"`
	SnapshotID  string      `json:"snapshotId"`
	Fingerprint string      `json:"fingerprint"`
	Candidates  []Candidate `json:"candidates"`
	Dropped     []string    `json:"dropped,omitempty"`
	Cached      bool        `json:"cached"`
}

// Context assembles ranked candidate context files for the target, fusing
// two proximity signals: the tree-walk neighbor search and the path
// distance of currently-open files.
func (e *Engine) Context(opts ContextOptions) (*ContextResponse, error) {
	snap, tr, err := e.state()
	if err != nil {
		return nil, err
	}

	target := paths.Normalize(opts.TargetPath)
	maxHops := opts.MaxHops
	if maxHops < 0 {
		maxHops = e.config.Neighbors.MaxHops
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = e.config.Context.MaxCandidates
	}

	if !snap.Contains(target) {
		return nil, errors.NewProxError(
			errors.FileNotIndexed,
			fmt.Sprintf("File %s is not part of snapshot %s", target, snap.ID),
			nil,
			errors.GetSuggestedFixes(errors.FileNotIndexed),
			nil,
		).WithDetails(map[string]interface{}{"path": target, "snapshotId": snap.ID})
	}
	origin, _ := tr.Containing(target)

	weights := e.config.Context.Weights

	key := contextCacheKey(target, opts.OpenFiles, maxHops, limit,
		e.config.Neighbors.FullPathIdentity, weights)
	if cached, ok := e.cacheGet(key, snap.Fingerprint); ok {
		var resp ContextResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			resp.Cached = true
			return &resp, nil
		}
	}

	byPath := make(map[string]*Candidate)

	walk := neighbors.Collect(origin, neighbors.Options{
		MaxHops:          maxHops,
		Exclude:          target,
		FullPathIdentity: e.config.Neighbors.FullPathIdentity,
	})
	for _, n := range walk.Neighbors {
		byPath[n.Path] = &Candidate{
			Path:     n.Path,
			Name:     n.Name,
			Score:    weights.Neighbors / float64(1+n.Hops),
			Hops:     n.Hops,
			Distance: -1,
			Sources:  []string{"neighbors"},
		}
	}

	for _, open := range opts.OpenFiles {
		open = paths.Normalize(open)
		if open == target {
			continue
		}
		d := neighbors.FileDistance(target, open)
		score := weights.OpenFiles / float64(1+d)

		if c, ok := byPath[open]; ok {
			c.Score += score
			c.Distance = d
			c.Sources = append(c.Sources, "open")
			continue
		}
		byPath[open] = &Candidate{
			Path:     open,
			Name:     paths.Base(open),
			Score:    score,
			Hops:     -1,
			Distance: d,
			Sources:  []string{"open"},
		}
	}

	candidates := make([]Candidate, 0, len(byPath))
	for _, c := range byPath {
		candidates = append(candidates, *c)
	}

	// Score descending; equal scores fall back to path order so results
	// are deterministic
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Path < candidates[j].Path
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	resp := &ContextResponse{
		Target:      target,
		MaxHops:     maxHops,
		Limit:       limit,
		SnapshotID:  snap.ID,
		Fingerprint: snap.Fingerprint,
		Candidates:  candidates,
		Dropped:     walk.Dropped,
	}
	e.cacheSet(key, snap.Fingerprint, resp)
	return resp, nil
}

// The key carries every config knob that changes the result, so entries
// written under an older .prox/config.json never satisfy a query made
// under the new one.
func contextCacheKey(target string, openFiles []string, maxHops, limit int, fullPathIdentity bool, weights config.WeightsConfig) string {
	sorted := make([]string, len(openFiles))
	copy(sorted, openFiles)
	sort.Strings(sorted)

	key := fmt.Sprintf("context:%s:%d:%d:%t:%g:%g",
		target, maxHops, limit, fullPathIdentity, weights.Neighbors, weights.OpenFiles)
	for _, f := range sorted {
		key += ":" + paths.Normalize(f)
	}
	return key
}
