package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"prox/internal/paths"
)

// ProfileFile is the default export profile location under .prox/
const ProfileFile = "export.toml"

// Profile controls what an export includes. The file is optional.
type Profile struct {
	// MaxCandidates caps the exported candidate list; 0 keeps the
	// engine's budget
	MaxCandidates int `toml:"max_candidates"`

	// Include keeps only candidates whose path matches one of these
	// globs; empty keeps everything
	Include []string `toml:"include"`

	// Exclude drops candidates whose path matches one of these globs
	Exclude []string `toml:"exclude"`

	// Format is the bundle encoding: json or yaml
	Format string `toml:"format"`
}

// DefaultProfile returns the profile used when no file is present.
func DefaultProfile() *Profile {
	return &Profile{Format: "json"}
}

// LoadProfile reads .prox/export.toml. A missing file yields the default
// profile.
func LoadProfile(repoRoot string) (*Profile, error) {
	path := filepath.Join(repoRoot, paths.ProxDir, ProfileFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultProfile(), nil
	}

	profile := DefaultProfile()
	if _, err := toml.DecodeFile(path, profile); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProfileFile, err)
	}

	if profile.Format != "json" && profile.Format != "yaml" {
		return nil, fmt.Errorf("unsupported export format %q in %s", profile.Format, ProfileFile)
	}
	return profile, nil
}

// matches reports whether the candidate path passes the profile's
// include/exclude globs. Globs match against the full canonical path and
// against the base name.
func (p *Profile) matches(path string) bool {
	base := paths.Base(path)

	for _, pattern := range p.Exclude {
		if globMatch(pattern, path) || globMatch(pattern, base) {
			return false
		}
	}

	if len(p.Include) == 0 {
		return true
	}
	for _, pattern := range p.Include {
		if globMatch(pattern, path) || globMatch(pattern, base) {
			return true
		}
	}
	return false
}

func globMatch(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
