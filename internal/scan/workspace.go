package scan

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"prox/internal/errors"
)

// WorkspaceFile is the default filename for workspace declarations
const WorkspaceFile = "WORKSPACE.toml"

// Workspace declares which parts of the repository participate in
// proximity indexing. The file is optional; without it the whole repo
// is scanned.
type Workspace struct {
	// Version is the declaration schema version
	Version int `toml:"version"`

	// Roots restricts scanning to the listed directories
	Roots []Root `toml:"roots"`

	// Ignore lists additional directory names to skip
	Ignore []string `toml:"ignore"`
}

// Root is a declared source root.
type Root struct {
	// Path is the repo-relative path to the root directory
	Path string `toml:"path"`

	// Name is an optional human-readable label
	Name string `toml:"name"`
}

// LoadWorkspace reads WORKSPACE.toml from the repo root. A missing file is
// not an error; (nil, nil) is returned.
func LoadWorkspace(repoRoot string) (*Workspace, error) {
	path := filepath.Join(repoRoot, WorkspaceFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewProxError(
			errors.WorkspaceInvalid,
			fmt.Sprintf("Failed to read %s", WorkspaceFile),
			err, nil, nil,
		)
	}

	var ws Workspace
	if err := toml.Unmarshal(data, &ws); err != nil {
		return nil, errors.NewProxError(
			errors.WorkspaceInvalid,
			fmt.Sprintf("Failed to parse %s", WorkspaceFile),
			err, nil, nil,
		)
	}

	if err := ws.validate(); err != nil {
		return nil, err
	}

	return &ws, nil
}

func (w *Workspace) validate() error {
	if w.Version != 1 {
		return errors.NewProxError(
			errors.WorkspaceInvalid,
			fmt.Sprintf("Unsupported %s version %d", WorkspaceFile, w.Version),
			nil, nil, nil,
		)
	}
	for _, r := range w.Roots {
		if r.Path == "" {
			return errors.NewProxError(
				errors.WorkspaceInvalid,
				"Workspace root with empty path",
				nil, nil, nil,
			)
		}
		if filepath.IsAbs(r.Path) {
			return errors.NewProxError(
				errors.WorkspaceInvalid,
				fmt.Sprintf("Workspace root %q must be repo-relative", r.Path),
				nil, nil, nil,
			)
		}
	}
	return nil
}
