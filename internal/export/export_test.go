package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"prox/internal/config"
	"prox/internal/logging"
	"prox/internal/paths"
	"prox/internal/query"
	"prox/internal/storage"
)

func testSetup(t *testing.T) (*Exporter, string) {
	t.Helper()

	root := t.TempDir()
	for _, f := range []string{"pkg/a.go", "pkg/b.go", "pkg/b_test.go", "pkg/sub/c.go"} {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("package x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
	db, err := storage.Open(root, logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	engine, err := query.NewEngine(root, db, logger, config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if _, err := engine.RecordScan(); err != nil {
		t.Fatalf("RecordScan failed: %v", err)
	}

	return NewExporter(root, engine, logger), root
}

func TestExportWritesBundle(t *testing.T) {
	exporter, root := testSetup(t)

	outPath := filepath.Join(root, "out", "bundle.json")
	bundle, err := exporter.Export(query.ContextOptions{
		TargetPath: "pkg/a.go",
		MaxHops:    2,
	}, nil, outPath)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if bundle.Target != "pkg/a.go" {
		t.Errorf("target = %s, want pkg/a.go", bundle.Target)
	}
	if len(bundle.Candidates) == 0 {
		t.Fatal("bundle has no candidates")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	var decoded Bundle
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("bundle is not valid JSON: %v", err)
	}
	if decoded.SnapshotID != bundle.SnapshotID {
		t.Errorf("round-trip snapshot id = %s, want %s", decoded.SnapshotID, bundle.SnapshotID)
	}
}

func TestExportProfileFilters(t *testing.T) {
	exporter, root := testSetup(t)

	profile := &Profile{
		Exclude:       []string{"*_test.go"},
		MaxCandidates: 10,
		Format:        "json",
	}
	outPath := filepath.Join(root, "bundle.json")
	bundle, err := exporter.Export(query.ContextOptions{
		TargetPath: "pkg/a.go",
		MaxHops:    2,
	}, profile, outPath)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	for _, c := range bundle.Candidates {
		if c.Name == "b_test.go" {
			t.Error("excluded glob leaked into bundle")
		}
	}
}

func TestLoadProfile(t *testing.T) {
	root := t.TempDir()

	// Missing file yields defaults
	profile, err := LoadProfile(root)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if profile.Format != "json" || len(profile.Include) != 0 {
		t.Errorf("default profile = %+v", profile)
	}

	proxDir := filepath.Join(root, paths.ProxDir)
	if err := os.MkdirAll(proxDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `
max_candidates = 5
include = ["*.go"]
exclude = ["*_test.go"]
format = "yaml"
`
	if err := os.WriteFile(filepath.Join(proxDir, ProfileFile), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	profile, err = LoadProfile(root)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if profile.MaxCandidates != 5 || profile.Format != "yaml" {
		t.Errorf("profile = %+v", profile)
	}

	// Bad format rejected
	if err := os.WriteFile(filepath.Join(proxDir, ProfileFile), []byte(`format = "xml"`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadProfile(root); err == nil {
		t.Error("unsupported format must fail")
	}
}

func TestProfileMatches(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		path    string
		want    bool
	}{
		{"no rules", Profile{}, "pkg/a.go", true},
		{"include base name", Profile{Include: []string{"*.go"}}, "pkg/a.go", true},
		{"include miss", Profile{Include: []string{"*.py"}}, "pkg/a.go", false},
		{"exclude wins", Profile{Include: []string{"*.go"}, Exclude: []string{"*_test.go"}}, "pkg/a_test.go", false},
		{"exclude full path", Profile{Exclude: []string{"pkg/*"}}, "pkg/a.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.matches(tt.path); got != tt.want {
				t.Errorf("matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
