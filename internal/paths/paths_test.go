package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "util", "context")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := filepath.Join(sub, "a.go")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Canonicalize(file, root)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if got != "util/context/a.go" {
		t.Errorf("Canonicalize = %q, want util/context/a.go", got)
	}

	// Nonexistent paths still canonicalize
	got, err = Canonicalize(filepath.Join(root, "new.go"), root)
	if err != nil {
		t.Fatalf("Canonicalize (missing) failed: %v", err)
	}
	if got != "new.go" {
		t.Errorf("Canonicalize = %q, want new.go", got)
	}
}

func TestIsWithinRepo(t *testing.T) {
	root := t.TempDir()

	if !IsWithinRepo(filepath.Join(root, "a", "b.go"), root) {
		t.Error("path under root must be within repo")
	}
	if IsWithinRepo(filepath.Join(root, "..", "outside.go"), root) {
		t.Error("path above root must not be within repo")
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"util/context/a.go", []string{"util", "context", "a.go"}},
		{"a.go", []string{"a.go"}},
		{"", nil},
		{".", nil},
		{"/leading/slash", []string{"leading", "slash"}},
	}

	for _, tt := range tests {
		got := Segments(tt.path)
		if len(got) != len(tt.want) {
			t.Errorf("Segments(%q) = %v, want %v", tt.path, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Segments(%q)[%d] = %q, want %q", tt.path, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDirSegmentsBaseParent(t *testing.T) {
	if got := DirSegments("util/context/a.go"); len(got) != 2 || got[0] != "util" || got[1] != "context" {
		t.Errorf("DirSegments = %v, want [util context]", got)
	}
	if got := DirSegments("a.go"); got != nil {
		t.Errorf("DirSegments(a.go) = %v, want nil", got)
	}

	if got := Base("util/context/a.go"); got != "a.go" {
		t.Errorf("Base = %q, want a.go", got)
	}
	if got := Base(""); got != "" {
		t.Errorf("Base(empty) = %q, want empty", got)
	}

	if got := Parent("util/context/a.go"); got != "util/context" {
		t.Errorf("Parent = %q, want util/context", got)
	}
	if got := Parent("a.go"); got != "" {
		t.Errorf("Parent(a.go) = %q, want empty", got)
	}
}

func TestJoin(t *testing.T) {
	got := Join("/repo", "util/context/a.go")
	want := filepath.Join("/repo", "util", "context", "a.go")
	if got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}
}
