package snapshot

import (
	"testing"
)

func TestNewSortsAndFingerprints(t *testing.T) {
	a := New([]string{"b.go", "a.go", "c/d.go"}, SourceScan)
	b := New([]string{"c/d.go", "a.go", "b.go"}, SourceScan)

	if a.Fingerprint != b.Fingerprint {
		t.Errorf("same file set must share a fingerprint: %s != %s", a.Fingerprint, b.Fingerprint)
	}
	if a.ID == b.ID {
		t.Error("snapshot IDs must be unique")
	}
	if a.Files[0] != "a.go" || a.Files[2] != "c/d.go" {
		t.Errorf("files not sorted: %v", a.Files)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := New([]string{"a.go", "b.go"}, SourceScan)

	changed := New([]string{"a.go", "b.go", "c.go"}, SourceScan)
	if base.Fingerprint == changed.Fingerprint {
		t.Error("adding a file must change the fingerprint")
	}

	// Concatenation ambiguity: {"ab"} vs {"a", "b"}
	x := New([]string{"ab"}, SourceScan)
	y := New([]string{"a", "b"}, SourceScan)
	if x.Fingerprint == y.Fingerprint {
		t.Error("fingerprint must separate path boundaries")
	}
}

func TestContains(t *testing.T) {
	s := New([]string{"util/b.go", "util/context/a.go"}, SourceScan)

	if !s.Contains("util/context/a.go") {
		t.Error("Contains must find an indexed file")
	}
	if s.Contains("util/context/missing.go") {
		t.Error("Contains must reject an unknown file")
	}
}

func TestNewDoesNotAliasInput(t *testing.T) {
	in := []string{"b.go", "a.go"}
	s := New(in, SourceScan)

	in[0] = "mutated"
	if s.Files[0] != "a.go" || s.Files[1] != "b.go" {
		t.Errorf("snapshot must copy its input, got %v", s.Files)
	}
}
