package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewProxError(SnapshotMissing, "no snapshot", nil, nil, nil)
	if got := err.Error(); got != "[SNAPSHOT_MISSING] no snapshot" {
		t.Errorf("Error() = %q", got)
	}

	cause := stderrors.New("disk gone")
	err = NewProxError(CacheUnavailable, "cannot open db", cause, nil, nil)
	if !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewProxError(InternalError, "wrapped", cause, nil, nil)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is must find the cause through Unwrap")
	}
}

func TestWithDetails(t *testing.T) {
	err := NewProxError(FileNotIndexed, "missing", nil, nil, nil).
		WithDetails(map[string]string{"path": "a.go"})

	details, ok := err.Details.(map[string]string)
	if !ok || details["path"] != "a.go" {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	fixes := GetSuggestedFixes(SnapshotMissing)
	if len(fixes) == 0 {
		t.Fatal("SnapshotMissing must have suggested fixes")
	}
	if fixes[0].Command != "prox scan" {
		t.Errorf("fix command = %q, want prox scan", fixes[0].Command)
	}

	if fixes := GetSuggestedFixes(InternalError); fixes != nil {
		t.Errorf("InternalError has no fixes, got %v", fixes)
	}
}
