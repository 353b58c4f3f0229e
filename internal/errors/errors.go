// Package errors defines stable error codes and the error envelope used
// across prox commands and services.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// SnapshotMissing indicates no file-tree snapshot has been recorded yet
	SnapshotMissing ErrorCode = "SNAPSHOT_MISSING"
	// SnapshotStale indicates the recorded snapshot no longer matches the working tree
	SnapshotStale ErrorCode = "SNAPSHOT_STALE"
	// FileNotIndexed indicates the queried file is not part of the snapshot
	FileNotIndexed ErrorCode = "FILE_NOT_INDEXED"
	// ScipIndexMissing indicates a SCIP index was requested but not found
	ScipIndexMissing ErrorCode = "SCIP_INDEX_MISSING"
	// ScipIndexInvalid indicates the SCIP index could not be parsed
	ScipIndexInvalid ErrorCode = "SCIP_INDEX_INVALID"
	// WorkspaceInvalid indicates WORKSPACE.toml is malformed
	WorkspaceInvalid ErrorCode = "WORKSPACE_INVALID"
	// ScanLimitExceeded indicates the scan hit a configured limit
	ScanLimitExceeded ErrorCode = "SCAN_LIMIT_EXCEEDED"
	// CacheUnavailable indicates the local database could not be opened
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// Drilldown represents a suggested follow-up query
type Drilldown struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// ProxError represents a prox error with code, message, and suggestions
type ProxError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	Drilldowns     []Drilldown `json:"drilldowns,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewProxError creates a new ProxError
func NewProxError(code ErrorCode, message string, cause error, suggestedFixes []FixAction, drilldowns []Drilldown) *ProxError {
	return &ProxError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
		Drilldowns:     drilldowns,
	}
}

// Error implements the error interface
func (e *ProxError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ProxError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ProxError) WithDetails(details interface{}) *ProxError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	SnapshotMissing: {
		{
			Type:        RunCommand,
			Command:     "prox scan",
			Safe:        true,
			Description: "Scan the repository and record a file-tree snapshot",
		},
	},
	SnapshotStale: {
		{
			Type:        RunCommand,
			Command:     "prox scan",
			Safe:        true,
			Description: "Re-scan the repository to refresh the snapshot",
		},
	},
	FileNotIndexed: {
		{
			Type:        RunCommand,
			Command:     "prox scan",
			Safe:        true,
			Description: "Re-scan in case the file was added after the last snapshot",
		},
	},
	ScipIndexMissing: {
		{
			Type:        RunCommand,
			Command:     "prox scan",
			Safe:        true,
			Description: "Fall back to a filesystem scan instead of the SCIP index",
		},
	},
	ScipIndexInvalid: {
		{
			Type:        RunCommand,
			Command:     "scip print --index=${index_path}",
			Safe:        true,
			Description: "Verify the SCIP index is valid",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "rm -rf .prox/prox.db && prox scan",
			Safe:        false,
			Description: "Recreate the local database",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
