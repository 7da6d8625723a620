// Package model defines the core domain models used throughout the application.
package model

import "time"

// FileState tracks a single file through one routing pass.
type FileState string

// File state constants. Moved, Quarantined and SkippedNotFound are terminal;
// Deferred files are left in place and picked up again on the next pass.
const (
	StateDiscovered      FileState = "discovered"
	StateSettling        FileState = "settling"
	StateFingerprinted   FileState = "fingerprinted"
	StateClassified      FileState = "classified"
	StateRouted          FileState = "routed"
	StateMoved           FileState = "moved"
	StateQuarantined     FileState = "quarantined"
	StateSkippedNotFound FileState = "skipped_not_found"
	StateDeferred        FileState = "deferred"
)

// IsTerminal reports whether the state ends processing for the file.
func (s FileState) IsTerminal() bool {
	switch s {
	case StateMoved, StateQuarantined, StateSkippedNotFound:
		return true
	}
	return false
}

// RoutingDecision is the resolved destination for one document.
type RoutingDecision struct {
	Category       Category
	PlanManager    string
	DestinationDir string
	Reason         string
}

// FileResult is the record of one directory entry through a pass and its
// outcome.
type FileResult struct {
	Err          error
	Decision     *RoutingDecision
	OriginalName string
	SourcePath   string
	FinalPath    string
	Hash         string // Empty when fingerprinting failed
	State        FileState
	Size         int64
	Duplicate    bool
	Attempts     int
	Duration     time.Duration
}
