package model

import (
	"fmt"
	"time"
)

// SourceMode selects how a source directory is routed.
type SourceMode string

const (
	// ModeStandard classifies documents and routes them per plan manager.
	ModeStandard SourceMode = "standard"
	// ModeFailed re-sorts documents that previously failed client coding.
	ModeFailed SourceMode = "failed"
	// ModePassthrough moves every file straight into the destination root.
	ModePassthrough SourceMode = "passthrough"
)

// ParseSourceMode validates a mode name; empty means standard.
func ParseSourceMode(s string) (SourceMode, error) {
	switch SourceMode(s) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeFailed:
		return ModeFailed, nil
	case ModePassthrough:
		return ModePassthrough, nil
	}
	return "", fmt.Errorf("unknown source mode %q (want standard, failed or passthrough)", s)
}

// Source is one directory the router drains per pass.
type Source struct {
	Dir      string
	DestRoot string
	Mode     SourceMode
}

// PassReport summarizes one pass over a source directory.
type PassReport struct {
	Started  time.Time
	Finished time.Time
	PassID   string
	Source   Source
	Results  []FileResult
}

// Count returns how many files ended the pass in the given state.
func (r *PassReport) Count(state FileState) int {
	n := 0
	for _, res := range r.Results {
		if res.State == state {
			n++
		}
	}
	return n
}

// Duplicates returns how many files were marked as duplicates.
func (r *PassReport) Duplicates() int {
	n := 0
	for _, res := range r.Results {
		if res.Duplicate {
			n++
		}
	}
	return n
}
