package tui

import "github.com/mmcdole/reel/internal/browse"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SnapshotMsg carries a new store state
type SnapshotMsg struct {
	Snapshot browse.Snapshot
}

// OpenedMsg signals that a link was handed to the system opener
type OpenedMsg struct {
	What string
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
