package tui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/reel/internal/browse"
)

// Command factories for async operations

// WaitForSnapshotCmd blocks until the store publishes a new snapshot
func WaitForSnapshotCmd(ch <-chan browse.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// StartCmd resolves the start location and issues the first fetch
func StartCmd(store *browse.Store, location string) tea.Cmd {
	return func() tea.Msg {
		store.Start(location)
		return nil
	}
}

// OpenURLCmd hands a URL to the system opener
func OpenURLCmd(opener URLOpener, rawURL, what string) tea.Cmd {
	return func() tea.Msg {
		if opener == nil {
			return ErrMsg{Err: errors.New("no opener configured"), Context: "opening " + what}
		}
		if err := opener.Open(rawURL); err != nil {
			return ErrMsg{Err: err, Context: "opening " + what}
		}
		return OpenedMsg{What: what}
	}
}

// SaveLocationCmd remembers the location for the next start
func SaveLocationCmd(sessions LocationStore, location string, logger *slog.Logger) tea.Cmd {
	if sessions == nil {
		return nil
	}
	return func() tea.Msg {
		if err := sessions.SaveLastLocation(location); err != nil {
			logger.Warn("failed to save last location", "location", location, "error", err)
		}
		return nil
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
