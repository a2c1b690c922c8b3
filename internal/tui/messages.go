package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/lector/internal/domain"
	"github.com/mmcdole/lector/internal/loader"
)

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

// LoadStartedMsg signals that a load handle exists. NextCmd reads its first event.
type LoadStartedMsg struct {
	Load    *loader.Load
	NextCmd tea.Cmd
}

// LoadProgressMsg carries one progress event of a load
type LoadProgressMsg struct {
	LoadID     string
	Path       string
	Percent    int
	BytesRead  int64
	TotalBytes int64
	NextCmd    tea.Cmd // reads the following event
}

// LoadFinishedMsg carries the terminal event of a load
type LoadFinishedMsg struct {
	LoadID     string
	Path       string
	Content    string
	TotalBytes int64
	Err        error
}

// PickRequestMsg signals that the loader is waiting for the user to pick a file
type PickRequestMsg struct{}

// RecentLoadedMsg delivers the recent-files history, newest first
type RecentLoadedMsg struct {
	Entries []domain.RecentFile
}

// RecentForgottenMsg signals that a path was removed from the history
type RecentForgottenMsg struct {
	Path string
}

// EditorClosedMsg signals that the external editor exited
type EditorClosedMsg struct {
	Path string
	Err  error
}

// TickMsg is sent periodically for animations
type TickMsg struct{}

// StatusMsg sets a transient footer message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}
