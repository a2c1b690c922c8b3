package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/lector/internal/adapter"
	"github.com/mmcdole/lector/internal/domain"
	"github.com/mmcdole/lector/internal/history"
	"github.com/mmcdole/lector/internal/loader"
)

// Command factories for async operations

// LoadFileCmd starts a load. An empty input asks the file selector, which
// blocks this command (not the UI) until the picker resolves.
func LoadFileCmd(ctrl *loader.Controller, input string) tea.Cmd {
	return func() tea.Msg {
		l := ctrl.LoadAsync(context.Background(), input)
		return LoadStartedMsg{Load: l, NextCmd: listenToLoadCmd(l)}
	}
}

// readLoadEvent reads one event from the load and wraps it with a
// continuation command while more events can follow
func readLoadEvent(l *loader.Load) tea.Msg {
	ev, ok := <-l.Events()
	if !ok {
		// Stream already drained; report the stored result
		res, _ := l.Result()
		return LoadFinishedMsg{LoadID: l.ID, Path: l.Path, Content: res.Content, Err: res.Err}
	}

	switch ev.Kind {
	case domain.EventProgress:
		return LoadProgressMsg{
			LoadID:     ev.LoadID,
			Path:       ev.Path,
			Percent:    ev.Percent,
			BytesRead:  ev.BytesRead,
			TotalBytes: ev.TotalBytes,
			NextCmd:    listenToLoadCmd(l),
		}
	default:
		return LoadFinishedMsg{
			LoadID:     ev.LoadID,
			Path:       ev.Path,
			Content:    ev.Content,
			TotalBytes: ev.TotalBytes,
			Err:        ev.Err,
		}
	}
}

// listenToLoadCmd returns a command that reads the next event of the load
func listenToLoadCmd(l *loader.Load) tea.Cmd {
	return func() tea.Msg {
		return readLoadEvent(l)
	}
}

// WaitForPickRequestCmd waits for the loader to ask for a file
func WaitForPickRequestCmd(sel *PickerSelector) tea.Cmd {
	if sel == nil {
		return nil
	}
	return func() tea.Msg {
		<-sel.Requests()
		return PickRequestMsg{}
	}
}

// LoadRecentCmd reads the recent-files history
func LoadRecentCmd(hist *history.Service) tea.Cmd {
	if hist == nil || !hist.Enabled() {
		return nil
	}
	return func() tea.Msg {
		entries, err := hist.Recent("")
		if err != nil {
			return ErrMsg{Err: err, Context: "loading recent files"}
		}
		return RecentLoadedMsg{Entries: entries}
	}
}

// ForgetRecentCmd removes a path from the history
func ForgetRecentCmd(hist *history.Service, path string) tea.Cmd {
	if hist == nil {
		return nil
	}
	return func() tea.Msg {
		if err := hist.Forget(path); err != nil {
			return ErrMsg{Err: err, Context: "forgetting " + path}
		}
		return RecentForgottenMsg{Path: path}
	}
}

// OpenEditorCmd suspends the UI and opens path in the external editor at line
func OpenEditorCmd(launcher *adapter.Launcher, path string, line int) tea.Cmd {
	if launcher == nil {
		return func() tea.Msg {
			return ErrMsg{Err: errors.New("no editor configured"), Context: "opening editor"}
		}
	}
	cmd, err := launcher.Command(path, line)
	if err != nil {
		return func() tea.Msg {
			return ErrMsg{Err: err, Context: "opening editor"}
		}
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return EditorClosedMsg{Path: path, Err: err}
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
