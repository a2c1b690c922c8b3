package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the error dialog
	if m.ErrorDialog.IsVisible() {
		m.ErrorDialog.Dismiss()
		return m, nil
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	// The picker owns esc while it is open
	if m.Screen == ScreenPicker && m.FilePicker != nil {
		if key.Matches(msg, Keys.ForceQuit) {
			return m.quit()
		}
		return m.updatePicker(msg)
	}

	// A load in flight can always be cancelled
	if m.load != nil && key.Matches(msg, Keys.Escape, Keys.ForceQuit) && !m.InputModal.IsVisible() {
		return m.cancelLoad()
	}

	// Route to active modal if any
	if m.InputModal.IsVisible() {
		return m.routeToModal(msg)
	}

	// Filter typing owns every key
	if m.Screen == ScreenHome && m.Recent.IsFilterTyping() {
		return m, m.Recent.Update(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit, Keys.ForceQuit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Open):
		return m, LoadFileCmd(m.Controller, "")

	case key.Matches(msg, Keys.OpenPath):
		m.modal = modalOpenPath
		return m, m.InputModal.Show("Open path", "path or file:// URI", "")
	}

	if m.Screen == ScreenViewer {
		return m.handleViewerKey(msg)
	}
	return m.handleHomeKey(msg)
}

// handleHomeKey handles keys on the recent-files screen
func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Enter):
		if entry, ok := m.Recent.Selected(); ok {
			return m, LoadFileCmd(m.Controller, entry.Path)
		}
		return m, nil

	case key.Matches(msg, Keys.Filter) && !m.Recent.IsFiltering():
		return m, m.Recent.ToggleFilter()

	case key.Matches(msg, Keys.Forget):
		if entry, ok := m.Recent.Selected(); ok {
			return m, ForgetRecentCmd(m.History, entry.Path)
		}
		return m, nil

	case key.Matches(msg, Keys.Escape) && !m.Recent.IsFiltering():
		if m.Viewer.HasContent() {
			m.Screen = ScreenViewer
		}
		return m, nil
	}

	return m, m.Recent.Update(msg)
}

// handleViewerKey handles keys while a document is shown
func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		if m.Viewer.FindStatus() != "" {
			m.Viewer.ClearFind()
			return m, nil
		}
		m.Screen = ScreenHome
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.Screen = ScreenHome
		return m, nil

	case key.Matches(msg, Keys.Find):
		m.modal = modalFind
		cmd := m.InputModal.Show(m.findTitle(), "text to find", "")
		return m, cmd

	case key.Matches(msg, Keys.NextMatch):
		if !m.Viewer.NextMatch() {
			return m, nil
		}
		m.StatusMsg = m.Viewer.FindStatus()
		m.StatusIsErr = false
		return m, nil

	case key.Matches(msg, Keys.PrevMatch):
		if !m.Viewer.PrevMatch() {
			return m, nil
		}
		m.StatusMsg = m.Viewer.FindStatus()
		m.StatusIsErr = false
		return m, nil

	case key.Matches(msg, Keys.ToggleFuzzy):
		m.Viewer.ToggleFuzzy()
		mode := "exact"
		if m.Viewer.Fuzzy() {
			mode = "fuzzy"
		}
		m.StatusMsg = "Find: " + mode
		if status := m.Viewer.FindStatus(); status != "" {
			m.StatusMsg += " · " + status
		}
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case key.Matches(msg, Keys.Edit):
		return m, OpenEditorCmd(m.Launcher, m.Viewer.Path(), m.Viewer.TopLine())

	case key.Matches(msg, Keys.Reload):
		return m, LoadFileCmd(m.Controller, m.Viewer.Path())

	case key.Matches(msg, Keys.Home):
		m.Viewer.GotoTop()
		return m, nil

	case key.Matches(msg, Keys.End):
		m.Viewer.GotoBottom()
		return m, nil
	}

	return m, m.Viewer.Update(msg)
}

// routeToModal sends a key to the input modal and acts on submit
func (m Model) routeToModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.InputModal, cmd, submitted = m.InputModal.Update(msg)

	kind := m.modal
	if !m.InputModal.IsVisible() {
		m.modal = modalNone
	}

	switch kind {
	case modalFind:
		if !m.InputModal.IsVisible() && !submitted {
			// Escaped: drop the incremental search
			m.Viewer.ClearFind()
			return m, cmd
		}
		// Incremental find while typing
		query := m.InputModal.Value()
		n := m.Viewer.Find(query)
		if submitted {
			m.InputModal.Hide()
			m.modal = modalNone
			if strings.TrimSpace(query) == "" {
				return m, cmd
			}
			m.StatusMsg = m.Viewer.FindStatus()
			m.StatusIsErr = n == 0
			return m, cmd
		}
		m.InputModal.SetHint(findHint(query, n))

	case modalOpenPath:
		if !submitted {
			return m, cmd
		}
		m.InputModal.Hide()
		m.modal = modalNone
		path := strings.TrimSpace(m.InputModal.Value())
		if path == "" {
			return m, cmd
		}
		return m, LoadFileCmd(m.Controller, path)
	}

	return m, cmd
}

// findTitle names the find modal after the current match mode
func (m Model) findTitle() string {
	if m.Viewer.Fuzzy() {
		return "Find (fuzzy)"
	}
	return "Find"
}

func findHint(query string, n int) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	if n == 1 {
		return "1 match"
	}
	return fmt.Sprintf("%d matches", n)
}

