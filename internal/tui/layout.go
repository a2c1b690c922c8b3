package tui

import tea "github.com/charmbracelet/bubbletea"

// Progress bar bounds in the footer
const (
	minProgressWidth = 10
	maxProgressWidth = 40
)

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() tea.Cmd {
	if m.Width == 0 || m.Height == 0 {
		return nil
	}

	contentHeight := max(m.Height-ChromeHeight, 1)

	m.Recent.SetSize(m.Width, max(contentHeight-homeHeaderHeight, 1))
	m.Viewer.SetSize(m.Width, contentHeight)
	m.Progress.Width = min(max(m.Width/4, minProgressWidth), maxProgressWidth)

	if m.FilePicker != nil {
		return m.FilePicker.SetSize(m.Width, contentHeight)
	}
	return nil
}
