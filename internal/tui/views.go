package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/lector/internal/tui/styles"
)

// renderHome renders the title and the recent-files list
func (m Model) renderHome() string {
	title := styles.TitleStyle.Render("lector") + "  " + styles.DimStyle.Render("recent files")

	if m.Recent.Len() == 0 {
		hint := styles.DimStyle.Render("No recent files. Press ") +
			styles.HelpKeyStyle.Render("o") + styles.DimStyle.Render(" to pick a file or ") +
			styles.HelpKeyStyle.Render(":") + styles.DimStyle.Render(" to type a path.")
		return title + "\n\n" + hint
	}
	return title + "\n\n" + m.Recent.View()
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner + load progress, or the status message
	var left string
	if m.load != nil {
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(m.loadStatus()) +
			" " + m.Progress.ViewAs(float64(m.loadPercent)/100)
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	} else if m.Screen == ScreenViewer {
		left = styles.DimStyle.Render(m.Viewer.FindStatus())
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth >= m.Width {
		return lipgloss.NewStyle().MaxWidth(m.Width).Render(left)
	}
	return left + strings.Repeat(" ", m.Width-leftWidth-rightWidth) + right
}

// loadStatus describes the load in flight, e.g. "Loading app.log · 40% · 1.0 MB / 2.5 MB"
func (m Model) loadStatus() string {
	name := filepath.Base(m.load.Path)
	if m.load.Path == "" {
		return "Waiting for file..."
	}
	if m.loadTotal == 0 {
		return fmt.Sprintf("Loading %s...", name)
	}
	return fmt.Sprintf("Loading %s · %d%% · %s / %s",
		name, m.loadPercent,
		humanize.Bytes(uint64(m.loadBytes)), humanize.Bytes(uint64(m.loadTotal)))
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
FILES                           VIEWER
  o          Pick a file           j/k        Scroll
  :          Type a path           PgUp/PgDn  Scroll page
  Enter      Open recent           Ctrl+u/d   Scroll half page
  /          Filter recent         g/G        Top/bottom
  x          Forget recent         /          Find
                                   n/N        Next/previous match
PICKER                             f          Exact/fuzzy find
  Tab        All files             e          Open in editor
  .          Hidden files          r          Reload
  Esc        Cancel                Esc        Clear find/back

LOADING                         OTHER
  Esc/Ctrl+c Cancel load           q          Quit
                                   ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}
