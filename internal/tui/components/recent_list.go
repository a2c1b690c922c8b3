package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/lector/internal/domain"
	"github.com/mmcdole/lector/internal/search"
	"github.com/mmcdole/lector/internal/tui/styles"
)

const (
	// Title line + scroll indicators ("↑ more" and "↓ more")
	recentChromeLines = 3
)

// RecentList is the scrollable, filterable recent-files list on the home screen
type RecentList struct {
	entries []domain.RecentFile
	visible []domain.RecentFile // entries after filtering

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width  int
	height int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
}

// NewRecentList creates an empty recent list
func NewRecentList() *RecentList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.CharLimit = 100

	return &RecentList{filterInput: ti}
}

// SetEntries replaces the list contents, keeping any active filter
func (c *RecentList) SetEntries(entries []domain.RecentFile) {
	c.entries = entries
	c.applyFilter()
}

// SetSize sets the rendered size
func (c *RecentList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// Len returns the number of visible entries
func (c *RecentList) Len() int {
	return len(c.visible)
}

// Selected returns the entry under the cursor
func (c *RecentList) Selected() (domain.RecentFile, bool) {
	if c.cursor < 0 || c.cursor >= len(c.visible) {
		return domain.RecentFile{}, false
	}
	return c.visible[c.cursor], true
}

// ToggleFilter activates the filter input
func (c *RecentList) ToggleFilter() tea.Cmd {
	c.filterActive = true
	c.recalcMaxVisible()
	return c.filterInput.Focus()
}

// IsFiltering returns true if filter mode is active
func (c *RecentList) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *RecentList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all entries
func (c *RecentList) ClearFilter() {
	c.filterActive = false
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
	c.applyFilter()
}

// Update handles navigation and filter typing
func (c *RecentList) Update(msg tea.Msg) tea.Cmd {
	// Typing into the filter
	if c.IsFilterTyping() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, RecentListKeys.Escape):
				c.ClearFilter()
				return nil
			case key.Matches(keyMsg, RecentListKeys.Enter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.ClearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if c.filterActive {
		switch {
		case key.Matches(keyMsg, RecentListKeys.Escape):
			c.ClearFilter()
			return nil
		case key.Matches(keyMsg, RecentListKeys.Filter):
			return c.filterInput.Focus()
		}
	}

	count := len(c.visible)
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, RecentListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, RecentListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, RecentListKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, RecentListKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, RecentListKeys.HalfDown):
		c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
	case key.Matches(keyMsg, RecentListKeys.HalfUp):
		c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
	}
	c.ensureVisible()
	return nil
}

// View renders the list
func (c *RecentList) View() string {
	width := max(c.width, 20)
	titleLine := styles.AccentStyle.Render("Recent files")

	var body string
	switch {
	case len(c.visible) == 0 && c.filterActive && c.filterInput.Value() != "":
		body = " \n" + styles.DimStyle.Render("No matches") + "\n "
	case len(c.visible) == 0:
		body = " \n" + styles.DimStyle.Render("No recent files. Press o to open one.") + "\n "
	default:
		body = c.renderRows(width)
	}

	content := titleLine + "\n" + body
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

func (c *RecentList) renderRows(width int) string {
	end := min(c.offset+c.maxVisible, len(c.visible))

	lines := make([]string, 0, end-c.offset+2)

	// ALWAYS reserve space for header (even if empty) to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	lines = append(lines, header)

	for i := c.offset; i < end; i++ {
		lines = append(lines, renderRecentRow(c.visible[i], i == c.cursor, width))
	}

	footer := " "
	if end < len(c.visible) {
		footer = styles.DimStyle.Render("↓ more")
	}
	lines = append(lines, footer)

	return strings.Join(lines, "\n")
}

func renderRecentRow(e domain.RecentFile, selected bool, width int) string {
	var mark string
	switch e.Outcome {
	case domain.OutcomeCompleted:
		mark = styles.CompletedMark
	case domain.OutcomeCancelled:
		mark = styles.CancelledMark
	default:
		mark = styles.FailedMark
	}

	meta := humanize.Time(e.LoadedAt)
	if e.Outcome == domain.OutcomeCompleted {
		meta = humanize.Bytes(uint64(max(e.Size, 0))) + " · " + meta
	} else if e.Outcome == domain.OutcomeCancelled {
		meta = fmt.Sprintf("stopped at %d%% · %s", e.Percent, meta)
	}

	name := filepath.Base(e.Path)
	dir := filepath.Dir(e.Path)

	// mark + spaces + name + dir + meta must fit in width minus margins
	room := width - 2 - lipgloss.Width(meta) - 6
	name = styles.Truncate(name, max(room/2, 8))
	dir = styles.TruncateLeft(dir, max(room-lipgloss.Width(name), 0))

	dim := styles.DimGray
	parts := []styles.RowPart{
		{Text: mark + " "},
		{Text: name},
		{Text: "  " + dir, Foreground: &dim},
	}

	used := lipgloss.Width(mark) + 1 + lipgloss.Width(name) + 2 + lipgloss.Width(dir)
	gap := width - 2 - used - lipgloss.Width(meta)
	if gap > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap)})
	}
	parts = append(parts, styles.RowPart{Text: meta, Foreground: &dim})

	return styles.RenderListRow(parts, selected, width)
}

func (c *RecentList) renderFilterBar() string {
	input := c.filterInput.View()
	if c.filterInput.Value() == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", len(c.visible), len(c.entries)))
}

// Internal methods

func (c *RecentList) recalcMaxVisible() {
	c.maxVisible = c.height - recentChromeLines
	// Reserve space for filter bar when active
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *RecentList) ensureVisible() {
	if c.cursor >= len(c.visible) {
		c.cursor = max(len(c.visible)-1, 0)
	}
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *RecentList) applyFilter() {
	query := ""
	if c.filterActive {
		query = c.filterInput.Value()
	}
	prev := len(c.visible)
	c.visible = search.FilterRecent(query, c.entries)

	// Reset cursor to first match when the query narrows the list
	if query != "" || prev != len(c.visible) {
		c.cursor = 0
		c.offset = 0
	}
	c.ensureVisible()
}
