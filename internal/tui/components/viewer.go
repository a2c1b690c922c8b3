package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/lector/internal/search"
	"github.com/mmcdole/lector/internal/tui/styles"
)

// headerLines is the title line above the viewport
const headerLines = 1

// Viewer shows loaded file content in a scrollable viewport with find support
type Viewer struct {
	viewport viewport.Model
	path     string
	size     int
	index    *search.LineIndex

	// Find state
	query   string
	exact   bool
	matches []search.LineMatch
	current int // position in matches, -1 = none

	width  int
	height int
}

// NewViewer creates an empty viewer
func NewViewer() *Viewer {
	vp := viewport.New(0, 0)
	return &Viewer{viewport: vp, index: search.NewLineIndex(""), current: -1, exact: true}
}

// SetContent replaces the shown document and clears find state
func (v *Viewer) SetContent(path, content string) {
	v.path = path
	v.size = len(content)
	v.index = search.NewLineIndex(content)
	v.viewport.SetContent(content)
	v.viewport.GotoTop()
	v.ClearFind()
}

// HasContent reports whether a document is loaded
func (v *Viewer) HasContent() bool {
	return v.path != ""
}

// Path returns the path of the shown document
func (v *Viewer) Path() string {
	return v.path
}

// SetSize sets the rendered size including the header line
func (v *Viewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-headerLines, 1)
}

// TopLine returns the 1-based line number at the top of the viewport
func (v *Viewer) TopLine() int {
	return v.viewport.YOffset + 1
}

// ScrollPercent returns how far through the document the viewport is
func (v *Viewer) ScrollPercent() float64 {
	return v.viewport.ScrollPercent()
}

// Update forwards scrolling keys and mouse events to the viewport
func (v *Viewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// GotoTop scrolls to the first line
func (v *Viewer) GotoTop() {
	v.viewport.GotoTop()
}

// GotoBottom scrolls to the last line
func (v *Viewer) GotoBottom() {
	v.viewport.GotoBottom()
}

// Find runs query against the document and jumps to the first match at or
// below the current position. It returns the number of matches.
func (v *Viewer) Find(query string) int {
	v.query = strings.TrimSpace(query)
	v.matches = v.index.Find(v.query, v.exact)
	v.current = -1
	if len(v.matches) == 0 {
		return 0
	}
	v.current = search.Next(v.matches, v.viewport.YOffset-1)
	v.gotoCurrent()
	return len(v.matches)
}

// ToggleFuzzy switches between exact and fuzzy matching, re-running the query
func (v *Viewer) ToggleFuzzy() int {
	v.exact = !v.exact
	if v.query == "" {
		return 0
	}
	return v.Find(v.query)
}

// Fuzzy reports whether find uses fuzzy matching
func (v *Viewer) Fuzzy() bool {
	return !v.exact
}

// NextMatch jumps to the match after the current one, wrapping around
func (v *Viewer) NextMatch() bool {
	if len(v.matches) == 0 {
		return false
	}
	v.current = search.Next(v.matches, v.anchorLine())
	v.gotoCurrent()
	return true
}

// PrevMatch jumps to the match before the current one, wrapping around
func (v *Viewer) PrevMatch() bool {
	if len(v.matches) == 0 {
		return false
	}
	v.current = search.Prev(v.matches, v.anchorLine())
	v.gotoCurrent()
	return true
}

// ClearFind drops the current query and matches
func (v *Viewer) ClearFind() {
	v.query = ""
	v.matches = nil
	v.current = -1
}

// FindStatus describes the find state for the footer, "" when inactive
func (v *Viewer) FindStatus() string {
	if v.query == "" {
		return ""
	}
	if len(v.matches) == 0 {
		return fmt.Sprintf("%q: no matches", v.query)
	}
	return fmt.Sprintf("%q: %d/%d", v.query, v.current+1, len(v.matches))
}

// anchorLine is the current match line, or the top line when none is selected.
// The viewport clamps its offset near the end, so the top line alone could
// keep landing on the same match.
func (v *Viewer) anchorLine() int {
	if v.current >= 0 && v.current < len(v.matches) {
		return v.matches[v.current].Line
	}
	return v.viewport.YOffset
}

func (v *Viewer) gotoCurrent() {
	if v.current < 0 || v.current >= len(v.matches) {
		return
	}
	v.viewport.SetYOffset(v.matches[v.current].Line)
}

// View renders the header and the viewport
func (v *Viewer) View() string {
	name := filepath.Base(v.path)
	info := fmt.Sprintf("%s · %d lines · %3.0f%%", humanize.Bytes(uint64(v.size)), v.index.Len(), v.viewport.ScrollPercent()*100)

	room := v.width - lipgloss.Width(info) - 3
	title := styles.TitleStyle.Render(styles.Truncate(name, max(room, 1)))
	gap := max(v.width-lipgloss.Width(title)-lipgloss.Width(info)-1, 1)
	header := title + strings.Repeat(" ", gap) + styles.DimStyle.Render(info)

	body := v.viewport.View()
	if line, ok := v.currentLine(); ok {
		body = v.highlight(body, line)
	}
	return header + "\n" + body
}

// currentLine returns the viewport row holding the current match
func (v *Viewer) currentLine() (int, bool) {
	if v.current < 0 || v.current >= len(v.matches) {
		return 0, false
	}
	row := v.matches[v.current].Line - v.viewport.YOffset
	if row < 0 || row >= v.viewport.Height {
		return 0, false
	}
	return row, true
}

// highlight restyles one visible row of the rendered viewport, marking the
// matched runes of the current match
func (v *Viewer) highlight(body string, row int) string {
	rows := strings.Split(body, "\n")
	if row >= len(rows) {
		return body
	}
	match := v.matches[v.current]
	text := v.index.Line(match.Line)
	rows[row] = renderMatchLine(text, match.MatchedIndexes, v.width)
	return strings.Join(rows, "\n")
}

// renderMatchLine styles text as the current match line within width.
// matched holds rune offsets into text.
func renderMatchLine(text string, matched []int, width int) string {
	shown := []rune(styles.Truncate(text, width))
	keep := len(shown)
	if string(shown) != text {
		keep = max(keep-3, 0) // trailing ellipsis
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	start := 0
	for i := 1; i <= len(shown); i++ {
		if i < len(shown) && hit[i] == hit[start] && (i < keep) == (start < keep) {
			continue
		}
		seg := string(shown[start:i])
		if hit[start] && start < keep {
			b.WriteString(styles.MatchHighlightStyle.Inherit(styles.MatchLineStyle).Render(seg))
		} else {
			b.WriteString(styles.MatchLineStyle.Render(seg))
		}
		start = i
	}

	if pad := width - lipgloss.Width(b.String()); pad > 0 {
		b.WriteString(styles.MatchLineStyle.Render(strings.Repeat(" ", pad)))
	}
	return b.String()
}
