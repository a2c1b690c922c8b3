package components

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/lector/internal/domain"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewerFind(t *testing.T) {
	v := NewViewer()
	v.SetSize(80, 10)
	v.SetContent("/tmp/doc.txt", "error one\nok\nERROR two\nok\nerror three\n")

	tests := []struct {
		name   string
		query  string
		want   int
		status string
	}{
		{"case insensitive", "error", 3, `"error": 1/3`},
		{"no matches", "missing", 0, `"missing": no matches`},
		{"blank query", "   ", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Find(tt.query); got != tt.want {
				t.Errorf("Find(%q) = %d, want %d", tt.query, got, tt.want)
			}
			if got := v.FindStatus(); got != tt.status {
				t.Errorf("FindStatus() = %q, want %q", got, tt.status)
			}
		})
	}
}

func TestViewerMatchNavigation(t *testing.T) {
	v := NewViewer()
	v.SetSize(80, 10)
	v.SetContent("/tmp/doc.txt", "a\nhit\nb\nhit\nc\nhit\n")

	if n := v.Find("hit"); n != 3 {
		t.Fatalf("Find = %d, want 3", n)
	}

	steps := []struct {
		next bool
		want string
	}{
		{true, `"hit": 2/3`},
		{true, `"hit": 3/3`},
		{true, `"hit": 1/3`},
		{false, `"hit": 3/3`},
		{false, `"hit": 2/3`},
	}
	for i, s := range steps {
		if s.next {
			v.NextMatch()
		} else {
			v.PrevMatch()
		}
		if got := v.FindStatus(); got != s.want {
			t.Errorf("step %d: FindStatus() = %q, want %q", i, got, s.want)
		}
	}

	v.ClearFind()
	if v.NextMatch() {
		t.Error("NextMatch() = true with no query")
	}
}

func TestViewerToggleFuzzy(t *testing.T) {
	v := NewViewer()
	v.SetSize(80, 10)
	v.SetContent("/tmp/doc.txt", "connection refused\nok\n")

	if n := v.Find("cnrfsd"); n != 0 {
		t.Fatalf("exact Find = %d, want 0", n)
	}
	if n := v.ToggleFuzzy(); n != 1 {
		t.Errorf("fuzzy Find = %d, want 1", n)
	}
	if !v.Fuzzy() {
		t.Error("Fuzzy() = false after toggle")
	}
}

func TestViewerSetContentResetsFind(t *testing.T) {
	v := NewViewer()
	v.SetSize(80, 10)
	v.SetContent("/tmp/a.txt", "needle\n")
	v.Find("needle")

	v.SetContent("/tmp/b.txt", "other\n")
	if v.FindStatus() != "" {
		t.Errorf("FindStatus() = %q after new content", v.FindStatus())
	}
	if v.Path() != "/tmp/b.txt" || !v.HasContent() {
		t.Errorf("Path() = %q, HasContent() = %v", v.Path(), v.HasContent())
	}
	if !strings.Contains(v.View(), "b.txt") {
		t.Error("View() does not show the file name")
	}
}

func TestRenderMatchLine(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		matched []int
		width   int
	}{
		{"padded to width", "İİ needle", []int{3, 4, 5, 6, 7, 8}, 20},
		{"truncated", "a long line with a needle at the end", []int{30, 31, 32}, 12},
		{"empty line", "", nil, 5},
		{"offsets past the text", "abc", []int{7, 8}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderMatchLine(tt.text, tt.matched, tt.width)
			if w := lipgloss.Width(got); w != tt.width {
				t.Errorf("width = %d, want %d", w, tt.width)
			}
		})
	}
}

func recentEntries() []domain.RecentFile {
	now := time.Now()
	return []domain.RecentFile{
		{Path: "/var/log/app.log", Size: 2048, LoadedAt: now, Outcome: domain.OutcomeCompleted, Percent: 100},
		{Path: "/home/me/notes.md", Size: 512, LoadedAt: now, Outcome: domain.OutcomeCancelled, Percent: 40},
		{Path: "/home/me/data.csv", Size: 0, LoadedAt: now, Outcome: domain.OutcomeFailed},
	}
}

func TestRecentListNavigation(t *testing.T) {
	c := NewRecentList()
	c.SetSize(80, 20)
	c.SetEntries(recentEntries())

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	tests := []struct {
		key  string
		want string
	}{
		{"j", "/home/me/notes.md"},
		{"j", "/home/me/data.csv"},
		{"j", "/home/me/data.csv"},
		{"g", "/var/log/app.log"},
		{"G", "/home/me/data.csv"},
		{"k", "/home/me/notes.md"},
	}
	for _, tt := range tests {
		c.Update(keyRunes(tt.key))
		got, ok := c.Selected()
		if !ok || got.Path != tt.want {
			t.Errorf("after %q Selected() = %q, want %q", tt.key, got.Path, tt.want)
		}
	}
}

func TestRecentListFilter(t *testing.T) {
	c := NewRecentList()
	c.SetSize(80, 20)
	c.SetEntries(recentEntries())

	c.ToggleFilter()
	if !c.IsFilterTyping() {
		t.Fatal("IsFilterTyping() = false after ToggleFilter")
	}
	c.Update(keyRunes("notes"))
	if c.Len() != 1 {
		t.Fatalf("Len() = %d after filtering, want 1", c.Len())
	}
	if got, _ := c.Selected(); got.Path != "/home/me/notes.md" {
		t.Errorf("Selected() = %q", got.Path)
	}

	c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if c.IsFilterTyping() || !c.IsFiltering() {
		t.Error("enter should keep the filter but stop typing")
	}

	c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if c.IsFiltering() || c.Len() != 3 {
		t.Errorf("after esc IsFiltering() = %v, Len() = %d", c.IsFiltering(), c.Len())
	}
}

func TestRecentListView(t *testing.T) {
	c := NewRecentList()
	c.SetSize(100, 20)
	c.SetEntries(recentEntries())

	view := c.View()
	for _, want := range []string{"app.log", "notes.md", "stopped at 40%", "2.0 kB"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestInputModal(t *testing.T) {
	m := NewInputModal()
	m.Show("Find", "text", "")
	if !m.IsVisible() || m.Title() != "Find" {
		t.Fatal("modal not shown")
	}

	m, _, submitted := m.Update(keyRunes("abc"))
	if submitted || m.Value() != "abc" {
		t.Errorf("Value() = %q, submitted = %v", m.Value(), submitted)
	}

	m, _, submitted = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !submitted {
		t.Error("enter did not submit")
	}

	m, _, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.IsVisible() {
		t.Error("esc did not hide the modal")
	}
}

func TestErrorDialog(t *testing.T) {
	d := NewErrorDialog()
	if d.IsVisible() || d.View() != "" {
		t.Fatal("new dialog should be hidden")
	}

	d.ShowError("Cannot Open File", "cannot open /x: no such file")
	if !d.IsVisible() {
		t.Fatal("dialog hidden after ShowError")
	}
	view := d.View()
	for _, want := range []string{"Cannot Open File", "no such file", "Press any key"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	d.Dismiss()
	if d.IsVisible() {
		t.Error("dialog visible after Dismiss")
	}
}

func TestFilePickerKeys(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewFilePicker(dir, []string{".txt"}, false)
	p.SetSize(80, 20)
	if p.CurrentDirectory() != dir {
		t.Errorf("CurrentDirectory() = %q, want %q", p.CurrentDirectory(), dir)
	}

	result, _, cmd := p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if result != PickerPending || !p.AllFiles() || cmd == nil {
		t.Errorf("tab: result = %v, AllFiles() = %v", result, p.AllFiles())
	}
	if !strings.Contains(p.View(), "all files") {
		t.Error("View() does not show the all files state")
	}

	result, _, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if result != PickerCancelled {
		t.Errorf("esc: result = %v, want PickerCancelled", result)
	}
}
