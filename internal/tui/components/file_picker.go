package components

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/lector/internal/tui/styles"
)

// pickerMarginBottom mirrors the rows filepicker reserves under its list
const pickerMarginBottom = 5

// PickerResult is what one Update of the file picker decided
type PickerResult int

const (
	PickerPending PickerResult = iota
	PickerSelected
	PickerCancelled
)

// FilePicker wraps bubbles/filepicker with an extension allow-list that can
// be switched off, a hidden-files toggle, and an explicit cancel key.
type FilePicker struct {
	picker     filepicker.Model
	extensions []string
	allFiles   bool
	width      int
	height     int
}

// NewFilePicker creates a picker rooted at startDir ("" = working directory)
func NewFilePicker(startDir string, extensions []string, showHidden bool) *FilePicker {
	fp := filepicker.New()
	fp.CurrentDirectory = startDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory = "."
	}
	if abs, err := filepath.Abs(fp.CurrentDirectory); err == nil {
		fp.CurrentDirectory = abs
	}
	fp.ShowHidden = showHidden
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = true
	fp.Styles.Cursor = styles.AccentStyle
	fp.Styles.Selected = styles.AccentStyle.Bold(true)

	p := &FilePicker{picker: fp, extensions: extensions}
	p.applyFilter()
	return p
}

// Init reads the current directory
func (p *FilePicker) Init() tea.Cmd {
	return p.picker.Init()
}

// SetSize resizes the picker list
func (p *FilePicker) SetSize(width, height int) tea.Cmd {
	p.width = width
	p.height = height
	// filepicker sizes itself from WindowSizeMsg when AutoHeight is set,
	// keeping pickerMarginBottom rows free; our two header lines come first.
	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(tea.WindowSizeMsg{Width: width, Height: max(height-2, 1) + pickerMarginBottom})
	return cmd
}

// AllFiles reports whether the extension filter is off
func (p *FilePicker) AllFiles() bool {
	return p.allFiles
}

// CurrentDirectory returns the directory being browsed
func (p *FilePicker) CurrentDirectory() string {
	return p.picker.CurrentDirectory
}

// Update handles keys and directory reads. When the result is
// PickerSelected, path holds the chosen file.
func (p *FilePicker) Update(msg tea.Msg) (result PickerResult, path string, cmd tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Cancel):
			return PickerCancelled, "", nil
		case key.Matches(keyMsg, PickerKeys.AllFiles):
			p.allFiles = !p.allFiles
			p.applyFilter()
			return PickerPending, "", p.picker.Init()
		case key.Matches(keyMsg, PickerKeys.ShowHidden):
			p.picker.ShowHidden = !p.picker.ShowHidden
			return PickerPending, "", p.picker.Init()
		}
	}

	p.picker, cmd = p.picker.Update(msg)

	if ok, selected := p.picker.DidSelectFile(msg); ok {
		return PickerSelected, selected, cmd
	}
	return PickerPending, "", cmd
}

// View renders the picker with a header naming the directory and filter
func (p *FilePicker) View() string {
	filter := "all files"
	if !p.allFiles && len(p.extensions) > 0 {
		filter = strings.Join(p.extensions, " ")
	}

	header := styles.AccentStyle.Render("Open file") + "  " +
		styles.DimStyle.Render(styles.TruncateLeft(p.picker.CurrentDirectory, max(p.width-12, 10)))
	hints := styles.DimStyle.Render("showing: "+filter+" · ") +
		styles.HelpKeyStyle.Render("tab") + styles.DimStyle.Render(" toggle · ") +
		styles.HelpKeyStyle.Render(".") + styles.DimStyle.Render(" hidden · ") +
		styles.HelpKeyStyle.Render("esc") + styles.DimStyle.Render(" cancel")

	return header + "\n" + hints + "\n" + p.picker.View()
}

func (p *FilePicker) applyFilter() {
	if p.allFiles || len(p.extensions) == 0 {
		p.picker.AllowedTypes = nil
		return
	}
	p.picker.AllowedTypes = append([]string(nil), p.extensions...)
}
