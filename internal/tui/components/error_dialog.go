package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/lector/internal/tui/styles"
)

const errorDialogWidth = 50

// ErrorDialog is a titled modal that shows one error until dismissed.
// Implements domain.ErrorReporter.
type ErrorDialog struct {
	mu      sync.Mutex
	visible bool
	title   string
	message string
}

// NewErrorDialog creates a hidden error dialog
func NewErrorDialog() *ErrorDialog {
	return &ErrorDialog{}
}

// ShowError displays title and message, replacing any shown error
func (d *ErrorDialog) ShowError(title, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = true
	d.title = title
	d.message = message
}

// Dismiss hides the dialog
func (d *ErrorDialog) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = false
}

// IsVisible returns whether the dialog is shown
func (d *ErrorDialog) IsVisible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Title returns the shown title
func (d *ErrorDialog) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// Message returns the shown message
func (d *ErrorDialog) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// View renders the dialog
func (d *ErrorDialog) View() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		return ""
	}

	body := lipgloss.NewStyle().
		Width(errorDialogWidth).
		Foreground(styles.LightGray).
		Render(d.message)

	content := strings.Join([]string{
		styles.ErrorStyle.Bold(true).Render(styles.FailedChar + " " + d.title),
		"",
		body,
		"",
		styles.DimStyle.Render("Press any key to dismiss"),
	}, "\n")

	return styles.ErrorModalStyle.Render(content)
}
