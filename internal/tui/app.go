package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/lector/internal/adapter"
	"github.com/mmcdole/lector/internal/domain"
	"github.com/mmcdole/lector/internal/history"
	"github.com/mmcdole/lector/internal/loader"
	"github.com/mmcdole/lector/internal/tui/components"
)

// Screen is the main view being shown
type Screen int

const (
	ScreenHome Screen = iota
	ScreenViewer
	ScreenPicker
)

// modalKind tells what a submitted InputModal value is for
type modalKind int

const (
	modalNone modalKind = iota
	modalFind
	modalOpenPath
)

const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	// Home screen title and blank line above the recent list
	homeHeaderHeight = 2

	tickInterval = 100 * time.Millisecond
)

// Options carries startup settings for the Model
type Options struct {
	InitialPath      string
	PickerStartDir   string
	PickerExtensions []string
	PickerShowHidden bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	Screen   Screen
	ShowHelp bool
	Ready    bool

	// Services
	Controller *loader.Controller
	History    *history.Service
	Picker     *PickerSelector
	Launcher   *adapter.Launcher
	opts       Options

	// UI Components
	Recent      *components.RecentList
	Viewer      *components.Viewer
	FilePicker  *components.FilePicker
	InputModal  components.InputModal
	ErrorDialog *components.ErrorDialog
	Progress    progress.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
	modal        modalKind
	returnTo     Screen // screen to restore when the picker closes

	// Load in flight, nil when idle
	load        *loader.Load
	loadPercent int
	loadBytes   int64
	loadTotal   int64
}

// NewModel creates a new application model
func NewModel(
	ctrl *loader.Controller,
	hist *history.Service,
	picker *PickerSelector,
	launcher *adapter.Launcher,
	opts Options,
) Model {
	return Model{
		Screen:      ScreenHome,
		Controller:  ctrl,
		History:     hist,
		Picker:      picker,
		Launcher:    launcher,
		opts:        opts,
		Recent:      components.NewRecentList(),
		Viewer:      components.NewViewer(),
		InputModal:  components.NewInputModal(),
		ErrorDialog: components.NewErrorDialog(),
		Progress:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		TickCmd(tickInterval),
		WaitForPickRequestCmd(m.Picker),
		LoadRecentCmd(m.History),
	}
	if m.opts.InitialPath != "" {
		cmds = append(cmds, LoadFileCmd(m.Controller, m.opts.InitialPath))
	}
	return tea.Batch(cmds...)
}

// Loading reports whether a load is in flight
func (m Model) Loading() bool {
	return m.load != nil
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, m.updateLayout()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		if m.Screen == ScreenViewer && !m.InputModal.IsVisible() {
			return m, m.Viewer.Update(msg)
		}
		return m, nil

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case PickRequestMsg:
		return m.openPicker()

	case LoadStartedMsg:
		if msg.Load.Rejected() {
			// Nothing started, so a load in flight keeps running
			res, _ := msg.Load.Result()
			m.ErrorDialog.ShowError(domain.ErrorTitle(res.Err), res.Err.Error())
			return m, nil
		}
		if m.load != nil && m.load.ID != msg.Load.ID {
			// One file at a time: the newer request wins
			m.load.Cancel()
		}
		m.load = msg.Load
		m.loadPercent = 0
		m.loadBytes = 0
		m.loadTotal = 0
		return m, msg.NextCmd

	case LoadProgressMsg:
		if m.load == nil || m.load.ID != msg.LoadID {
			return m, nil
		}
		m.loadPercent = msg.Percent
		m.loadBytes = msg.BytesRead
		m.loadTotal = msg.TotalBytes
		return m, msg.NextCmd

	case LoadFinishedMsg:
		if m.load == nil || m.load.ID != msg.LoadID {
			return m, nil
		}
		m.load = nil
		return m.finishLoad(msg)

	case RecentLoadedMsg:
		m.Recent.SetEntries(msg.Entries)
		return m, nil

	case RecentForgottenMsg:
		m.StatusMsg = "Forgot " + filepath.Base(msg.Path)
		m.StatusIsErr = false
		return m, tea.Batch(LoadRecentCmd(m.History), ClearStatusCmd(3*time.Second))

	case EditorClosedMsg:
		if msg.Err != nil {
			return m.Update(ErrMsg{Err: msg.Err, Context: "editor"})
		}
		// The file may have changed on disk
		return m, LoadFileCmd(m.Controller, msg.Path)

	case ErrMsg:
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Directory reads and other component messages
	if m.Screen == ScreenPicker && m.FilePicker != nil {
		return m.updatePicker(msg)
	}
	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
		return m, cmd
	}
	return m, nil
}

// finishLoad shows the content or the error of a terminal load
func (m Model) finishLoad(msg LoadFinishedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{LoadRecentCmd(m.History)}

	if msg.Err != nil {
		m.ErrorDialog.ShowError(domain.ErrorTitle(msg.Err), msg.Err.Error())
		return m, tea.Batch(cmds...)
	}

	m.Viewer.SetContent(msg.Path, msg.Content)
	m.Screen = ScreenViewer
	m.StatusMsg = fmt.Sprintf("Loaded %s (%s)", filepath.Base(msg.Path), humanize.Bytes(uint64(len(msg.Content))))
	m.StatusIsErr = false
	cmds = append(cmds, ClearStatusCmd(3*time.Second))
	return m, tea.Batch(cmds...)
}

// openPicker shows the file picker for a pending selection request
func (m Model) openPicker() (tea.Model, tea.Cmd) {
	if m.Screen != ScreenPicker {
		m.returnTo = m.Screen
	}
	m.Screen = ScreenPicker
	m.FilePicker = components.NewFilePicker(m.opts.PickerStartDir, m.opts.PickerExtensions, m.opts.PickerShowHidden)
	return m, tea.Batch(
		m.FilePicker.Init(),
		m.updateLayout(),
		WaitForPickRequestCmd(m.Picker),
	)
}

// closePicker answers the pending selection and restores the previous screen
func (m Model) closePicker(path string) Model {
	if m.Picker != nil {
		m.Picker.Resolve(path)
	}
	m.Screen = m.returnTo
	m.FilePicker = nil
	return m
}

// updatePicker routes a message to the file picker
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	result, path, cmd := m.FilePicker.Update(msg)
	switch result {
	case components.PickerSelected:
		return m.closePicker(path), cmd
	case components.PickerCancelled:
		return m.closePicker(""), nil
	}
	return m, cmd
}

// quit cancels every load and releases a pending picker request
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.Controller != nil {
		m.Controller.Cancel()
	}
	if m.Picker != nil {
		m.Picker.Resolve("")
	}
	return m, tea.Quit
}

// cancelLoad requests cancellation of the load in flight
func (m Model) cancelLoad() (tea.Model, tea.Cmd) {
	if m.load == nil {
		return m, nil
	}
	m.load.Cancel()
	m.StatusMsg = "Cancelling " + filepath.Base(m.load.Path) + "..."
	m.StatusIsErr = false
	return m, nil
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	var body string
	switch m.Screen {
	case ScreenPicker:
		if m.FilePicker != nil {
			body = m.FilePicker.View()
		}
	case ScreenViewer:
		body = m.Viewer.View()
	default:
		body = m.renderHome()
	}

	contentHeight := max(m.Height-ChromeHeight, 0)
	body = lipgloss.NewStyle().Width(m.Width).Height(contentHeight).MaxHeight(contentHeight).Render(body)

	view := lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())

	// Overlays
	if m.InputModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.InputModal.View())
	}
	if m.ErrorDialog.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.ErrorDialog.View())
	}

	return view
}
