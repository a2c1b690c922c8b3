package adapter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/mmcdole/lector/internal/domain"
)

const consoleBarWidth = 30

// Console is the non-interactive front end. Progress and errors go to
// errOut; loaded content goes to out so it can be piped.
// Implements domain.LoadObserver and domain.ErrorReporter.
type Console struct {
	out    io.Writer
	errOut io.Writer

	mu      sync.Mutex
	name    string
	total   int64
	percent int
	failed  bool
}

// NewConsole creates a console front end
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut, percent: -1}
}

// Begin names the file being loaded; total is its size in bytes (0 if unknown).
func (c *Console) Begin(path string, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = filepath.Base(path)
	c.total = total
	c.percent = -1
	c.failed = false
}

// Failed reports whether the last load ended in failure
func (c *Console) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

func (c *Console) OnProgress(percent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if percent == c.percent {
		return
	}
	c.percent = percent

	filled := consoleBarWidth * percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", consoleBarWidth-filled)

	fmt.Fprintf(c.errOut, "\r  ◌ %s ", c.name)
	color.New(color.FgCyan).Fprint(c.errOut, bar)
	fmt.Fprintf(c.errOut, " %3d%%", percent)
	if c.total > 0 {
		read := uint64(c.total) * uint64(percent) / 100
		color.New(color.FgHiBlack).Fprintf(c.errOut, " %s / %s", humanize.Bytes(read), humanize.Bytes(uint64(c.total)))
	}
}

func (c *Console) OnCompleted(content string) {
	c.mu.Lock()
	c.endLine()
	color.New(color.FgGreen).Fprintf(c.errOut, "  ✓ Loaded %s", c.name)
	color.New(color.FgHiBlack).Fprintf(c.errOut, " (%s)\n", humanize.Bytes(uint64(len(content))))
	c.mu.Unlock()

	io.WriteString(c.out, content)
}

func (c *Console) OnFailed(err error) {
	c.mu.Lock()
	c.endLine()
	c.failed = true
	c.mu.Unlock()

	c.ShowError(domain.ErrorTitle(err), err.Error())
}

// ShowError prints a titled error to errOut
func (c *Console) ShowError(title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	color.New(color.FgRed, color.Bold).Fprintf(c.errOut, "  ✗ %s\n", title)
	color.New(color.FgRed).Fprintf(c.errOut, "    └─ %s\n", message)
}

// endLine finishes a progress line, if one was drawn. Caller holds mu.
func (c *Console) endLine() {
	if c.percent >= 0 {
		fmt.Fprintln(c.errOut)
	}
	c.percent = -1
}
