package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Launcher builds the command that opens a file in an external editor
type Launcher struct {
	command  string   // configured editor command, empty to auto-detect
	args     []string // additional arguments for the editor
	lineFlag string   // line flag prefix, e.g. "+" or "--line "
	logger   *slog.Logger

	lookPath func(string) (string, error)
	getenv   func(string) string
}

// editorConfig defines how to jump to a line in a known editor
type editorConfig struct {
	lineFlag string // "" when the editor can't open at a line
}

// editors registry - single source of truth for editor line flags
var editors = map[string]editorConfig{
	"nvim":    {lineFlag: "+"},
	"vim":     {lineFlag: "+"},
	"vi":      {lineFlag: "+"},
	"nano":    {lineFlag: "+"},
	"micro":   {lineFlag: "+"},
	"emacs":   {lineFlag: "+"},
	"hx":      {lineFlag: ""},
	"less":    {lineFlag: "+"},
	"code":    {lineFlag: "--goto "},
	"notepad": {lineFlag: ""},
}

// candidateEditors defines the preferred editor order for each platform
var candidateEditors = map[string][]string{
	"darwin":  {"nvim", "vim", "nano"},
	"linux":   {"nvim", "vim", "nano", "vi"},
	"windows": {"notepad"},
}

// NewLauncher creates a new Launcher, detecting the line flag of known editors
func NewLauncher(command string, args []string, lineFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	resolvedFlag := lineFlag
	if resolvedFlag == "" && command != "" {
		if cfg, ok := editors[editorName(command)]; ok && cfg.lineFlag != "" {
			resolvedFlag = cfg.lineFlag
			logger.Debug("auto-detected editor line flag", "editor", editorName(command), "flag", resolvedFlag)
		}
	}

	return &Launcher{
		command:  command,
		args:     args,
		lineFlag: resolvedFlag,
		logger:   logger,
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
	}
}

// editorName strips directories and a Windows extension from command
func editorName(command string) string {
	base := filepath.Base(command)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// Command returns the process that opens path at line (1-based; 0 = top).
//
// Resolution order: the configured editor, then $VISUAL / $EDITOR, then the
// first candidate editor found in PATH, then the system default handler.
func (l *Launcher) Command(path string, line int) (*exec.Cmd, error) {
	if path == "" {
		return nil, fmt.Errorf("no file to open")
	}

	// Tier 1: User configured a specific editor
	if l.command != "" {
		l.logger.Info("using configured editor", "command", l.command)
		return l.build(l.command, l.args, l.lineFlag, path, line), nil
	}

	// Tier 2: Environment
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if env := strings.TrimSpace(l.getenv(key)); env != "" {
			fields := strings.Fields(env)
			flag := editors[editorName(fields[0])].lineFlag
			l.logger.Info("using editor from environment", "var", key, "command", fields[0])
			return l.build(fields[0], fields[1:], flag, path, line), nil
		}
	}

	// Tier 3: Candidate chain
	candidates, ok := candidateEditors[runtime.GOOS]
	if !ok {
		candidates = candidateEditors["linux"] // default
	}
	for _, name := range candidates {
		if _, err := l.lookPath(name); err != nil {
			l.logger.Debug("editor not available", "editor", name, "error", err)
			continue
		}
		l.logger.Info("using detected editor", "editor", name)
		return l.build(name, nil, editors[name].lineFlag, path, line), nil
	}

	// Tier 4: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no editor found, using system default")
	return l.systemDefault(path), nil
}

// build assembles the editor command, adding the line flag when known
func (l *Launcher) build(command string, extra []string, lineFlag, path string, line int) *exec.Cmd {
	args := append([]string{}, extra...)

	if line > 0 && lineFlag != "" {
		// Handle flags that need a space ("--goto 12") vs none ("+12")
		if strings.HasSuffix(lineFlag, " ") {
			args = append(args, strings.TrimSuffix(lineFlag, " "))
			if editorName(command) == "code" {
				// code wants path:line as the --goto value
				args = append(args, path+":"+strconv.Itoa(line))
				return exec.Command(command, args...)
			}
			args = append(args, strconv.Itoa(line))
		} else {
			args = append(args, lineFlag+strconv.Itoa(line))
		}
	}

	args = append(args, path)
	l.logger.Debug("editor command", "command", command, "args", args)
	return exec.Command(command, args...)
}

// systemDefault opens the file using the system default handler
func (l *Launcher) systemDefault(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	default:
		// Linux and other Unix-like systems
		return exec.Command("xdg-open", path)
	}
}
