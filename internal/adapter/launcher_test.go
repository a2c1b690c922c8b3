package adapter

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func testLauncher(command string, args []string, lineFlag string, env map[string]string, inPath ...string) *Launcher {
	l := NewLauncher(command, args, lineFlag, NullLogger())
	l.getenv = func(k string) string { return env[k] }
	l.lookPath = func(name string) (string, error) {
		for _, p := range inPath {
			if p == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	return l
}

func cmdLine(t *testing.T, l *Launcher, path string, line int) string {
	t.Helper()
	cmd, err := l.Command(path, line)
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	// Args[0] is the command as given, Path may be resolved
	return strings.Join(append([]string{filepath.Base(cmd.Args[0])}, cmd.Args[1:]...), " ")
}

func TestLauncher_Command(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("candidate editors differ on windows")
	}

	tests := []struct {
		name     string
		command  string
		args     []string
		lineFlag string
		env      map[string]string
		inPath   []string
		line     int
		want     string
	}{
		{
			name:    "configured with detected flag",
			command: "/opt/bin/nvim",
			line:    42,
			want:    "nvim +42 /tmp/a.txt",
		},
		{
			name:     "configured with explicit spaced flag",
			command:  "myedit",
			args:     []string{"-w"},
			lineFlag: "--line ",
			line:     7,
			want:     "myedit -w --line 7 /tmp/a.txt",
		},
		{
			name:    "configured unknown editor skips line",
			command: "ed",
			line:    3,
			want:    "ed /tmp/a.txt",
		},
		{
			name: "VISUAL wins over EDITOR",
			env:  map[string]string{"VISUAL": "vim -R", "EDITOR": "nano"},
			line: 10,
			want: "vim -R +10 /tmp/a.txt",
		},
		{
			name: "code uses path:line",
			env:  map[string]string{"EDITOR": "code --wait"},
			line: 5,
			want: "code --wait --goto /tmp/a.txt:5",
		},
		{
			name:   "candidate from PATH",
			inPath: []string{"nano", "vi"},
			line:   2,
			want:   "nano +2 /tmp/a.txt",
		},
		{
			name:   "line zero opens at top",
			inPath: []string{"vim"},
			want:   "vim /tmp/a.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLauncher(tt.command, tt.args, tt.lineFlag, tt.env, tt.inPath...)
			if got := cmdLine(t, l, "/tmp/a.txt", tt.line); got != tt.want {
				t.Errorf("command = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLauncher_SystemDefault(t *testing.T) {
	l := testLauncher("", nil, "", nil)
	cmd, err := l.Command("/tmp/a.txt", 1)
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if last := cmd.Args[len(cmd.Args)-1]; last != "/tmp/a.txt" {
		t.Errorf("last arg = %q, want the file path", last)
	}
}

func TestLauncher_NoPath(t *testing.T) {
	if _, err := NewLauncher("vim", nil, "", nil).Command("", 1); err == nil {
		t.Error("Command(\"\") error = nil, want error")
	}
}
