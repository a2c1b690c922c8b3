package loader

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/lector/internal/domain"
)

// ResolvePath normalises user input into an absolute local path.
// Accepts plain paths, ~-prefixed paths and file:// URIs.
func ResolvePath(input string) (string, error) {
	p := strings.TrimSpace(input)
	if p == "" {
		return "", domain.ErrNoFileSelected
	}

	if isURI(p) {
		local, err := fileURIToPath(p)
		if err != nil {
			return "", &domain.FileOpenError{Path: p, Err: err}
		}
		p = local
	}

	// Expand ~ in path
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", &domain.FileOpenError{Path: p, Err: fmt.Errorf("failed to get home directory: %w", err)}
		}
		p = filepath.Join(home, p[1:])
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &domain.FileOpenError{Path: p, Err: err}
	}
	return filepath.Clean(abs), nil
}

// isURI reports whether s carries a URI scheme. Windows drive letters
// ("C:\x", "C:/x") are not schemes.
func isURI(s string) bool {
	if strings.HasPrefix(strings.ToLower(s), "file:") {
		return true
	}
	i := strings.Index(s, "://")
	if i < 2 {
		return false
	}
	for _, r := range s[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}

func fileURIToPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URI: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "file") {
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}
	if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
		return "", fmt.Errorf("remote file host %q not supported", u.Host)
	}

	p := u.Path
	if p == "" {
		// file:relative/path
		p = u.Opaque
	}
	if p == "" {
		return "", fmt.Errorf("URI has no path")
	}

	// file:///C:/dir/x.txt -> C:/dir/x.txt
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}
