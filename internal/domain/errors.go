package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for load operations
var (
	// ErrNoFileSelected indicates the file-selection step produced no path
	ErrNoFileSelected = errors.New("no file selected")

	// ErrLoadCancelled indicates the load was cancelled before reaching end of file
	ErrLoadCancelled = errors.New("load cancelled")
)

// FileOpenError reports that a file could not be opened (or stat'ed) for reading.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot open file %s: %v", e.Path, e.Err)
	}
	return "cannot open file " + e.Path
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// IOError reports a failure after the file was opened, including panics
// recovered from the load goroutine.
type IOError struct {
	Detail string
	Err    error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected I/O error: %s: %v", e.Detail, e.Err)
	}
	return "unexpected I/O error: " + e.Detail
}

func (e *IOError) Unwrap() error { return e.Err }

// IsCancelled reports whether err marks a cancelled load.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrLoadCancelled)
}

// ErrorTitle returns a short heading for err, used by error dialogs.
func ErrorTitle(err error) string {
	var openErr *FileOpenError
	var ioErr *IOError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoFileSelected):
		return "No File Selected"
	case errors.Is(err, ErrLoadCancelled):
		return "Load Cancelled"
	case errors.As(err, &openErr):
		return "Cannot Open File"
	case errors.As(err, &ioErr):
		return "Read Error"
	default:
		return "Error"
	}
}
