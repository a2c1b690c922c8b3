package domain

import "context"

// FileSelector resolves a path interactively when none was supplied.
// It returns "" (and a nil error) when the user dismisses the selection.
type FileSelector interface {
	SelectFile(ctx context.Context) (string, error)
}

// ErrorReporter displays a titled error message to the user.
type ErrorReporter interface {
	ShowError(title, message string)
}

// LoadObserver receives the ordered events of one load.
// OnProgress fires zero or more times, then exactly one of OnCompleted/OnFailed.
type LoadObserver interface {
	OnProgress(percent int)
	OnCompleted(content string)
	OnFailed(err error)
}

// LoadRecorder is told about every load that reaches a terminal state.
type LoadRecorder interface {
	RecordLoad(entry RecentFile) error
}

// NoOpObserver discards load events (for testing/batch operations).
type NoOpObserver struct{}

func (NoOpObserver) OnProgress(int)     {}
func (NoOpObserver) OnCompleted(string) {}
func (NoOpObserver) OnFailed(error)     {}
