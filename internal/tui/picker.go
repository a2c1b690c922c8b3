package tui

import (
	"context"
	"sync/atomic"
)

// PickerSelector bridges the loader's blocking file selection to the TUI.
// SelectFile asks the Model to show the file picker and waits until the
// Model calls Resolve. Implements domain.FileSelector.
type PickerSelector struct {
	requests chan struct{}
	replies  chan string
	pending  atomic.Bool
}

// NewPickerSelector creates a selector with no pending request
func NewPickerSelector() *PickerSelector {
	return &PickerSelector{
		requests: make(chan struct{}),
		replies:  make(chan string, 1),
	}
}

// SelectFile blocks until the picker resolves or ctx ends.
// It returns "" when the user dismissed the picker.
func (p *PickerSelector) SelectFile(ctx context.Context) (string, error) {
	p.pending.Store(true)
	select {
	case p.requests <- struct{}{}:
	case path := <-p.replies:
		// Resolved before the Model saw the request, e.g. on quit
		return path, nil
	case <-ctx.Done():
		if !p.pending.CompareAndSwap(true, false) {
			<-p.replies
		}
		return "", ctx.Err()
	}

	select {
	case path := <-p.replies:
		return path, nil
	case <-ctx.Done():
		if !p.pending.CompareAndSwap(true, false) {
			// Resolve won the race; drop its reply
			<-p.replies
		}
		return "", ctx.Err()
	}
}

// Requests delivers one value per SelectFile call
func (p *PickerSelector) Requests() <-chan struct{} {
	return p.requests
}

// Resolve answers the pending request; "" means dismissed.
// It reports false when nothing was waiting.
func (p *PickerSelector) Resolve(path string) bool {
	if !p.pending.CompareAndSwap(true, false) {
		return false
	}
	p.replies <- path
	return true
}
