package loader

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mmcdole/lector/internal/domain"
)

// eventBuffer fits 101 distinct percentages plus the terminal event, so the
// worker never blocks on a consumer that stopped reading.
const eventBuffer = 102

// Load is the handle for one in-flight load request.
// Each Load owns its own cancellation; cancelling one never affects another.
type Load struct {
	ID   string
	Path string

	events chan domain.LoadEvent
	done   chan struct{}
	cancel context.CancelFunc

	state    atomic.Int32
	rejected bool // failed before any read started
	finished sync.Once
	result   domain.LoadResult // written once, before done is closed

	// Written by the worker only
	lastPercent int
	totalBytes  int64
}

func newLoad(id, path string, cancel context.CancelFunc) *Load {
	if cancel == nil {
		cancel = func() {}
	}
	l := &Load{
		ID:          id,
		Path:        path,
		events:      make(chan domain.LoadEvent, eventBuffer),
		done:        make(chan struct{}),
		cancel:      cancel,
		lastPercent: -1,
	}
	l.state.Store(int32(domain.StateLoading))
	return l
}

// Events returns the ordered event stream. Progress events come first, then
// exactly one completed or failed event, then the channel is closed.
func (l *Load) Events() <-chan domain.LoadEvent {
	return l.events
}

// Done is closed once the load reached a terminal state
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// State returns the current lifecycle state
func (l *Load) State() domain.LoadState {
	return domain.LoadState(l.state.Load())
}

// Cancel requests cancellation. It takes effect at the next chunk boundary
// and is a no-op once the load is terminal.
func (l *Load) Cancel() {
	if l.State().IsTerminal() {
		return
	}
	l.cancel()
}

// Rejected reports whether the request failed before reading began: nothing
// was selected or the input did not resolve to a local file.
func (l *Load) Rejected() bool {
	return l.rejected
}

// Result returns the terminal result, and false while the load is still running
func (l *Load) Result() (domain.LoadResult, bool) {
	select {
	case <-l.done:
		return l.result, true
	default:
		return domain.LoadResult{}, false
	}
}

// Wait blocks until the load is terminal or ctx is done.
func (l *Load) Wait(ctx context.Context) (domain.LoadResult, error) {
	select {
	case <-l.done:
		return l.result, nil
	case <-ctx.Done():
		return domain.LoadResult{}, ctx.Err()
	}
}

// progress forwards a chunk's progress, dropping repeats of the last percentage.
func (l *Load) progress(p Progress) {
	l.totalBytes = p.TotalBytes
	if p.Percent == l.lastPercent {
		return
	}
	l.lastPercent = p.Percent
	l.events <- domain.LoadEvent{
		LoadID:     l.ID,
		Path:       l.Path,
		Kind:       domain.EventProgress,
		Percent:    p.Percent,
		BytesRead:  p.BytesRead,
		TotalBytes: p.TotalBytes,
	}
}

// finish publishes the terminal event exactly once and closes the stream.
func (l *Load) finish(content string, err error) {
	l.finished.Do(func() {
		ev := domain.LoadEvent{LoadID: l.ID, Path: l.Path, TotalBytes: l.totalBytes}
		switch {
		case err == nil:
			ev.Kind = domain.EventCompleted
			ev.Content = content
			l.result = domain.LoadResult{Content: content}
			l.state.Store(int32(domain.StateCompleted))
		case domain.IsCancelled(err):
			ev.Kind = domain.EventFailed
			ev.Err = err
			l.result = domain.LoadResult{Err: err}
			l.state.Store(int32(domain.StateCancelled))
		default:
			ev.Kind = domain.EventFailed
			ev.Err = err
			l.result = domain.LoadResult{Err: err}
			l.state.Store(int32(domain.StateFailed))
		}
		// done closes first so a consumer that drained Events sees the result
		close(l.done)
		l.events <- ev
		close(l.events)
	})
}
