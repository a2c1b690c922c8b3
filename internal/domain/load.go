package domain

// LoadState is the lifecycle state of a single load.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateCancelled
	StateCompleted
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateCancelled:
		return "cancelled"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true once a load can no longer change state
func (s LoadState) IsTerminal() bool {
	return s == StateCancelled || s == StateCompleted || s == StateFailed
}

// LoadRequest asks for one file to be loaded.
// An empty Path means "ask the FileSelector".
type LoadRequest struct {
	Path string
}

// EventKind distinguishes progress from the two terminal events.
type EventKind int

const (
	EventProgress EventKind = iota
	EventCompleted
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadEvent is one notification on a load's event stream.
type LoadEvent struct {
	LoadID  string
	Path    string
	Kind    EventKind
	Percent int    // EventProgress only, 0..100
	Content string // EventCompleted only
	Err     error  // EventFailed only

	BytesRead  int64
	TotalBytes int64
}

// IsTerminal returns true for completed and failed events
func (e LoadEvent) IsTerminal() bool {
	return e.Kind == EventCompleted || e.Kind == EventFailed
}

// Message returns the human-readable failure message ("" unless failed)
func (e LoadEvent) Message() string {
	if e.Kind != EventFailed || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// LoadResult is the terminal outcome of a load: Content on success, Err otherwise.
type LoadResult struct {
	Content string
	Err     error
}

// OK returns true if the load completed
func (r LoadResult) OK() bool {
	return r.Err == nil
}
