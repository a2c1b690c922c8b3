package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/lector/internal/domain"
)

// Controller starts loads, one goroutine per request, and tracks the ones in flight.
type Controller struct {
	reader   *ChunkedReader
	selector domain.FileSelector
	recorder domain.LoadRecorder
	logger   *slog.Logger

	mu     sync.Mutex
	active map[string]*Load
	wg     sync.WaitGroup
}

// Option configures a Controller
type Option func(*Controller)

// WithSelector sets the collaborator used when LoadAsync gets an empty path
func WithSelector(sel domain.FileSelector) Option {
	return func(c *Controller) { c.selector = sel }
}

// WithRecorder sets where finished loads are reported (recent-files history)
func WithRecorder(rec domain.LoadRecorder) Option {
	return func(c *Controller) { c.recorder = rec }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates a controller around reader
func NewController(reader *ChunkedReader, opts ...Option) *Controller {
	c := &Controller{
		reader: reader,
		active: make(map[string]*Load),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.reader == nil {
		c.reader = NewChunkedReader(DefaultChunkSize, c.logger)
	}
	return c
}

// LoadAsync starts loading input and returns immediately with the load's handle.
//
// An empty input is resolved through the FileSelector first (this call blocks
// while the user chooses). If nothing is chosen, or the input cannot be
// resolved to a local path, the returned Load has already failed: its single
// failed event is buffered before LoadAsync returns and no progress is emitted.
//
// Cancelling ctx cancels the load, as does Load.Cancel or Controller.Cancel.
func (c *Controller) LoadAsync(ctx context.Context, input string) *Load {
	if strings.TrimSpace(input) == "" {
		selected, err := c.selectFile(ctx)
		if err != nil {
			c.logger.Warn("file selection failed", "error", err)
			return c.failedLoad("", fmt.Errorf("%w: %v", domain.ErrNoFileSelected, err))
		}
		if selected == "" {
			c.logger.Debug("file selection dismissed")
			return c.failedLoad("", domain.ErrNoFileSelected)
		}
		input = selected
	}

	path, err := ResolvePath(input)
	if err != nil {
		c.logger.Warn("cannot resolve path", "input", input, "error", err)
		return c.failedLoad(input, err)
	}

	loadCtx, cancel := context.WithCancel(ctx)
	l := newLoad(uuid.NewString(), path, cancel)

	c.mu.Lock()
	c.active[l.ID] = l
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(loadCtx, l)

	return l
}

// Load is the synchronous form of LoadAsync: it relays every event to obs
// and returns the terminal result.
func (c *Controller) Load(ctx context.Context, input string, obs domain.LoadObserver) domain.LoadResult {
	return Relay(c.LoadAsync(ctx, input), obs)
}

// Cancel cancels every load currently in flight on this controller.
// It is a no-op when nothing is loading.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.active {
		l.Cancel()
	}
}

// ActiveCount returns the number of loads in flight
func (c *Controller) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// Wait blocks until every started load goroutine has exited
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) selectFile(ctx context.Context) (string, error) {
	if c.selector == nil {
		return "", nil
	}
	return c.selector.SelectFile(ctx)
}

// failedLoad returns a load that is already terminal with err.
func (c *Controller) failedLoad(path string, err error) *Load {
	l := newLoad(uuid.NewString(), path, nil)
	l.rejected = true
	l.finish("", err)
	return l
}

func (c *Controller) run(ctx context.Context, l *Load) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		delete(c.active, l.ID)
		c.mu.Unlock()
	}()
	defer l.cancel()

	start := time.Now()
	c.logger.Info("load started", "loadID", l.ID, "path", l.Path, "chunkSize", c.reader.ChunkSize())

	content, err := c.read(ctx, l)
	// Record first so the history is current by the time the terminal event is seen
	c.record(l, err)
	l.finish(content, err)

	switch {
	case err == nil:
		c.logger.Info("load completed", "loadID", l.ID, "path", l.Path,
			"bytes", l.totalBytes, "duration", time.Since(start))
	case domain.IsCancelled(err):
		c.logger.Info("load cancelled", "loadID", l.ID, "path", l.Path, "percent", l.lastPercent)
	default:
		c.logger.Error("load failed", "loadID", l.ID, "path", l.Path, "error", err)
	}
}

// read runs the chunked reader, turning a panic into an IOError so the load
// still terminates with a failed event.
func (c *Controller) read(ctx context.Context, l *Load) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			content = ""
			err = &domain.IOError{Detail: fmt.Sprintf("panic while loading %s: %v", l.Path, r)}
		}
	}()
	return c.reader.ReadFile(ctx, l.Path, l.progress)
}

func (c *Controller) record(l *Load, err error) {
	if c.recorder == nil {
		return
	}

	entry := domain.RecentFile{
		Path:     l.Path,
		Size:     l.totalBytes,
		LoadedAt: time.Now(),
		Outcome:  domain.OutcomeCompleted,
		Percent:  max(l.lastPercent, 0),
	}
	switch {
	case err == nil:
		entry.Percent = 100
	case domain.IsCancelled(err):
		entry.Outcome = domain.OutcomeCancelled
	default:
		entry.Outcome = domain.OutcomeFailed
	}

	if recErr := c.recorder.RecordLoad(entry); recErr != nil {
		c.logger.Warn("failed to record load", "path", l.Path, "error", recErr)
	}
}
