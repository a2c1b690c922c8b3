package loader

import "github.com/mmcdole/lector/internal/domain"

// Relay drains l into obs in event order and returns the terminal result.
// A nil observer only waits for the result.
func Relay(l *Load, obs domain.LoadObserver) domain.LoadResult {
	if obs == nil {
		obs = domain.NoOpObserver{}
	}
	var res domain.LoadResult
	for ev := range l.Events() {
		switch ev.Kind {
		case domain.EventProgress:
			obs.OnProgress(ev.Percent)
		case domain.EventCompleted:
			obs.OnCompleted(ev.Content)
			res = domain.LoadResult{Content: ev.Content}
		case domain.EventFailed:
			obs.OnFailed(ev.Err)
			res = domain.LoadResult{Err: ev.Err}
		}
	}
	return res
}

// FuncObserver adapts plain functions to domain.LoadObserver. Nil fields are skipped.
type FuncObserver struct {
	Progress  func(percent int)
	Completed func(content string)
	Failed    func(err error)
}

func (f FuncObserver) OnProgress(percent int) {
	if f.Progress != nil {
		f.Progress(percent)
	}
}

func (f FuncObserver) OnCompleted(content string) {
	if f.Completed != nil {
		f.Completed(content)
	}
}

func (f FuncObserver) OnFailed(err error) {
	if f.Failed != nil {
		f.Failed(err)
	}
}
