package history

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mmcdole/lector/internal/domain"
	"github.com/mmcdole/lector/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryStore(t *testing.T) *store.RecentStore {
	t.Helper()
	s, err := store.NewRecentStore("")
	if err != nil {
		t.Fatalf("NewRecentStore() error = %v", err)
	}
	return s
}

func entry(path string, at time.Time) domain.RecentFile {
	return domain.RecentFile{Path: path, LoadedAt: at, Outcome: domain.OutcomeCompleted, Percent: 100}
}

func TestService_RecordLoadTrims(t *testing.T) {
	svc := NewService(memoryStore(t), 3, true, testLogger())
	base := time.Now()

	for i := 0; i < 5; i++ {
		if err := svc.RecordLoad(entry(fmt.Sprintf("/f%d.txt", i), base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("RecordLoad() error = %v", err)
		}
	}

	got, err := svc.Recent("")
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() = %d entries, want 3", len(got))
	}
	if got[0].Path != "/f4.txt" || got[2].Path != "/f2.txt" {
		t.Errorf("Recent() order = %s..%s, want /f4.txt../f2.txt", got[0].Path, got[2].Path)
	}
}

func TestService_RecentFilters(t *testing.T) {
	svc := NewService(memoryStore(t), 0, true, testLogger())
	now := time.Now()
	svc.RecordLoad(entry("/logs/app.log", now))
	svc.RecordLoad(entry("/docs/readme.md", now.Add(-time.Minute)))

	got, _ := svc.Recent("readme")
	if len(got) != 1 || got[0].Path != "/docs/readme.md" {
		t.Errorf("Recent(readme) = %+v", got)
	}
}

func TestService_Disabled(t *testing.T) {
	s := memoryStore(t)
	svc := NewService(s, 5, false, testLogger())

	if svc.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if err := svc.RecordLoad(entry("/a", time.Now())); err != nil {
		t.Errorf("RecordLoad() error = %v", err)
	}
	if got, _ := s.GetRecent(); len(got) != 0 {
		t.Errorf("disabled service wrote %d entries", len(got))
	}

	if NewService(nil, 5, true, nil).Enabled() {
		t.Error("service without a store should be disabled")
	}
}

func TestService_ForgetAndClear(t *testing.T) {
	svc := NewService(memoryStore(t), 10, true, testLogger())
	now := time.Now()
	svc.RecordLoad(entry("/a", now))
	svc.RecordLoad(entry("/b", now.Add(time.Second)))

	if err := svc.Forget("/a"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	got, _ := svc.Recent("")
	if len(got) != 1 || got[0].Path != "/b" {
		t.Errorf("after Forget = %+v", got)
	}

	if err := svc.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got, _ := svc.Recent(""); len(got) != 0 {
		t.Errorf("after Clear = %d entries", len(got))
	}
}

type failingStore struct {
	domain.RecentStore
}

var errDisk = errors.New("disk full")

func (failingStore) SaveRecent(domain.RecentFile) error { return errDisk }

func TestService_RecordLoadError(t *testing.T) {
	svc := NewService(failingStore{}, 5, true, testLogger())
	if err := svc.RecordLoad(entry("/a", time.Now())); !errors.Is(err, errDisk) {
		t.Errorf("RecordLoad() error = %v, want %v", err, errDisk)
	}
}
