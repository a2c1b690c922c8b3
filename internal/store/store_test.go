package store

import (
	"testing"
	"time"

	"github.com/mmcdole/lector/internal/domain"
)

func newStores(t *testing.T) map[string]*RecentStore {
	t.Helper()
	disk, err := NewRecentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRecentStore() error = %v", err)
	}
	t.Cleanup(func() { disk.Close() })

	mem, err := NewRecentStore("")
	if err != nil {
		t.Fatalf("NewRecentStore(\"\") error = %v", err)
	}
	return map[string]*RecentStore{"bolt": disk, "memory": mem}
}

func entryAt(path string, minutesAgo int) domain.RecentFile {
	return domain.RecentFile{
		Path:     path,
		Size:     int64(len(path)),
		LoadedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(minutesAgo) * time.Minute),
		Outcome:  domain.OutcomeCompleted,
		Percent:  100,
	}
}

func paths(entries []domain.RecentFile) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestRecentStore_SaveAndGetNewestFirst(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, e := range []domain.RecentFile{
				entryAt("/logs/old.log", 30),
				entryAt("/notes/new.md", 1),
				entryAt("/data/mid.csv", 10),
			} {
				if err := s.SaveRecent(e); err != nil {
					t.Fatalf("SaveRecent(%s) error = %v", e.Path, err)
				}
			}

			got, err := s.GetRecent()
			if err != nil {
				t.Fatalf("GetRecent() error = %v", err)
			}
			want := []string{"/notes/new.md", "/data/mid.csv", "/logs/old.log"}
			if g := paths(got); len(g) != len(want) || g[0] != want[0] || g[1] != want[1] || g[2] != want[2] {
				t.Errorf("GetRecent() = %v, want %v", g, want)
			}
		})
	}
}

func TestRecentStore_SaveReplacesSamePath(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			first := entryAt("/a.txt", 10)
			first.Outcome = domain.OutcomeCancelled
			first.Percent = 40
			second := entryAt("/a.txt", 0)

			s.SaveRecent(first)
			s.SaveRecent(second)

			got, _ := s.GetRecent()
			if len(got) != 1 {
				t.Fatalf("GetRecent() returned %d entries, want 1", len(got))
			}
			if got[0].Outcome != domain.OutcomeCompleted || got[0].Percent != 100 {
				t.Errorf("entry = %+v, want the replacement", got[0])
			}
		})
	}
}

func TestRecentStore_SaveRejectsEmptyPath(t *testing.T) {
	s, _ := NewRecentStore("")
	if err := s.SaveRecent(domain.RecentFile{}); err == nil {
		t.Error("SaveRecent() with empty path error = nil, want error")
	}
}

func TestRecentStore_RemoveTrimClear(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			for i, p := range []string{"/1", "/2", "/3", "/4", "/5"} {
				s.SaveRecent(entryAt(p, i)) // "/1" newest
			}

			if err := s.RemoveRecent("/2"); err != nil {
				t.Fatalf("RemoveRecent() error = %v", err)
			}
			if err := s.Trim(2); err != nil {
				t.Fatalf("Trim() error = %v", err)
			}
			got, _ := s.GetRecent()
			if g := paths(got); len(g) != 2 || g[0] != "/1" || g[1] != "/3" {
				t.Errorf("after remove+trim = %v, want [/1 /3]", g)
			}

			if err := s.Trim(0); err != nil {
				t.Fatalf("Trim(0) error = %v", err)
			}
			if got, _ := s.GetRecent(); len(got) != 2 {
				t.Errorf("Trim(0) removed entries, have %d", len(got))
			}

			if err := s.Clear(); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if got, _ := s.GetRecent(); len(got) != 0 {
				t.Errorf("after Clear() have %d entries, want 0", len(got))
			}
		})
	}
}

func TestRecentStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewRecentStore(dir)
	if err != nil {
		t.Fatalf("NewRecentStore() error = %v", err)
	}
	if !s.Persistent() {
		t.Error("Persistent() = false for a directory-backed store")
	}
	s.SaveRecent(entryAt("/kept.txt", 0))
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewRecentStore(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, _ := reopened.GetRecent()
	if len(got) != 1 || got[0].Path != "/kept.txt" || got[0].Size != int64(len("/kept.txt")) {
		t.Errorf("reopened entries = %+v, want /kept.txt", got)
	}
}

func TestRecentStore_MemoryOnly(t *testing.T) {
	s, _ := NewRecentStore("")
	if s.Persistent() {
		t.Error("Persistent() = true for memory-only store")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRecentStore_WarmReadsComeFromCache(t *testing.T) {
	dir := t.TempDir()

	s, err := NewRecentStore(dir)
	if err != nil {
		t.Fatalf("NewRecentStore() error = %v", err)
	}
	s.SaveRecent(entryAt("/a.txt", 1))
	s.SaveRecent(entryAt("/b.txt", 0))

	if got, _ := s.GetRecent(); len(got) != 2 {
		t.Fatalf("GetRecent() = %d entries, want 2", len(got))
	}
	if err := s.RemoveRecent("/a.txt"); err != nil {
		t.Fatalf("RemoveRecent() error = %v", err)
	}

	// The bucket is promoted, so reads no longer need the database
	if err := s.db.Close(); err != nil {
		t.Fatalf("db.Close() error = %v", err)
	}
	got, err := s.GetRecent()
	if err != nil {
		t.Fatalf("GetRecent() after promotion error = %v", err)
	}
	if len(got) != 1 || got[0].Path != "/b.txt" {
		t.Errorf("cached entries = %+v, want only /b.txt", got)
	}

	reopened, err := NewRecentStore(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	got, _ = reopened.GetRecent()
	if len(got) != 1 || got[0].Path != "/b.txt" {
		t.Errorf("reopened entries = %+v, want only /b.txt", got)
	}
}
