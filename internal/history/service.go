package history

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/lector/internal/domain"
	"github.com/mmcdole/lector/internal/search"
)

const defaultMaxEntries = 20

// Service records finished loads and serves the recent-files list.
// Implements domain.LoadRecorder.
type Service struct {
	store      domain.RecentStore
	maxEntries int
	enabled    bool
	logger     *slog.Logger

	mu sync.Mutex // serializes save+trim
}

// NewService creates a new history service. A maxEntries <= 0 uses the default.
func NewService(store domain.RecentStore, maxEntries int, enabled bool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Service{store: store, maxEntries: maxEntries, enabled: enabled, logger: logger}
}

// Enabled reports whether loads are being recorded
func (s *Service) Enabled() bool {
	return s.enabled && s.store != nil
}

// RecordLoad saves entry and drops anything beyond the newest maxEntries.
func (s *Service) RecordLoad(entry domain.RecentFile) error {
	if !s.Enabled() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveRecent(entry); err != nil {
		s.logger.Error("failed to save recent file", "error", err, "path", entry.Path)
		return err
	}
	if err := s.store.Trim(s.maxEntries); err != nil {
		s.logger.Error("failed to trim history", "error", err)
		return err
	}
	s.logger.Debug("recorded load", "path", entry.Path, "outcome", entry.Outcome)
	return nil
}

// Recent returns the history newest first, fuzzily filtered by query.
func (s *Service) Recent(query string) ([]domain.RecentFile, error) {
	if !s.Enabled() {
		return nil, nil
	}
	entries, err := s.store.GetRecent()
	if err != nil {
		s.logger.Error("failed to read history", "error", err)
		return nil, err
	}
	return search.FilterRecent(query, entries), nil
}

// Forget removes one path from the history
func (s *Service) Forget(path string) error {
	if !s.Enabled() {
		return nil
	}
	return s.store.RemoveRecent(path)
}

// Clear empties the history
func (s *Service) Clear() error {
	if !s.Enabled() {
		return nil
	}
	s.logger.Info("clearing history")
	return s.store.Clear()
}
