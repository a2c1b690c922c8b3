package domain

import "time"

// Outcome labels how a recorded load ended
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// RecentFile is one entry of the recent-files history.
type RecentFile struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	LoadedAt time.Time `json:"loaded_at"`
	Outcome  Outcome   `json:"outcome"`
	Percent  int       `json:"percent"` // last progress seen
}

// RecentStore persists the recent-files history.
type RecentStore interface {
	// GetRecent returns entries newest first
	GetRecent() ([]RecentFile, error)
	SaveRecent(entry RecentFile) error
	RemoveRecent(path string) error
	// Trim keeps only the newest keep entries
	Trim(keep int) error
	Clear() error
	Close() error
}
