// Package schema has models and shared types for all parts of expendo.
package schema

import "time"

// DateFormat is the date representation used in tables and CSV output.
const DateFormat = "02.01.06"

// IssueEvent is a single changelog entry of a tracker issue, reduced to the
// fields the analytics engine cares about. Events are kept reverse-sorted by
// date (most recent first), matching the order the data engine consumes them in.
type IssueEvent struct {
	Date  time.Time `json:"date"`
	Kind  string    `json:"kind"`  // estimation, spent, status or resolution
	Value string    `json:"value"` // status/resolution key; empty for numeric kinds
	Hours float64   `json:"hours"` // parsed hour value for estimation/spent events
}

// Event kinds recorded in an issue changelog.
const (
	EventEstimation = "estimation"
	EventSpent      = "spent"
	EventStatus     = "status"
	EventResolution = "resolution"
)

// Issue is a tracker issue with the changelog events needed for burn analytics.
type Issue struct {
	Key        string       `json:"key"`
	Summary    string       `json:"summary"`
	Type       string       `json:"type"` // task, bug, epic, ...
	Queue      string       `json:"queue"`
	Components []string     `json:"components"`
	Tags       []string     `json:"tags"`
	Status     string       `json:"status"`
	Resolution string       `json:"resolution"` // empty when unresolved
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Events     []IssueEvent `json:"events"`
}

// SeriesSet is a date-indexed table of numeric series, one row per category.
// Rows are equal-length slices aligned with Dates. Values are hours, or
// per-period deltas when DV is set.
type SeriesSet struct {
	Dates []time.Time          `json:"dates"`
	Rows  map[string][]float64 `json:"rows"`
	Kind  SeriesKind           `json:"kind"`
	Unit  string               `json:"unit"` // "hrs" or "hrs/dt"
	DV    bool                 `json:"dv"`   // values are already differenced
}

// Row returns the values of a named row and whether it exists.
func (s *SeriesSet) Row(name string) ([]float64, bool) {
	values, ok := s.Rows[name]
	return values, ok
}

// RowNames returns the row names in no particular order.
func (s *SeriesSet) RowNames() []string {
	names := make([]string, 0, len(s.Rows))
	for name := range s.Rows {
		names = append(names, name)
	}
	return names
}

// Step returns the period between consecutive grid dates, or zero for
// single-date sets.
func (s *SeriesSet) Step() time.Duration {
	if len(s.Dates) < 2 {
		return 0
	}
	return s.Dates[1].Sub(s.Dates[0])
}

// CategoryInfo describes the valid category names of an issue set.
type CategoryInfo struct {
	Queues     []string `json:"queues"`
	Components []string `json:"components"`
	Tags       []string `json:"tags"`
}

// CacheStatus holds status information about the issue-event cache.
type CacheStatus struct {
	Backend      DatabaseBackend `json:"backend"`
	Connected    bool            `json:"connected"`
	EntryCount   int64           `json:"entry_count"`
	OldestEntry  time.Time       `json:"oldest_entry"`
	NewestEntry  time.Time       `json:"newest_entry"`
	DatabasePath string          `json:"database_path,omitempty"`
}
