// Package store keeps a history of finished solver runs.
package store

import (
	"errors"
	"time"
)

// DefaultDBPath is the default location of the run history database,
// relative to the working directory.
const DefaultDBPath = ".planner/runs.db"

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("store: run not found")

// Run is one finished local-search phase.
type Run struct {
	ID            int64
	PhaseID       string
	Problem       string
	Seed          uint64
	Steps         int
	Evaluated     int
	Applied       int
	StartingScore float64
	BestScore     float64
	Reason        string
	ElapsedMS     int64
	CreatedAt     time.Time
}

// Filter narrows ListRuns. Zero values match everything.
type Filter struct {
	Problem string
	Limit   int
}

// Store is the persistence facade. Implementations are SQLite or in-memory
// and are safe for concurrent use.
type Store interface {
	SaveRun(r *Run) (int64, error)
	GetRun(id int64) (*Run, error)
	// ListRuns returns matching runs, newest first.
	ListRuns(f Filter) ([]*Run, error)
	Close() error
}
