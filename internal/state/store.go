package state

import (
	"sync"
	"time"

	"github.com/five82/marquee/internal/scheduler"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	// Rows is the last refreshed panel frame, one string per text row.
	Rows        []string
	Frames      int
	Status      scheduler.Status
	HasStatus   bool
	LastUpdated time.Time
}

// IsOffline returns true when remote polls have failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.Status.SyncFailures >= 2
}

// Store coordinates the scheduler goroutine (producer) and the UI
// (consumer).
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateFrame replaces the panel frame.
func (s *Store) UpdateFrame(rows []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Rows = cloneRows(rows)
	s.snapshot.Frames++
	s.snapshot.LastUpdated = time.Now()
}

// UpdateStatus records the scheduler status. It has the scheduler.Observer
// signature.
func (s *Store) UpdateStatus(st scheduler.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Status = st
	s.snapshot.HasStatus = true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Rows = cloneRows(s.snapshot.Rows)
	return snap
}

func cloneRows(rows []string) []string {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]string, len(rows))
	copy(dup, rows)
	return dup
}
