package state

import (
	"sync"
	"testing"
	"time"

	"github.com/five82/marquee/internal/scheduler"
)

func TestStore_UpdateFrameAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	rows := []string{"  12:30  ", "Hello   "}
	s.UpdateFrame(rows)
	rows[0] = "mutated"

	snap := s.Snapshot()
	if len(snap.Rows) != 2 || snap.Rows[0] != "  12:30  " {
		t.Fatalf("snapshot rows = %#v, want copy of the frame", snap.Rows)
	}
	if snap.Frames != 1 {
		t.Fatalf("Frames = %d, want 1", snap.Frames)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Rows[1] = "changed"
	if s.Snapshot().Rows[1] != "Hello   " {
		t.Fatalf("Snapshot should clone rows")
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	var s Store
	if s.Snapshot().HasStatus {
		t.Fatal("HasStatus = true before any update")
	}

	s.UpdateStatus(scheduler.Status{Count: 3, Selected: 1})
	snap := s.Snapshot()
	if !snap.HasStatus || snap.Status.Count != 3 || snap.Status.Selected != 1 {
		t.Fatalf("status = %+v, want count 3 selected 1", snap.Status)
	}
}

func TestSnapshot_IsOffline(t *testing.T) {
	tests := []struct {
		failures int
		want     bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{5, true},
	}
	for _, tt := range tests {
		snap := Snapshot{Status: scheduler.Status{SyncFailures: tt.failures}}
		if got := snap.IsOffline(); got != tt.want {
			t.Errorf("IsOffline() with %d failures = %v, want %v", tt.failures, got, tt.want)
		}
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.UpdateFrame([]string{"frame"})
			s.UpdateStatus(scheduler.Status{Count: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = s.Snapshot()
		}
	}()
	wg.Wait()
	if got := s.Snapshot().Frames; got != 200 {
		t.Fatalf("Frames = %d, want 200", got)
	}
}
