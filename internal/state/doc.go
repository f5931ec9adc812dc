// Package state shares the rendered panel and scheduler status between the
// scheduler goroutine and the terminal UI.
//
// # Overview
//
// The sign has one goroutine that owns the content model, the link state
// machine and the cache flusher: the scheduler. The terminal UI runs on
// Bubble Tea's own goroutine. Store is the only place the two meet. The
// scheduler writes into it after every refresh and every tick, and the UI
// reads a copy on its redraw tick.
//
// # Architecture
//
//	Producer (scheduler):           Consumer (UI):
//	┌──────────────────────┐       ┌──────────────────┐
//	│ Panel.Refresh()      │       │                  │
//	│   → UpdateFrame()    │──────→│ store.Snapshot() │
//	│ Observer(Status)     │(mutex)│      ↓           │
//	│   → UpdateStatus()   │       │ render LED panel │
//	└──────────────────────┘       └──────────────────┘
//
// There are two writers on the same goroutine. ui.Panel is the scheduler's
// marquee.Driver; its Refresh publishes the finished frame rows. The
// scheduler's Observer publishes a scheduler.Status once the tick is done.
// Both run on the scheduler goroutine, so a frame and its status never
// interleave with another tick's.
//
// # Core Types
//
// Store:
//   - Zero value is ready to use
//   - sync.RWMutex held only while copying
//   - Single producer (scheduler), any number of readers
//
// Snapshot:
//   - Rows: the last refreshed frame, one string per text row
//   - Frames: how many refreshes have been published
//   - Status: the last scheduler.Status (link, content, sync health)
//   - HasStatus: false until the first tick completes
//   - LastUpdated: wall time of the last frame
//
// # Update Semantics
//
// The two update paths touch disjoint fields:
//
//	store.UpdateFrame(rows)
//	→ snapshot.Rows = copy(rows)
//	→ snapshot.Frames++
//	→ snapshot.LastUpdated = now
//
//	store.UpdateStatus(st)
//	→ snapshot.Status = st
//	→ snapshot.HasStatus = true
//
// A failed remote poll is not a separate call. It shows up in the status
// as SyncFailures and LastError, while Rows keep showing whatever the
// scheduler last drew. IsOffline reports two or more consecutive failures,
// which the UI uses to colour the link badge.
//
// # Copying
//
// Rows are cloned on the way in and again on the way out, so a snapshot
// the UI holds across several redraws never shares a slice with the store.
// Status is a plain value and is copied with the struct.
//
// # Timing
//
// The scheduler never waits on the UI. A write takes the lock for the
// length of a slice copy, at most a few dozen rows. The UI polls on its
// own period (the scroll step by default), so frames published between
// two polls are simply skipped; Frames still counts them.
//
// # Usage
//
//	store := &state.Store{}
//	panel := ui.NewPanel(64, 16, store)   // UpdateFrame on Refresh
//	sched := scheduler.New(scheduler.Options{
//		Driver:   panel,
//		Observer: store.UpdateStatus,
//		// ...
//	})
//
//	// UI goroutine:
//	snap := store.Snapshot()
//	if snap.HasStatus && snap.IsOffline() {
//		// show the link badge as offline
//	}
//
// # Testing
//
// Tests construct a zero Store, publish rows and statuses directly, and
// assert on Snapshot. A Snapshot taken before any update is the zero value
// with nil Rows.
package state
