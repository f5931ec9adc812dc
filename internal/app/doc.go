// Package app is the composition root of the marquee sign.
//
// # Overview
//
// This package turns a config.Config into a running sign: it opens the
// persistent image, restores the cached sentences, builds the remote client
// and the link monitor, and hands them to the scheduler. It also owns the
// process lifecycle: the order things start in, how the terminal UI and
// the scheduler stop each other, and the final save on exit.
//
// # Architecture
//
// Build wires the pieces together without starting anything:
//
//	config.Load()          panel, link, cache and remote settings
//	nvstore.OpenFile()     persistent image; cache.Load restores the table
//	remote.NewClient()     REST source for the sentence tree
//	remotesync.New()       targeted fetch against the source
//	link.NewMonitor()      Wi-Fi health state machine
//	scheduler.New()        cooperative loop driving all of the above
//	ui.NewPanel()          terminal stand-in for the LED matrix
//
// Deps lets tests replace the host collaborators (the remote source, the
// radio and the provisioning portal). Nil fields get the defaults: the
// REST client with remote.timeout applied, link.HostRadio probing the
// database address, and link.FilePortal waiting for a credentials file.
//
// # Components
//
//   - app.go: Build, Run and Shutdown
//   - poller.go: StartScheduler, which joins the network and runs the loop
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ load config, set up logging
//	└──────┬───────┘
//	       │
//	       ├─────> Build()             wire the sign, restore the cache
//	       ├─────> StartScheduler()    background goroutine
//	       │         ├─> Monitor.Start()   join the network (may block)
//	       │         └─> Scheduler.Run()   tick every frame period
//	       └─────> ui.Run()            terminal panel (blocks)
//
//	Scheduler tick (one goroutine):
//	┌─────────────────────────────────────────────┐
//	│ render frame → Panel → state.Store          │
//	│ link tick when due (OnUp/OnDown hooks)      │
//	│ collect a finished poll, apply to the model │
//	│ start the next poll on a worker goroutine   │
//	│ flush the cache when the debounce allows    │
//	│ Observer(Status) → state.Store              │
//	└─────────────────────────────────────────────┘
//
// The terminal UI never talks to the scheduler directly. The panel and the
// scheduler's observer publish into a state.Store, and the UI polls
// snapshots on its own tick. The one call in the other direction is the
// refresh key, wired to Scheduler.RequestSync, which only sets a flag.
//
// # Link Hooks
//
// The link monitor reports transitions through two hooks. OnUp resets the
// syncer and clears the scheduler's backoff so the first poll after a
// reconnect runs at once. OnDown marks the syncer unavailable; a poll
// still in flight is cancelled by the scheduler on its next tick.
//
// # Headless Mode
//
// With Options.Headless the UI is skipped and logs go to stderr. Run then
// waits for the scheduler alone, which is how the sign runs under a
// supervisor.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Logging or storage setup failure
//   - Remote URL that cannot be parsed
//   - link.ErrRestart when the network could not be joined within the
//     provisioning window
//
// Recoverable errors (logged, the sign keeps running):
//   - Remote poll failures, retried with capped backoff
//   - Cache commit failures, retried after a delay
//   - A broken UI preferences file, replaced by defaults
//
// cmd/marquee maps link.ErrRestart to a distinct exit code so a supervisor
// can restart the process.
//
// # Shutdown
//
// Cancelling the context, quitting the UI or a restart request all end in
// the same sequence: stop the scheduler, wait for its goroutine, then call
// Shutdown. Shutdown writes the table once more if it is dirty, so content
// fetched inside the debounce window survives a clean exit. It must only
// run after the scheduler has stopped, since the model has a single owner.
//
// # Testing
//
// app_test.go builds a sign with a remote.MemorySource, a stub radio that
// is always associated and a stub portal, runs it briefly and checks what
// reached the display and the image on disk.
package app
