// Package ui provides the Bubble Tea terminal view of the LED panel.
//
// # Overview
//
// The view is a terminal stand-in for the sign's LED matrix. The scheduler
// draws into a Panel (a marquee.Driver over terminal cells) which publishes
// each refreshed frame to a state.Store. The Bubble Tea model polls the
// store on a short tick and paints lit cells in the theme's LED colour,
// unlit cells as dim dots, with a link badge above and an optional status
// bar and log tail below.
//
// # Architecture
//
//	Scheduler goroutine           Bubble Tea goroutine
//	┌────────────────────┐       ┌──────────────────────────┐
//	│ Scroller.Render()  │       │ tea.Tick(RefreshEvery)   │
//	│  ├─> Panel.Clear   │       │  └─> frameMsg{snapshot}  │
//	│  ├─> Panel.DrawText│       │ Update() stores snapshot │
//	│  └─> Panel.Refresh │──────→│ View() paints the panel  │
//	│        ↓           │ Store │                          │
//	│   UpdateFrame()    │       │ readLogs() every second  │
//	└────────────────────┘       └──────────────────────────┘
//
// Panel is the only type the scheduler touches. It keeps a grid of
// terminal cells, one column per pixel column and one row per glyph row.
// DrawText clips at the panel edges and Refresh copies the grid into the
// store as text rows. Everything else in the
// package runs on the Bubble Tea goroutine.
//
// # Components
//
//   - panel.go: Panel, the marquee.Driver that publishes frames
//   - app.go: Model, Options, Run and the message plumbing
//   - view.go: header, panel, status bar, log pane and help screens
//   - keys.go: key bindings (bubbles/key)
//   - theme.go: LED colours and the shared chrome styles (lipgloss)
//
// # Messages
//
// The model never blocks in Update. Reading the store and tailing the log
// file happen in tea.Cmds that return messages:
//
//   - frameMsg: a store snapshot taken on the redraw tick; every frameMsg
//     schedules the next one
//   - logsMsg: the last lines of the log file, read at most once a second
//     while the log pane is visible
//
// # Key Bindings
//
//	r    poll the remote source now
//	T    cycle LED colour (persisted to prefs)
//	s    toggle the status bar (persisted to prefs)
//	l    toggle the log pane (tails the log file)
//	h/?  help
//	q    quit
//
// Help is modal: any key closes it. The log pane key does nothing when
// logging goes to stderr, since there is no file to tail.
//
// # Status Bar
//
// The status bar summarises the last scheduler.Status: the content state
// (sentence, loading, no data, error) with count and selection, whether
// unsaved changes are pending, the time of the last save and the last
// poll, and the consecutive failure count with the last error. The link
// badge in the header shows the link state, with the minutes left before
// reprovisioning while the link is down. A connected sign whose polls keep
// failing (state.Snapshot.IsOffline) shows "online, remote unreachable".
//
// # Preferences
//
// Theme and pane toggles are written to the prefs file as they change.
// Saving is best effort: a read-only home directory only loses the
// setting. Options.ThemeName, ShowStatus and ShowLogs carry the loaded
// values in.
//
// # Testing
//
// ui_test.go drives Model.Update with synthetic key and frame messages and
// checks View output. Panel tests draw text and assert on the rows the
// store receives.
package ui
