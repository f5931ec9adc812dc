// Package logtail reads the end of the sign's log file for the UI's log
// pane.
//
// # Overview
//
// The sign logs through internal/logging, either to stderr or to a file.
// When a file is in use the terminal UI can show its last few lines below
// the panel. This package does the reading; it has no state between calls.
//
// # Reading
//
// Read streams the whole file once and keeps a ring of the last maxLines
// lines at or above minLevel, so memory stays bounded by the pane size
// however large the file grows. Blank lines are skipped. A missing file,
// an empty path or "-" (stderr) yields no lines and no error, so the pane
// simply stays empty until the first record is written.
//
//	lines, err := logtail.Read(cfg.LogFile, 8, slog.LevelInfo)
//	for _, l := range lines {
//		// l.Text is the raw record, l.Level its parsed level
//	}
//
// Lines longer than 1 MiB stop the scan with an error, which the UI shows
// in place of the tail.
//
// # Levels
//
// ParseLevel recovers the level of one record in either format
// internal/logging writes:
//
//	15:04:05.000 WRN remote poll failed error=...     text handler
//	{"time":"...","level":"WARN","msg":"..."}          JSON handler
//
// Text records carry a three-letter tag in the second field (DBG, INF,
// WRN, ERR). JSON records carry slog's level name. Anything unrecognised
// counts as info, so foreign lines are shown rather than dropped.
//
// # Testing
//
// logtail_test.go writes temporary files in both formats and checks the
// ring order, the level filter and the missing-file case.
package logtail
