// Package content holds the sign's in-memory content state.
//
// # Overview
//
// SentenceTable is a fixed-capacity (10 entries, 80 bytes each) sequence of
// operator-configured sentences with a selected index. Every mutation is
// bounds-checked so the invariant "selected < count whenever count > 0"
// holds after load, sync and targeted fetch alike.
//
// Model wraps the table with the derived DisplayStatus and the dirty
// tracking used by the persistence layer:
//
//	Cache Load ──> Model.Restore ──> Display()
//	Sync Poll  ──> Model.Apply   ──> Dirty=true ──> Flusher
//
// # Display Status
//
// DisplayStatus is a tagged value rather than a string so callers can
// tell a placeholder from a sentence that happens to read "loading":
//
//   - Sentence(text): the selected sentence
//   - Loading: nothing loaded yet
//   - NoData: the remote source holds no sentences
//   - Error(reason): the last poll failed and nothing is cached
//
// # Concurrency
//
// Model is not safe for concurrent use. It is owned by the scheduler
// goroutine; the UI only ever sees copies.
package content
