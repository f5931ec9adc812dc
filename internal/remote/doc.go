// Package remote provides the client for the sign's remote data source.
//
// # Overview
//
// The data source is a hierarchical JSON key/value database. Each node is
// addressed by a slash-separated path and read over REST:
//
//	GET {base}/display/sentences/0.json       -> "Hello"
//	GET {base}/display/sentences/3.json       -> null
//	GET {base}/display/selectedSentence.json  -> 2
//
// This is the Firebase Realtime Database REST dialect; the marquee-data
// development server speaks the same dialect.
//
// # Value Semantics
//
//   - GetString: null or missing returns "" with a nil error. The sync
//     engine treats "" as the end of the contiguous sentence list.
//   - GetInt: null or missing returns ErrNoValue.
//   - Any transport failure, HTTP status >= 400 or malformed JSON is an
//     error. The caller decides whether it aborts the poll.
//
// # Authentication
//
// When an auth token is configured it is sent as the auth query parameter,
// matching the database's legacy secret / ID token scheme.
//
// # Testing
//
// MemorySource implements Source in-process with per-path failure
// injection and read counters, which the sync and scheduler tests use to
// assert request budgets.
package remote
