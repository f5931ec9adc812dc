package content

import "time"

// StatusKind tags what the sign should show.
type StatusKind int

const (
	// StatusLoading is shown before the first cache load or successful poll.
	StatusLoading StatusKind = iota
	// StatusSentence carries the selected sentence.
	StatusSentence
	// StatusNoData means the remote source has no sentences.
	StatusNoData
	// StatusError means the table is empty and the last poll failed.
	StatusError
)

// DisplayStatus is the derived value rendered by the sign. Comparisons are
// structural; the sentinel strings only exist in String.
type DisplayStatus struct {
	Kind   StatusKind
	Text   string // sentence text for StatusSentence
	Reason string // failure detail for StatusError
}

// Sentence wraps text as a displayable status.
func Sentence(text string) DisplayStatus {
	return DisplayStatus{Kind: StatusSentence, Text: text}
}

// Loading is the boot status.
func Loading() DisplayStatus { return DisplayStatus{Kind: StatusLoading} }

// NoData is the status for an empty remote table.
func NoData() DisplayStatus { return DisplayStatus{Kind: StatusNoData} }

// Error is the status for a failed poll with nothing cached.
func Error(reason string) DisplayStatus {
	return DisplayStatus{Kind: StatusError, Reason: reason}
}

// String renders the status as display text.
func (d DisplayStatus) String() string {
	switch d.Kind {
	case StatusSentence:
		return d.Text
	case StatusNoData:
		return "no data"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// IsPlaceholder reports whether the status is anything but a sentence.
func (d DisplayStatus) IsPlaceholder() bool {
	return d.Kind != StatusSentence
}

// Model is the in-memory content state shared by sync, persistence and
// rendering. It is owned by a single goroutine.
type Model struct {
	table SentenceTable
	empty DisplayStatus // shown when table is empty

	Dirty       bool
	ChangedAt   time.Time
	LastSavedAt time.Time
}

// NewModel returns a model in the Loading state.
func NewModel() *Model {
	return &Model{empty: Loading()}
}

// Table returns a copy of the current table.
func (m *Model) Table() SentenceTable {
	return m.table
}

// Restore installs a table read from persistent storage. It does not mark
// the model dirty since the data came from the persisted copy.
func (m *Model) Restore(t SentenceTable) {
	m.table = t
}

// Apply installs a table produced by a sync poll. When changed is true the
// model is marked dirty as of now.
func (m *Model) Apply(t SentenceTable, changed bool, now time.Time) {
	m.table = t
	if t.Empty() {
		m.empty = NoData()
	}
	if changed {
		m.Dirty = true
		m.ChangedAt = now
	}
}

// Fail records a failed poll. The table is kept; the failure only becomes
// visible when there is nothing cached to show.
func (m *Model) Fail(reason string) {
	if m.table.Empty() {
		m.empty = Error(reason)
	}
}

// MarkSaved clears the dirty flag after a successful flush.
func (m *Model) MarkSaved(now time.Time) {
	m.Dirty = false
	m.LastSavedAt = now
}

// Display derives what the sign shows.
func (m *Model) Display() DisplayStatus {
	if s, ok := m.table.Current(); ok {
		return Sentence(s)
	}
	return m.empty
}
