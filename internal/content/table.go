package content

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// MaxSentences is the fixed capacity of a SentenceTable.
	MaxSentences = 10
	// MaxSentenceBytes is the largest payload a single entry may hold.
	MaxSentenceBytes = 80
)

// ErrIndexOutOfRange is returned by bounds-checked table operations.
var ErrIndexOutOfRange = errors.New("sentence index out of range")

// SentenceTable is a fixed-capacity, bounds-checked sequence of sentences
// plus the index of the one currently selected for display.
//
// The zero value is an empty table. Entries at or beyond Count() are never
// returned. Selected() is always < Count() when Count() > 0, and 0 otherwise.
type SentenceTable struct {
	entries  [MaxSentences]string
	count    int
	selected int
}

// NewSentenceTable builds a table from the given sentences, clamping to
// capacity, and selects index selected when it is valid.
func NewSentenceTable(sentences []string, selected int) SentenceTable {
	var t SentenceTable
	for _, s := range sentences {
		if t.count == MaxSentences {
			break
		}
		t.entries[t.count] = clip(s)
		t.count++
	}
	_ = t.Select(selected)
	return t
}

// Count returns the number of valid entries.
func (t SentenceTable) Count() int {
	return t.count
}

// Empty reports whether the table holds no sentences.
func (t SentenceTable) Empty() bool {
	return t.count == 0
}

// Selected returns the selected index.
func (t SentenceTable) Selected() int {
	return t.selected
}

// Get returns the sentence at index i.
func (t SentenceTable) Get(i int) (string, error) {
	if i < 0 || i >= t.count {
		return "", fmt.Errorf("get %d of %d: %w", i, t.count, ErrIndexOutOfRange)
	}
	return t.entries[i], nil
}

// Current returns the selected sentence; ok is false for an empty table.
func (t SentenceTable) Current() (string, bool) {
	if t.count == 0 {
		return "", false
	}
	return t.entries[t.selected], true
}

// Sentences returns a copy of the valid entries.
func (t SentenceTable) Sentences() []string {
	out := make([]string, t.count)
	copy(out, t.entries[:t.count])
	return out
}

// Set replaces the sentence at an existing index.
func (t *SentenceTable) Set(i int, s string) error {
	if i < 0 || i >= t.count {
		return fmt.Errorf("set %d of %d: %w", i, t.count, ErrIndexOutOfRange)
	}
	t.entries[i] = clip(s)
	return nil
}

// Append adds a sentence at index Count().
func (t *SentenceTable) Append(s string) error {
	return t.InsertAt(t.count, s)
}

// InsertAt writes s at index i, which may be an existing index (replace) or
// exactly Count() (grow by one). Gaps are rejected so the table stays
// contiguous.
func (t *SentenceTable) InsertAt(i int, s string) error {
	if i < 0 || i >= MaxSentences || i > t.count {
		return fmt.Errorf("insert at %d of %d: %w", i, t.count, ErrIndexOutOfRange)
	}
	t.entries[i] = clip(s)
	if i == t.count {
		t.count++
	}
	return nil
}

// Truncate drops entries at or beyond n. The selection falls back to 0 if
// it no longer points at a valid entry.
func (t *SentenceTable) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= t.count {
		return
	}
	for i := n; i < t.count; i++ {
		t.entries[i] = ""
	}
	t.count = n
	if t.selected >= t.count {
		t.selected = 0
	}
}

// Select changes the selected index. An out-of-range index is rejected
// and the previous selection kept.
func (t *SentenceTable) Select(i int) error {
	if t.count == 0 {
		if i == 0 {
			t.selected = 0
			return nil
		}
		return fmt.Errorf("select %d of 0: %w", i, ErrIndexOutOfRange)
	}
	if i < 0 || i >= t.count {
		return fmt.Errorf("select %d of %d: %w", i, t.count, ErrIndexOutOfRange)
	}
	t.selected = i
	return nil
}

// Equal reports whether two tables hold the same valid entries and
// selection. Stale slots beyond Count() are ignored.
func (t SentenceTable) Equal(o SentenceTable) bool {
	if t.count != o.count || t.selected != o.selected {
		return false
	}
	for i := 0; i < t.count; i++ {
		if t.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}

// Clip truncates s to MaxSentenceBytes without splitting a UTF-8 sequence.
func Clip(s string) string {
	return clip(s)
}

func clip(s string) string {
	if len(s) <= MaxSentenceBytes {
		return s
	}
	cut := MaxSentenceBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
