package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/remotesync"
)

// Display edits the sentence tree the sign polls.
type Display struct {
	Store *Store
	Paths remotesync.Paths
}

// SetSentence writes slot i. Slots must stay contiguous, so i may be at
// most one past the last filled slot.
func (d Display) SetSentence(ctx context.Context, i int, text string) error {
	if i < 0 || i >= content.MaxSentences {
		return fmt.Errorf("slot %d out of range 0..%d", i, content.MaxSentences-1)
	}
	current, err := d.Sentences(ctx)
	if err != nil {
		return err
	}
	if i > len(current) {
		return fmt.Errorf("slot %d would leave a gap after slot %d", i, len(current)-1)
	}
	raw, err := json.Marshal(content.Clip(text))
	if err != nil {
		return err
	}
	return d.Store.Put(ctx, d.Paths.Sentence(i), raw)
}

// Select writes the selected index.
func (d Display) Select(ctx context.Context, i int) error {
	if i < 0 {
		return fmt.Errorf("selected index %d is negative", i)
	}
	return d.Store.Put(ctx, d.Paths.Selected(), json.RawMessage(strconv.Itoa(i)))
}

// Clear removes every sentence and the selection.
func (d Display) Clear(ctx context.Context) error {
	for i := 0; i < content.MaxSentences; i++ {
		if err := d.Store.Delete(ctx, d.Paths.Sentence(i)); err != nil {
			return err
		}
	}
	return d.Store.Delete(ctx, d.Paths.Selected())
}

// Sentences reads slots from 0 up to the first empty one.
func (d Display) Sentences(ctx context.Context) ([]string, error) {
	var out []string
	for i := 0; i < content.MaxSentences; i++ {
		n, err := d.Store.Get(ctx, d.Paths.Sentence(i))
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		var s string
		if err := json.Unmarshal(n.Value, &s); err != nil || s == "" {
			break
		}
		out = append(out, s)
	}
	return out, nil
}

// Selected reads the selected index; ok is false when unset.
func (d Display) Selected(ctx context.Context) (int, bool, error) {
	n, err := d.Store.Get(ctx, d.Paths.Selected())
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var v int
	if err := json.Unmarshal(n.Value, &v); err != nil {
		return 0, false, fmt.Errorf("selected index: %w", err)
	}
	return v, true, nil
}
