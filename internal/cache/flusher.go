package cache

import (
	"time"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/nvstore"
)

const (
	defaultDebounce    = 5 * time.Second
	defaultMinInterval = 30 * time.Second
)

// Flusher coalesces dirty content into as few commits as possible. A flush
// waits for Debounce of quiet after the last change, and never runs more
// often than MinInterval.
type Flusher struct {
	Store       nvstore.Store
	Debounce    time.Duration
	MinInterval time.Duration
}

// NewFlusher returns a Flusher. A non-positive debounce or a negative
// minInterval selects the default.
func NewFlusher(store nvstore.Store, debounce, minInterval time.Duration) *Flusher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if minInterval < 0 {
		minInterval = defaultMinInterval
	}
	return &Flusher{Store: store, Debounce: debounce, MinInterval: minInterval}
}

// Due reports whether m should be flushed at now.
func (f *Flusher) Due(now time.Time, m *content.Model) bool {
	if !m.Dirty {
		return false
	}
	if now.Sub(m.ChangedAt) < f.Debounce {
		return false
	}
	if !m.LastSavedAt.IsZero() && now.Sub(m.LastSavedAt) < f.MinInterval {
		return false
	}
	return true
}

// Flush saves m when due. saved is true only when a commit happened. On
// error the model stays dirty so the next call retries.
func (f *Flusher) Flush(now time.Time, m *content.Model) (saved bool, err error) {
	if !f.Due(now, m) {
		return false, nil
	}
	if err := Save(f.Store, m.Table()); err != nil {
		return false, err
	}
	m.MarkSaved(now)
	return true, nil
}
