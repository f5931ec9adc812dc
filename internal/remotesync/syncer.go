// Package remotesync keeps the local sentence table consistent with the
// remote data source.
package remotesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/remote"
)

// ErrUnavailable is returned by Poll while the link is down.
var ErrUnavailable = errors.New("remote sync unavailable")

// DefaultScanWindow is how many slots a steady-state poll reads.
const DefaultScanWindow = 3

// Paths names the remote nodes.
type Paths struct {
	Root string // e.g. "/display"
}

// Sentence returns the path of slot i.
func (p Paths) Sentence(i int) string {
	return p.root() + "/sentences/" + strconv.Itoa(i)
}

// Selected returns the path of the selected index.
func (p Paths) Selected() string {
	return p.root() + "/selectedSentence"
}

func (p Paths) root() string {
	r := "/" + strings.Trim(strings.TrimSpace(p.Root), "/")
	if r == "/" {
		return ""
	}
	return r
}

// Syncer polls a remote.Source. Poll may run on a worker goroutine while
// Reset and MarkUnavailable are called from the scheduler; at most one
// Poll runs at a time.
type Syncer struct {
	source     remote.Source
	paths      Paths
	scanWindow int
	logger     *slog.Logger

	available atomic.Bool
}

// Options configure a Syncer.
type Options struct {
	Paths Paths
	// ScanWindow bounds steady-state polls. Sentences inserted beyond the
	// window are only picked up when the selection points at them.
	ScanWindow int
	Logger     *slog.Logger
}

// New returns a Syncer; it starts unavailable until Reset is called.
func New(source remote.Source, opts Options) *Syncer {
	window := opts.ScanWindow
	if window <= 0 {
		window = DefaultScanWindow
	}
	if window > content.MaxSentences {
		window = content.MaxSentences
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Paths.Root == "" {
		opts.Paths.Root = "/display"
	}
	return &Syncer{
		source:     source,
		paths:      opts.Paths,
		scanWindow: window,
		logger:     logger,
	}
}

// Reset re-initializes the client after the link comes up.
func (s *Syncer) Reset() {
	s.available.Store(true)
}

// MarkUnavailable stops polls until the next Reset.
func (s *Syncer) MarkUnavailable() {
	s.available.Store(false)
}

// Available reports whether Poll will contact the source.
func (s *Syncer) Available() bool {
	return s.available.Load()
}

// scanResult describes how a slot scan ended.
type scanResult struct {
	found    []string
	ended    bool // saw an empty slot at len(found)
	failedAt int  // index of a failed read, or -1
}

// Poll reads the remote table and returns the merged result. changed is
// true when entries, count or selection differ from current. A read
// failure on slot 0 aborts the poll and returns current unchanged with the
// error.
func (s *Syncer) Poll(ctx context.Context, current content.SentenceTable) (content.SentenceTable, bool, error) {
	if !s.available.Load() {
		return current, false, ErrUnavailable
	}

	limit := s.scanWindow
	if current.Empty() {
		limit = content.MaxSentences
	}

	scan, err := s.scan(ctx, 0, limit)
	if err != nil {
		return current, false, err
	}

	next := merge(current, scan)

	sel, err := s.source.GetInt(ctx, s.paths.Selected())
	switch {
	case err == nil:
		s.applySelection(ctx, &next, sel, scan, limit)
	case errors.Is(err, remote.ErrNoValue):
		// No selection configured: keep the current one.
	default:
		s.logger.Warn("selected index read failed", "error", err)
	}

	return next, !next.Equal(current), nil
}

// scan reads slots [from, limit). Only a failure at index 0 is an error.
func (s *Syncer) scan(ctx context.Context, from, limit int) (scanResult, error) {
	res := scanResult{failedAt: -1}
	for i := from; i < limit; i++ {
		v, err := s.source.GetString(ctx, s.paths.Sentence(i))
		if err != nil {
			if i == 0 {
				return scanResult{}, fmt.Errorf("read sentence 0: %w", err)
			}
			s.logger.Warn("sentence read failed, keeping earlier slots", "index", i, "error", err)
			res.failedAt = i
			return res, nil
		}
		if v == "" {
			res.ended = true
			return res, nil
		}
		res.found = append(res.found, v)
	}
	return res, nil
}

// merge applies a scan to the current table. An empty slot ends the remote
// list, so the table is truncated there. Otherwise entries beyond the scan
// are kept from current.
func merge(current content.SentenceTable, scan scanResult) content.SentenceTable {
	next := current
	for i, v := range scan.found {
		if i < next.Count() {
			_ = next.Set(i, v)
		} else {
			_ = next.Append(v)
		}
	}
	if scan.ended {
		next.Truncate(len(scan.found))
	}
	return next
}

// applySelection selects sel, fetching the slots it needs when the scan
// window did not reach it. An unresolvable selection keeps the previous
// one.
func (s *Syncer) applySelection(ctx context.Context, t *content.SentenceTable, sel int, scan scanResult, limit int) {
	if sel < 0 || sel >= content.MaxSentences {
		s.logger.Warn("selected index out of range", "selected", sel)
		return
	}
	if sel < t.Count() {
		_ = t.Select(sel)
		return
	}
	// The scan already proved this slot missing.
	if scan.ended && sel >= len(scan.found) {
		s.logger.Debug("selected index beyond remote list", "selected", sel, "count", len(scan.found))
		return
	}
	// Slots from Count() up to sel are fetched so the table stays
	// contiguous. A slot whose scan read failed is simply retried here.
	staged := *t
	for i := staged.Count(); i <= sel; i++ {
		v, err := s.source.GetString(ctx, s.paths.Sentence(i))
		if err != nil || v == "" {
			s.logger.Warn("targeted fetch could not resolve selection", "selected", sel, "index", i, "error", err)
			return
		}
		if err := staged.InsertAt(i, v); err != nil {
			return
		}
	}
	if err := staged.Select(sel); err != nil {
		return
	}
	s.logger.Debug("targeted fetch resolved selection", "selected", sel, "scan_limit", limit)
	*t = staged
}

// Result is the outcome of one Poll.
type Result struct {
	Table   content.SentenceTable
	Changed bool
	Err     error
}

// Apply records a poll outcome on m. A successful poll installs the table,
// marking it dirty when changed. A failed poll is noted on the model
// without touching the table. It returns r.Err.
func (s *Syncer) Apply(m *content.Model, r Result, now time.Time) error {
	if r.Err != nil {
		if !errors.Is(r.Err, ErrUnavailable) {
			m.Fail(r.Err.Error())
		}
		return r.Err
	}
	m.Apply(r.Table, r.Changed, now)
	if r.Changed {
		s.logger.Info("content updated",
			"count", r.Table.Count(),
			"selected", r.Table.Selected(),
			"display", m.Display().String(),
		)
	}
	return nil
}

// SyncModel polls and applies in one call, on the caller's goroutine.
func (s *Syncer) SyncModel(ctx context.Context, m *content.Model, now time.Time) (bool, error) {
	next, changed, err := s.Poll(ctx, m.Table())
	if err := s.Apply(m, Result{Table: next, Changed: changed, Err: err}, now); err != nil {
		return false, err
	}
	return changed, nil
}
