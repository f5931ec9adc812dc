// Package scheduler runs the sign's cooperative main loop.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/marquee/internal/cache"
	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/link"
	"github.com/five82/marquee/internal/marquee"
	"github.com/five82/marquee/internal/remotesync"
)

const (
	DefaultFramePeriod  = 20 * time.Millisecond
	DefaultLinkInterval = 5 * time.Second
	DefaultSyncInterval = 2 * time.Second
	DefaultPollTimeout  = 15 * time.Second
)

// LinkMonitor is the link health state machine.
type LinkMonitor interface {
	Tick(ctx context.Context, now time.Time) error
	State() link.State
	Snapshot() link.Snapshot
}

// ContentSyncer reads the remote table and applies the outcome to the
// model. Poll runs on a worker goroutine and must not touch the model;
// Apply runs on the scheduler goroutine.
type ContentSyncer interface {
	Poll(ctx context.Context, current content.SentenceTable) (content.SentenceTable, bool, error)
	Apply(m *content.Model, r remotesync.Result, now time.Time) error
}

// Status is a snapshot published after every tick.
type Status struct {
	Now          time.Time
	Display      content.DisplayStatus
	Frame        marquee.Frame
	Link         link.Snapshot
	Count        int
	Selected     int
	Dirty        bool
	LastSavedAt  time.Time
	LastSyncAt   time.Time
	SyncFailures int
	LastError    string
}

// Observer receives a Status after each tick. It runs on the scheduler
// goroutine and must not block.
type Observer func(Status)

// Options wire the scheduler's subsystems.
type Options struct {
	Model    *content.Model
	Link     LinkMonitor
	Sync     ContentSyncer
	Flusher  *cache.Flusher
	Driver   marquee.Driver
	Scroller *marquee.Scroller

	FramePeriod  time.Duration
	LinkInterval time.Duration
	SyncInterval time.Duration
	// PollTimeout bounds one whole remote poll.
	PollTimeout time.Duration
	// FlushRetry delays the next save after a failed commit.
	FlushRetry time.Duration

	Observer Observer
	Logger   *slog.Logger
	Now      func() time.Time
}

// Scheduler owns the model, link state and dirty tracking. Only Run's
// goroutine touches them; RequestSync is the one concurrent entry point.
// Remote polls run on a worker goroutine and hand their result back over
// results, so a slow source never holds up a frame.
type Scheduler struct {
	opts   Options
	logger *slog.Logger

	lastLink     time.Time
	lastSync     time.Time
	failures     int
	lastErr      string
	flushBlocked time.Time

	syncNow chan struct{}
	forced  bool

	// At most one poll is in flight. gen is bumped when a poll is
	// abandoned so its late result is dropped.
	inflight   bool
	gen        int
	pollCancel context.CancelFunc
	results    chan pollResult
}

type pollResult struct {
	gen int
	res remotesync.Result
}

// New returns a Scheduler with defaults applied.
func New(opts Options) *Scheduler {
	if opts.FramePeriod <= 0 {
		opts.FramePeriod = DefaultFramePeriod
	}
	if opts.LinkInterval <= 0 {
		opts.LinkInterval = DefaultLinkInterval
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = DefaultSyncInterval
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	if opts.FlushRetry <= 0 {
		opts.FlushRetry = 30 * time.Second
	}
	if opts.Scroller == nil {
		opts.Scroller = marquee.NewScroller(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		opts:    opts,
		logger:  logger,
		syncNow: make(chan struct{}, 1),
		results: make(chan pollResult, 1),
	}
}

// RequestSync asks for a poll on the next tick. Safe from any goroutine.
func (s *Scheduler) RequestSync() {
	select {
	case s.syncNow <- struct{}{}:
	default:
	}
}

// LinkUp clears sync backoff so the first poll after a reconnect runs at
// once. Call it from the link OnUp hook.
func (s *Scheduler) LinkUp() {
	s.failures = 0
	s.lastSync = time.Time{}
}

// Run ticks until ctx is cancelled or the link monitor requests a restart.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.FramePeriod)
	defer ticker.Stop()
	defer s.abandonPoll()
	for {
		if err := s.Tick(ctx, s.opts.Now()); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick runs one pass: render first, then link, sync and flush when due.
// Tick never waits on the network; a due poll is started in the background
// and its result is applied on a later tick.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	s.render(now)

	if due(s.lastLink, s.opts.LinkInterval, now) {
		s.lastLink = now
		if err := s.opts.Link.Tick(ctx, now); err != nil {
			return err
		}
		// A reconnect can take seconds.
		now = s.opts.Now()
	}

	s.collect(now)

	select {
	case <-s.syncNow:
		s.forced = true
	default:
	}
	if s.opts.Link.State() != link.Connected {
		s.abandonPoll()
	} else if !s.inflight &&
		(s.forced || due(s.lastSync, calculateBackoff(s.failures, s.opts.SyncInterval), now)) {
		s.forced = false
		s.lastSync = now
		s.startPoll(ctx)
	}

	s.flush(now)
	s.publish(now)
	return nil
}

func (s *Scheduler) render(now time.Time) {
	frame := marquee.Compose(s.opts.Model.Display(), s.opts.Link.Snapshot(), now)
	s.opts.Scroller.Render(s.opts.Driver, frame, now)
}

// startPoll runs one poll on a worker goroutine against a copy of the
// current table.
func (s *Scheduler) startPoll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, s.opts.PollTimeout)
	s.inflight = true
	s.pollCancel = cancel
	gen := s.gen
	current := s.opts.Model.Table()
	go func() {
		defer cancel()
		next, changed, err := s.opts.Sync.Poll(pollCtx, current)
		s.results <- pollResult{gen: gen, res: remotesync.Result{Table: next, Changed: changed, Err: err}}
	}()
}

// abandonPoll cancels an in-flight poll. Its result is still drained by
// collect before another poll may start, but it is not applied.
func (s *Scheduler) abandonPoll() {
	if !s.inflight || s.pollCancel == nil {
		return
	}
	s.pollCancel()
	s.pollCancel = nil
	s.gen++
}

// collect applies a finished poll, if any, without blocking.
func (s *Scheduler) collect(now time.Time) {
	var r pollResult
	select {
	case r = <-s.results:
	default:
		return
	}
	s.inflight = false
	s.pollCancel = nil
	if r.gen != s.gen {
		s.logger.Debug("dropped abandoned poll result", "error", r.res.Err)
		return
	}

	err := s.opts.Sync.Apply(s.opts.Model, r.res, now)
	switch {
	case err == nil:
		if s.failures > 0 {
			s.logger.Info("remote poll recovered", "after_failures", s.failures)
		}
		s.failures = 0
		s.lastErr = ""
	case errors.Is(err, remotesync.ErrUnavailable):
	default:
		s.failures++
		s.lastErr = err.Error()
		s.logger.Warn("remote poll failed",
			"error", err,
			"failures", s.failures,
			"next_in", calculateBackoff(s.failures, s.opts.SyncInterval),
		)
	}
}

func (s *Scheduler) flush(now time.Time) {
	if s.opts.Flusher == nil || now.Before(s.flushBlocked) {
		return
	}
	saved, err := s.opts.Flusher.Flush(now, s.opts.Model)
	if err != nil {
		s.flushBlocked = now.Add(s.opts.FlushRetry)
		s.logger.Warn("cache save failed, will retry", "error", err, "retry_in", s.opts.FlushRetry)
		return
	}
	if saved {
		t := s.opts.Model.Table()
		s.logger.Debug("cache saved", "count", t.Count(), "selected", t.Selected())
	}
}

func (s *Scheduler) publish(now time.Time) {
	if s.opts.Observer == nil {
		return
	}
	m := s.opts.Model
	t := m.Table()
	display := m.Display()
	snap := s.opts.Link.Snapshot()
	s.opts.Observer(Status{
		Now:          now,
		Display:      display,
		Frame:        marquee.Compose(display, snap, now),
		Link:         snap,
		Count:        t.Count(),
		Selected:     t.Selected(),
		Dirty:        m.Dirty,
		LastSavedAt:  m.LastSavedAt,
		LastSyncAt:   s.lastSync,
		SyncFailures: s.failures,
		LastError:    s.lastErr,
	})
}

func due(last time.Time, interval time.Duration, now time.Time) bool {
	return last.IsZero() || now.Sub(last) >= interval
}
