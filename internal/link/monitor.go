package link

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrRestart is returned when provisioning times out without a network.
// The device restarts rather than idling unconfigured.
var ErrRestart = errors.New("provisioning timed out, restart required")

// State is the link health state.
type State int

const (
	Connected State = iota
	Disconnected
	Recovering
	Reprovisioning
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Recovering:
		return "recovering"
	case Reprovisioning:
		return "reprovisioning"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Radio is the wireless interface.
type Radio interface {
	// Connected reports the current association without blocking.
	Connected() bool
	// Reconnect starts a reconnect using saved credentials.
	Reconnect(ctx context.Context) error
}

// Portal is the provisioning collaborator. Its calls may block for minutes.
type Portal interface {
	// AutoConnect joins with saved credentials, opening the portal when
	// there are none. False means no network could be joined.
	AutoConnect(ctx context.Context, apName string) bool
	// StartConfigPortal serves the provisioning access point until new
	// credentials are saved and joined, or ctx ends.
	StartConfigPortal(ctx context.Context, apName string) bool
	// ResetCredentials forgets the saved network.
	ResetCredentials() error
}

// Sleeper waits for d or until ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Config tunes the recovery policy.
type Config struct {
	ReconnectTimeout  time.Duration // silent recovery budget before reprovisioning
	ReconnectAttempts int           // checks per bounded reconnect
	ReconnectSpacing  time.Duration // delay between checks
	PortalTimeout     time.Duration
	APName            string
}

const (
	DefaultReconnectTimeout  = time.Hour
	DefaultReconnectAttempts = 20
	DefaultReconnectSpacing  = 500 * time.Millisecond
	DefaultPortalTimeout     = 5 * time.Minute
	DefaultAPName            = "Marquee-Setup"
)

func (c Config) withDefaults() Config {
	if c.ReconnectTimeout <= 0 {
		c.ReconnectTimeout = DefaultReconnectTimeout
	}
	if c.ReconnectAttempts <= 0 {
		c.ReconnectAttempts = DefaultReconnectAttempts
	}
	if c.ReconnectSpacing <= 0 {
		c.ReconnectSpacing = DefaultReconnectSpacing
	}
	if c.PortalTimeout <= 0 {
		c.PortalTimeout = DefaultPortalTimeout
	}
	if c.APName == "" {
		c.APName = DefaultAPName
	}
	return c
}

// Hooks are side effects of transitions.
type Hooks struct {
	OnUp   func() // link became usable; re-initialize remote sync
	OnDown func() // link lost; stop remote sync
}

// Snapshot is a copy of the monitor state for display.
type Snapshot struct {
	State     State
	Since     time.Time     // start of the current outage
	Remaining time.Duration // silent recovery time left while disconnected
	APName    string
}

// Monitor drives the link state machine. It is owned by the scheduler
// goroutine; Tick is called on a fixed interval.
type Monitor struct {
	cfg    Config
	radio  Radio
	portal Portal
	hooks  Hooks
	sleep  Sleeper
	logger *slog.Logger

	state     State
	since     time.Time
	remaining time.Duration
}

// NewMonitor returns a monitor in the Disconnected state; call Start.
func NewMonitor(cfg Config, radio Radio, portal Portal, hooks Hooks, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		cfg:    cfg.withDefaults(),
		radio:  radio,
		portal: portal,
		hooks:  hooks,
		sleep:  sleepCtx,
		logger: logger,
		state:  Disconnected,
	}
}

// SetSleeper replaces the wait used between reconnect checks.
func (m *Monitor) SetSleeper(s Sleeper) {
	if s != nil {
		m.sleep = s
	}
}

// State returns the current state.
func (m *Monitor) State() State { return m.state }

// Snapshot returns the state for display.
func (m *Monitor) Snapshot() Snapshot {
	return Snapshot{State: m.state, Since: m.since, Remaining: m.remaining, APName: m.cfg.APName}
}

// Start joins the network at boot. ErrRestart means the portal gave up.
func (m *Monitor) Start(ctx context.Context) error {
	if m.radio.Connected() {
		m.up("boot")
		return nil
	}
	m.logger.Info("joining network", "ap", m.cfg.APName)
	pctx, cancel := context.WithTimeout(ctx, m.cfg.PortalTimeout)
	defer cancel()
	if m.portal.AutoConnect(pctx, m.cfg.APName) {
		m.up("auto connect")
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.logger.Error("no network after provisioning window", "timeout", m.cfg.PortalTimeout)
	return ErrRestart
}

// Tick advances the state machine. It blocks only for the bounded
// reconnect attempt or the provisioning portal.
func (m *Monitor) Tick(ctx context.Context, now time.Time) error {
	switch m.state {
	case Connected:
		if !m.radio.Connected() {
			m.state = Disconnected
			m.since = now
			m.remaining = m.cfg.ReconnectTimeout
			m.logger.Warn("link lost")
			if m.hooks.OnDown != nil {
				m.hooks.OnDown()
			}
		}
		return nil

	case Disconnected, Recovering:
		if m.since.IsZero() {
			m.since = now
		}
		elapsed := now.Sub(m.since)
		if elapsed >= m.cfg.ReconnectTimeout {
			m.state = Reprovisioning
			m.remaining = 0
			m.logger.Error("link down past reconnect timeout, reprovisioning",
				"down_for", elapsed.Round(time.Second), "ap", m.cfg.APName)
			if err := m.portal.ResetCredentials(); err != nil {
				m.logger.Warn("reset credentials failed", "error", err)
			}
			return nil
		}
		if m.reconnect(ctx) {
			m.up("reconnect")
			return nil
		}
		m.state = Disconnected
		m.remaining = m.cfg.ReconnectTimeout - elapsed
		m.logger.Info("reconnect failed", "retry_budget", m.remaining.Round(time.Second))
		return nil

	case Reprovisioning:
		// The old network may return while the portal is pending.
		if m.reconnect(ctx) {
			m.up("reconnect during provisioning")
			return nil
		}
		m.state = Reprovisioning
		pctx, cancel := context.WithTimeout(ctx, m.cfg.PortalTimeout)
		defer cancel()
		m.logger.Info("config portal open", "ap", m.cfg.APName, "timeout", m.cfg.PortalTimeout)
		if m.portal.StartConfigPortal(pctx, m.cfg.APName) {
			m.up("provisioned")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.logger.Error("config portal timed out", "timeout", m.cfg.PortalTimeout)
		return ErrRestart
	}
	return nil
}

// reconnect runs one bounded attempt. The state reads Recovering while it
// is in flight.
func (m *Monitor) reconnect(ctx context.Context) bool {
	prev := m.state
	m.state = Recovering
	defer func() {
		if m.state == Recovering {
			m.state = prev
		}
	}()

	if err := m.radio.Reconnect(ctx); err != nil {
		m.logger.Debug("reconnect request failed", "error", err)
	}
	for i := 0; i < m.cfg.ReconnectAttempts; i++ {
		if i > 0 {
			if err := m.sleep(ctx, m.cfg.ReconnectSpacing); err != nil {
				return false
			}
		}
		if m.radio.Connected() {
			return true
		}
	}
	return false
}

func (m *Monitor) up(reason string) {
	if m.state != Connected && !m.since.IsZero() {
		m.logger.Info("link restored", "via", reason)
	} else {
		m.logger.Info("link up", "via", reason)
	}
	m.state = Connected
	m.since = time.Time{}
	m.remaining = 0
	if m.hooks.OnUp != nil {
		m.hooks.OnUp()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
