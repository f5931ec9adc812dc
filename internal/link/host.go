package link

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// HostRadio implements Radio on a general-purpose host. The link counts as
// associated when credentials are saved, a non-loopback interface is up,
// and the last reachability probe did not fail.
type HostRadio struct {
	Credentials CredentialStore
	// ProbeAddr is dialled by Reconnect, e.g. the data source host:port.
	ProbeAddr    string
	ProbeTimeout time.Duration

	// InterfacesUp overrides the interface check in tests.
	InterfacesUp func() bool
	// Dial overrides the probe dial in tests.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)

	probeFailed bool
}

// Connected reports association without network I/O.
func (r *HostRadio) Connected() bool {
	if _, ok := r.Credentials.Load(); !ok {
		return false
	}
	up := r.InterfacesUp
	if up == nil {
		up = interfacesUp
	}
	return up() && !r.probeFailed
}

// Reconnect probes ProbeAddr and records the outcome.
func (r *HostRadio) Reconnect(ctx context.Context) error {
	if r.ProbeAddr == "" {
		r.probeFailed = false
		return nil
	}
	timeout := r.ProbeTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	dial := r.Dial
	if dial == nil {
		d := &net.Dialer{}
		dial = d.DialContext
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := dial(pctx, "tcp", r.ProbeAddr)
	if err != nil {
		r.probeFailed = true
		return fmt.Errorf("probe %s: %w", r.ProbeAddr, err)
	}
	_ = conn.Close()
	r.probeFailed = false
	return nil
}

func interfacesUp() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if addrs, err := iface.Addrs(); err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}

// FilePortal implements Portal on a host. The provisioning "access point"
// is the credentials file: the portal waits for an operator to write it.
type FilePortal struct {
	Credentials CredentialStore
	Radio       Radio
	// PollInterval is how often the portal checks for new credentials.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// AutoConnect joins with saved credentials or opens the portal.
func (p *FilePortal) AutoConnect(ctx context.Context, apName string) bool {
	if _, ok := p.Credentials.Load(); ok {
		_ = p.Radio.Reconnect(ctx)
		if p.Radio.Connected() {
			return true
		}
	}
	return p.StartConfigPortal(ctx, apName)
}

// StartConfigPortal blocks until credentials are saved and the radio
// associates, or ctx ends.
func (p *FilePortal) StartConfigPortal(ctx context.Context, apName string) bool {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := p.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	logger.Warn("provisioning portal open",
		"ap", apName,
		"credentials", p.Credentials.Path,
		"hint", "write ssid and passphrase to the credentials file",
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, ok := p.Credentials.Load(); ok {
			_ = p.Radio.Reconnect(ctx)
			if p.Radio.Connected() {
				logger.Info("provisioning complete", "ap", apName)
				return true
			}
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// ResetCredentials forgets the saved network.
func (p *FilePortal) ResetCredentials() error {
	return p.Credentials.Clear()
}
