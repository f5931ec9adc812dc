package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything the sign needs at boot.
type Config struct {
	RemoteURL    string
	RemoteAuth   string
	RemoteRoot   string
	ScanWindow   int
	SyncInterval time.Duration
	// RemoteTimeout bounds one read; PollTimeout bounds a whole poll.
	RemoteTimeout time.Duration
	PollTimeout   time.Duration

	LinkCheck         time.Duration
	ReconnectTimeout  time.Duration
	ReconnectAttempts int
	ReconnectSpacing  time.Duration
	PortalTimeout     time.Duration
	APName            string
	CredentialsPath   string

	StoragePath      string
	FlushDebounce    time.Duration
	FlushMinInterval time.Duration

	PanelWidth  int
	PanelHeight int
	ScrollStep  time.Duration
	FramePeriod time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

const (
	defaultConfigPath      = "~/.config/marquee/config.toml"
	defaultRemoteURL       = "http://127.0.0.1:7490"
	defaultRemoteRoot      = "/display"
	defaultScanWindow      = 3
	defaultCredentialsPath = "~/.config/marquee/credentials.toml"
	defaultStoragePath     = "~/.local/state/marquee/cache.bin"
	defaultLogFile         = "~/.local/state/marquee/marquee.log"
	defaultAPName          = "Marquee-Setup"
	defaultPanelWidth      = 64
	defaultPanelHeight     = 16
)

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		RemoteURL:         defaultRemoteURL,
		RemoteRoot:        defaultRemoteRoot,
		ScanWindow:        defaultScanWindow,
		SyncInterval:      2 * time.Second,
		RemoteTimeout:     5 * time.Second,
		PollTimeout:       15 * time.Second,
		LinkCheck:         5 * time.Second,
		ReconnectTimeout:  time.Hour,
		ReconnectAttempts: 20,
		ReconnectSpacing:  500 * time.Millisecond,
		PortalTimeout:     5 * time.Minute,
		APName:            defaultAPName,
		CredentialsPath:   mustExpand(defaultCredentialsPath),
		StoragePath:       mustExpand(defaultStoragePath),
		FlushDebounce:     5 * time.Second,
		FlushMinInterval:  30 * time.Second,
		PanelWidth:        defaultPanelWidth,
		PanelHeight:       defaultPanelHeight,
		ScrollStep:        50 * time.Millisecond,
		FramePeriod:       20 * time.Millisecond,
		LogLevel:          "info",
		LogFormat:         "text",
		LogFile:           mustExpand(defaultLogFile),
	}
}

type rawConfig struct {
	Remote struct {
		URL          string `toml:"url"`
		Auth         string `toml:"auth"`
		Root         string `toml:"root"`
		ScanWindow   int    `toml:"scan_window"`
		SyncInterval string `toml:"sync_interval"`
		Timeout      string `toml:"timeout"`
		PollTimeout  string `toml:"poll_timeout"`
	} `toml:"remote"`
	Link struct {
		CheckInterval     string `toml:"check_interval"`
		ReconnectTimeout  string `toml:"reconnect_timeout"`
		ReconnectAttempts int    `toml:"reconnect_attempts"`
		ReconnectSpacing  string `toml:"reconnect_spacing"`
		PortalTimeout     string `toml:"portal_timeout"`
		APName            string `toml:"ap_name"`
		CredentialsPath   string `toml:"credentials_path"`
	} `toml:"link"`
	Cache struct {
		Path             string `toml:"path"`
		FlushDebounce    string `toml:"flush_debounce"`
		FlushMinInterval string `toml:"flush_min_interval"`
	} `toml:"cache"`
	Panel struct {
		Width       int    `toml:"width"`
		Height      int    `toml:"height"`
		ScrollStep  string `toml:"scroll_step"`
		FramePeriod string `toml:"frame_period"`
	} `toml:"panel"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		File   string `toml:"file"`
	} `toml:"log"`
}

// Load reads the config at path (default ~/.config/marquee/config.toml).
// A missing file yields Defaults; blank fields keep their defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.RemoteURL, raw.Remote.URL)
	cfg.RemoteAuth = strings.TrimSpace(raw.Remote.Auth)
	setString(&cfg.RemoteRoot, raw.Remote.Root)
	setInt(&cfg.ScanWindow, raw.Remote.ScanWindow)
	setString(&cfg.APName, raw.Link.APName)
	setInt(&cfg.ReconnectAttempts, raw.Link.ReconnectAttempts)
	setPath(&cfg.CredentialsPath, raw.Link.CredentialsPath)
	setPath(&cfg.StoragePath, raw.Cache.Path)
	setInt(&cfg.PanelWidth, raw.Panel.Width)
	setInt(&cfg.PanelHeight, raw.Panel.Height)
	setString(&cfg.LogLevel, strings.ToLower(raw.Log.Level))
	setString(&cfg.LogFormat, strings.ToLower(raw.Log.Format))
	setPath(&cfg.LogFile, raw.Log.File)

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"remote.sync_interval", raw.Remote.SyncInterval, &cfg.SyncInterval},
		{"remote.timeout", raw.Remote.Timeout, &cfg.RemoteTimeout},
		{"remote.poll_timeout", raw.Remote.PollTimeout, &cfg.PollTimeout},
		{"link.check_interval", raw.Link.CheckInterval, &cfg.LinkCheck},
		{"link.reconnect_timeout", raw.Link.ReconnectTimeout, &cfg.ReconnectTimeout},
		{"link.reconnect_spacing", raw.Link.ReconnectSpacing, &cfg.ReconnectSpacing},
		{"link.portal_timeout", raw.Link.PortalTimeout, &cfg.PortalTimeout},
		{"cache.flush_debounce", raw.Cache.FlushDebounce, &cfg.FlushDebounce},
		{"cache.flush_min_interval", raw.Cache.FlushMinInterval, &cfg.FlushMinInterval},
		{"panel.scroll_step", raw.Panel.ScrollStep, &cfg.ScrollStep},
		{"panel.frame_period", raw.Panel.FramePeriod, &cfg.FramePeriod},
	}
	for _, d := range durations {
		if err := setDuration(d.dst, d.raw); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ScanWindow < 1 || c.ScanWindow > 10 {
		return fmt.Errorf("remote.scan_window must be between 1 and 10, got %d", c.ScanWindow)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setPath(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = mustExpand(v)
	}
}

func setDuration(dst *time.Duration, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", v)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
