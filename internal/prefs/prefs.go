// Package prefs keeps the terminal panel's view settings between runs in
// ~/.config/marquee/prefs.toml. They are cosmetic: a missing file means
// defaults, and a broken one means defaults plus an error to log.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultPrefsPath = "~/.config/marquee/prefs.toml"
	defaultTheme     = "Amber"
)

// Prefs are the persisted view settings.
type Prefs struct {
	Theme string `toml:"theme"`
	// ShowStatus is nil until the operator toggles the status bar.
	ShowStatus *bool `toml:"show_status,omitempty"`
	ShowLogs   bool  `toml:"show_logs,omitempty"`
}

// Defaults returns the settings used when nothing is saved.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// StatusVisible reports whether the status bar is shown; unset means shown.
func (p Prefs) StatusVisible() bool {
	return p.ShowStatus == nil || *p.ShowStatus
}

// DefaultPath returns the unexpanded default location.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads prefs from path (empty means the default). The returned Prefs
// are always usable; err reports a file that exists but could not be used.
func Load(path string) (Prefs, error) {
	p := Defaults()
	file, err := locate(path)
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", file, err)
	}
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	return p, nil
}

// Save replaces the prefs file via a temp file and rename so a crash never
// leaves it half written.
func Save(path string, p Prefs) error {
	file, err := locate(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(file), ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// locate expands a leading ~ and makes path absolute.
func locate(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(p, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, rest)
	}
	return filepath.Abs(p)
}
