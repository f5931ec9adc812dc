package link

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Credentials are the saved network association.
type Credentials struct {
	SSID       string `toml:"ssid"`
	Passphrase string `toml:"passphrase"`
}

// Valid reports whether the credentials name a network.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.SSID) != ""
}

// CredentialStore keeps Credentials in a TOML file.
type CredentialStore struct {
	Path string
}

// Load returns the saved credentials. ok is false when none are saved or
// the file is unreadable.
func (s CredentialStore) Load() (Credentials, bool) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Credentials{}, false
	}
	var c Credentials
	if err := toml.Unmarshal(data, &c); err != nil {
		return Credentials{}, false
	}
	return c, c.Valid()
}

// Save writes credentials, creating directories as needed.
func (s CredentialStore) Save(c Credentials) error {
	if !c.Valid() {
		return fmt.Errorf("ssid is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes saved credentials. Clearing an absent file is not an error.
func (s CredentialStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
