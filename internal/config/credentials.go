// Package config manages the CLI's persisted state: the per-endpoint OAuth
// credential file under the user config directory. Everything else about a
// push is transient.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDir          = "pagecraft"
	credentialsFile = "credentials.toml"
)

// Credentials is the persisted token pair for one endpoint.
type Credentials struct {
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
}

// CredentialStore is the on-disk credential file, keyed by endpoint URL.
type CredentialStore struct {
	path    string
	Entries map[string]Credentials
}

// DefaultCredentialsPath returns the standard location of the credential
// file.
func DefaultCredentialsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, appDir, credentialsFile), nil
}

// LoadCredentials opens the credential file at path. A missing file yields
// an empty store.
func LoadCredentials(path string) (*CredentialStore, error) {
	store := &CredentialStore{path: path, Entries: map[string]Credentials{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	if err := toml.Unmarshal(data, &store.Entries); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return store, nil
}

// Get returns the credentials stored for an endpoint.
func (s *CredentialStore) Get(endpoint string) (Credentials, bool) {
	c, ok := s.Entries[endpoint]
	return c, ok
}

// Set records credentials for an endpoint in memory; Save persists them.
func (s *CredentialStore) Set(endpoint string, creds Credentials) {
	s.Entries[endpoint] = creds
}

// Delete removes an endpoint's credentials in memory.
func (s *CredentialStore) Delete(endpoint string) {
	delete(s.Entries, endpoint)
}

// Save writes the store back to disk with owner-only permissions.
func (s *CredentialStore) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(s.Entries)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	return os.WriteFile(s.path, data, 0600)
}
