// Package file provides the TOML-based configuration for the docuflow CLI.
// Configuration is stored in a TOML file within the docuflow config
// directory.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultAPIBaseURL     = "http://localhost:8000/api"
	DefaultRequestTimeout = 30 // seconds
)

// Settings holds the client configuration.
type Settings struct {
	// APIBaseURL is the base URL of the EDMS backend.
	APIBaseURL string `toml:"api_base_url"`
	// RequestTimeoutSeconds bounds each HTTP request.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
}

// ConfigStore reads and writes Settings in config.toml.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a config store under configDir.
// If configDir is empty, defaults to ~/.docuflow.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".docuflow")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{filePath: filepath.Join(configDir, "config.toml")}, nil
}

// Load reads settings from disk, filling defaults for missing fields.
// A missing file yields the defaults.
func (s *ConfigStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := Settings{
		APIBaseURL:            DefaultAPIBaseURL,
		RequestTimeoutSeconds: DefaultRequestTimeout,
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, err
	}
	if settings.APIBaseURL == "" {
		settings.APIBaseURL = DefaultAPIBaseURL
	}
	if settings.RequestTimeoutSeconds <= 0 {
		settings.RequestTimeoutSeconds = DefaultRequestTimeout
	}
	return settings, nil
}

// Save persists settings to disk with restricted permissions.
func (s *ConfigStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}
