package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Environment variables that override the file.
const (
	EnvClientID     = "VKAUTH_CLIENT_ID"
	EnvClientSecret = "VKAUTH_CLIENT_SECRET"
)

// keySetters maps TOML keys to the AppConfig field they set.
var keySetters = map[string]func(*domain.AppConfig, string){
	"client_id":     func(c *domain.AppConfig, v string) { c.ClientID = v },
	"client_secret": func(c *domain.AppConfig, v string) { c.ClientSecret = v },
	"redirect_uri":  func(c *domain.AppConfig, v string) { c.RedirectURI = v },
	"scope":         func(c *domain.AppConfig, v string) { c.Scope = v },
	"api_version":   func(c *domain.AppConfig, v string) { c.APIVersion = v },
	"display":       func(c *domain.AppConfig, v string) { c.Display = v },
}

// Keys returns the settable configuration keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(keySetters))
	for k := range keySetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// The app registration is stored in config.toml within the vkauth config
// directory.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.vkauth/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".vkauth")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{filePath: filepath.Join(configDir, "config.toml")}, nil
}

// Load reads the registration and applies environment overrides.
func (s *ConfigStore) Load() (domain.AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if err != nil {
		return domain.AppConfig{}, err
	}
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.ClientSecret = v
	}
	return cfg, nil
}

// Save writes cfg to the TOML file.
func (s *ConfigStore) Save(cfg domain.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(cfg)
}

// Set updates one key of the file and persists immediately. Environment
// overrides are not written back.
func (s *ConfigStore) Set(key, value string) error {
	set, ok := keySetters[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidConfig, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if err != nil {
		return err
	}
	set(&cfg, value)
	return s.write(cfg)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// read loads the file as-is (caller must hold lock). A missing file is an
// empty config.
func (s *ConfigStore) read() (domain.AppConfig, error) {
	var cfg domain.AppConfig

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return domain.AppConfig{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfig, s.filePath, err)
	}
	return cfg, nil
}

// write stores cfg (caller must hold lock).
func (s *ConfigStore) write(cfg domain.AppConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Write with restricted permissions, the file holds the client secret
	return os.WriteFile(s.filePath, data, 0600)
}
