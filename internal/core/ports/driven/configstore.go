package driven

import "github.com/custodia-labs/vkauth/internal/core/domain"

// ConfigStore provides access to the application registration.
// Implementations handle persistence (e.g., TOML files) and environment
// overrides.
type ConfigStore interface {
	// Load reads the registration. A missing file yields an empty config.
	Load() (domain.AppConfig, error)

	// Save persists the registration.
	Save(cfg domain.AppConfig) error

	// Set updates one key and persists immediately.
	Set(key, value string) error

	// Path returns the configuration file path.
	Path() string
}
