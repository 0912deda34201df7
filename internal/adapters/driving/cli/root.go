// Package cli provides the vkauth command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
	"github.com/custodia-labs/vkauth/internal/core/ports/driving"
	"github.com/custodia-labs/vkauth/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Dependencies holds the services the commands are wired to.
type Dependencies struct {
	// OpenConfig opens the config store in dir; an empty dir selects the default.
	OpenConfig func(dir string) (driven.ConfigStore, error)
	// OAuth builds the flow driver for an app registration.
	OAuth func(app domain.AppConfig) driving.OAuthService
	// API builds the method executor for an app registration.
	API func(app domain.AppConfig) driving.APIService
	// NewState generates the state parameter of a login.
	NewState func() (string, error)
}

// deps holds the current dependencies.
var deps *Dependencies

// SetDependencies sets the dependencies used by every command.
func SetDependencies(d *Dependencies) {
	deps = d
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "vkauth",
	Short: "VK OAuth client",
	Long: `vkauth authorizes an application against VK and calls API methods
with the issued token.

Register the application once with 'vkauth config set', then run
'vkauth login' to obtain a token.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.vkauth)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func openConfig() (driven.ConfigStore, error) {
	if deps == nil || deps.OpenConfig == nil {
		return nil, errors.New("config store not configured")
	}
	return deps.OpenConfig(configDir)
}

func loadApp() (domain.AppConfig, error) {
	store, err := openConfig()
	if err != nil {
		return domain.AppConfig{}, err
	}
	return store.Load()
}

func oauthService(app domain.AppConfig) (driving.OAuthService, error) {
	if deps == nil || deps.OAuth == nil {
		return nil, errors.New("oauth service not configured")
	}
	return deps.OAuth(app), nil
}

func apiService(app domain.AppConfig) (driving.APIService, error) {
	if deps == nil || deps.API == nil {
		return nil, errors.New("api service not configured")
	}
	return deps.API(app), nil
}
