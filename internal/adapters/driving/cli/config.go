package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/logger"
)

const keyClientSecret = "client_secret"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the application registration",
	Long: `View and change the application registration stored in config.toml.

VKAUTH_CLIENT_ID and VKAUTH_CLIENT_SECRET override the file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current registration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a registration key",
	Long: `Set one key of the registration and save the file.

Keys:
  client_id      application id
  client_secret  secure key (prompted without echo when no value is given)
  redirect_uri   redirect URI registered with the application
  scope          default permissions, comma-separated
  api_version    API version, e.g. 5.199
  display        authorization page layout: page, popup or mobile`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfig()
	if err != nil {
		return err
	}
	app, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cmd.Printf("Config file: %s\n\n", store.Path())
	cmd.Printf("  client_id:     %s\n", orNotSet(app.ClientID))
	cmd.Printf("  client_secret: %s\n", orNotSet(maskSecret(app.ClientSecret)))
	cmd.Printf("  redirect_uri:  %s\n", orDefault(app.RedirectURI, domain.VKDefaultRedirectURI))
	cmd.Printf("  scope:         %s\n", orNotSet(app.Scope))
	cmd.Printf("  api_version:   %s\n", orDefault(app.APIVersion, domain.VKAPIVersion))
	cmd.Printf("  display:       %s\n", orDefault(app.Display, "page"))

	if err := app.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == keyClientSecret:
		cmd.Print("Client secret: ")
		value = readSecret(cmd, bufio.NewReader(cmd.InOrStdin()))
		cmd.Println()
		if value == "" {
			return fmt.Errorf("%s is required", keyClientSecret)
		}
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	store, err := openConfig()
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Saved %s to %s\n", key, store.Path())
	return nil
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(cmd *cobra.Command, reader *bufio.Reader) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	// Fallback to regular input
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return logger.Redact(secret)
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func orDefault(v, def string) string {
	if v == "" {
		return def + " (default)"
	}
	return v
}
