package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vkauth/internal/api"
	"github.com/custodia-labs/vkauth/internal/api/methods"
	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/logger"
)

// EnvAccessToken supplies a raw token when neither flag is given.
const EnvAccessToken = "VKAUTH_ACCESS_TOKEN"

// rawTokenValidity is assumed for tokens given as a bare string, whose
// expiry is unknown.
const rawTokenValidity = time.Hour

var (
	callToken     string
	callTokenFile string
)

var callCmd = &cobra.Command{
	Use:   "call <method> [name=value...]",
	Short: "Call an API method",
	Long: `Call a registered API method and print its response as JSON.

Parameters are given as name=value; lists are comma-separated. The
token is read from --token-file (as written by 'vkauth login -o'),
--token, or the ` + EnvAccessToken + ` environment variable.

Methods:
  ` + strings.Join(methods.Names(), "\n  "),
	Example: `  vkauth call users.get user_ids=1 fields=bdate,city --token-file token.json
  vkauth call wall.post message=hello friends_only=true`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVar(&callToken, "token", "", "access token")
	callCmd.Flags().StringVar(&callTokenFile, "token-file", "", "file holding the token JSON printed by login")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	spec, ok := methods.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown method %q", args[0])
	}
	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}
	req := spec.NewFromText(params)
	if err := req.Err(); err != nil {
		return err
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	app, err := loadApp()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	svc, err := apiService(app)
	if err != nil {
		return err
	}

	logger.Debug("Calling %s (requires %q)", req, req.Permissions().String())
	out, err := svc.Call(cmd.Context(), token, req)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			return fmt.Errorf("%w; run 'vkauth login' for a new token", err)
		}
		return err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func parseParams(args []string) ([]api.Param, error) {
	params := make([]api.Param, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", arg)
		}
		params = append(params, api.Param{Name: name, Value: value})
	}
	return params, nil
}

func loadToken() (*domain.AccessToken, error) {
	if callTokenFile != "" {
		data, err := os.ReadFile(callTokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		var token domain.AccessToken
		if err := json.Unmarshal(data, &token); err != nil {
			return nil, fmt.Errorf("failed to parse token file: %w", err)
		}
		return &token, nil
	}

	raw := callToken
	if raw == "" {
		raw = os.Getenv(EnvAccessToken)
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: use --token-file, --token or %s", domain.ErrAuthRequired, EnvAccessToken)
	}
	return domain.NewAccessToken(nil, 0, raw, domain.LifetimeUntil(time.Now().Add(rawTokenValidity))), nil
}
