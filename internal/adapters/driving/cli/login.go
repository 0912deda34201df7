package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vkauth/internal/adapters/driving/oauth"
	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driving"
	"github.com/custodia-labs/vkauth/internal/logger"
)

var (
	loginFlags     authFlags
	loginPaste     bool
	loginNoBrowser bool
	loginTimeout   time.Duration
	loginOutput    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize the application and print an access token",
	Long: `Run the authorization-code flow.

When redirect_uri is http://localhost:<port>/callback, a local server
receives the redirect. Otherwise (for example with the default
https://oauth.vk.com/blank.html) use --paste and paste the URL the
browser ends up on, or just the code.

The token is printed as JSON and, with --output, saved to a file that
'vkauth call --token-file' reads.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginFlags.register(loginCmd)
	loginCmd.Flags().BoolVar(&loginPaste, "paste", false, "read the redirect URL or code from stdin")
	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "print the URI instead of opening a browser")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "how long to wait for the redirect")
	loginCmd.Flags().StringVarP(&loginOutput, "output", "o", "", "save the token JSON to this file")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	app, err := loadApp()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	if app.ClientID != "" && app.ClientSecret == "" {
		cmd.Print("Client secret: ")
		app.ClientSecret = readSecret(cmd, reader)
		cmd.Println()
	}
	if err := app.Validate(); err != nil {
		return fmt.Errorf("%w (see 'vkauth config set')", err)
	}

	svc, err := oauthService(app)
	if err != nil {
		return err
	}
	if deps.NewState == nil {
		return errors.New("state generator not configured")
	}
	state, err := deps.NewState()
	if err != nil {
		return fmt.Errorf("failed to generate state: %w", err)
	}

	scope, err := loginFlags.resolveScope(app)
	if err != nil {
		return err
	}
	uri, err := svc.AuthURI(scope, loginFlags.options(state)...)
	if err != nil {
		return err
	}
	logger.Debug("Requesting scope %q", scope.String())

	var code string
	if loginPaste {
		code, err = pasteCode(cmd, reader, uri, state)
	} else {
		code, err = callbackCode(cmd, svc, uri, state)
	}
	if err != nil {
		return err
	}

	token, err := svc.RequestToken(cmd.Context(), code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}
	return printToken(cmd, token)
}

func pasteCode(cmd *cobra.Command, reader *bufio.Reader, uri, state string) (string, error) {
	cmd.Println("Open this URL in your browser and grant access:")
	cmd.Println()
	cmd.Printf("  %s\n", uri)
	cmd.Println()
	cmd.Print("Paste the URL you were redirected to (or the code): ")

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", fmt.Errorf("failed to read code: %w", err)
	}
	return oauth.ParseRedirect(input, state)
}

func callbackCode(cmd *cobra.Command, svc driving.OAuthService, uri, state string) (string, error) {
	redirect := svc.RedirectURI()
	port, ok := oauth.LoopbackPort(redirect)
	if !ok {
		return "", fmt.Errorf("redirect_uri %s cannot be received locally; set it to http://localhost:<port>%s or use --paste",
			redirect, oauth.CallbackPath)
	}

	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return "", err
	}
	defer func() { _ = server.Stop() }()

	if loginNoBrowser {
		cmd.Println("Open this URL in your browser and grant access:")
		cmd.Println()
		cmd.Printf("  %s\n", uri)
		cmd.Println()
	} else {
		cmd.Println("Opening browser for authorization...")
		if err := oauth.OpenBrowser(uri); err != nil {
			logger.Warn("Could not open browser: %v", err)
			cmd.Printf("Open this URL manually:\n\n  %s\n\n", uri)
		}
	}
	cmd.Printf("Waiting for the redirect on %s ...\n", redirect)

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()
	return server.WaitForCode(ctx)
}

func printToken(cmd *cobra.Command, token *domain.AccessToken) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	if loginOutput != "" {
		if err := os.WriteFile(loginOutput, append(data, '\n'), 0600); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		cmd.Printf("Token saved to %s\n", loginOutput)
	}

	expires := token.Lifetime().ExpiresAt()
	if token.Expired() {
		cmd.Printf("Warning: the token for user %d is already expired\n", token.UserID())
		return nil
	}
	cmd.Printf("Authorized user %d; token expires %s (%s)\n",
		token.UserID(), humanize.Time(expires), expires.Format(time.RFC3339))
	return nil
}
