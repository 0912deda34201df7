package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vkauth/internal/api"
	"github.com/custodia-labs/vkauth/internal/api/methods"
	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driving"
)

// authFlags are the URI options shared by auth-uri and login.
type authFlags struct {
	scope      string
	forMethods []string
	display    string
	revoke     bool
	apiVersion string
}

func (f *authFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scope, "scope", "", "permissions to request, comma-separated (default from config)")
	cmd.Flags().StringSliceVar(&f.forMethods, "for", nil, "request the permissions these API methods need")
	cmd.Flags().StringVar(&f.display, "display", "", "authorization page layout: page, popup or mobile")
	cmd.Flags().BoolVar(&f.revoke, "revoke", false, "show the consent screen even if access was granted before")
	cmd.Flags().StringVar(&f.apiVersion, "api-version", "", "API version for the issued token")
}

// resolveScope unions --scope and the permissions of --for methods,
// falling back to the configured scope when neither is given.
func (f *authFlags) resolveScope(app domain.AppConfig) (domain.Permissions, error) {
	if f.scope == "" && len(f.forMethods) == 0 {
		return app.Permissions(), nil
	}

	scope, err := domain.ParsePermissions(f.scope)
	if err != nil {
		return 0, err
	}
	specs := make([]*api.Spec, 0, len(f.forMethods))
	for _, name := range f.forMethods {
		spec, ok := methods.Lookup(name)
		if !ok {
			return 0, fmt.Errorf("unknown method %q", name)
		}
		specs = append(specs, spec)
	}
	return domain.Union(scope, api.PermissionsFor(specs...)), nil
}

func (f *authFlags) options(state string) []driving.AuthOption {
	var opts []driving.AuthOption
	if state != "" {
		opts = append(opts, driving.WithState(state))
	}
	if f.display != "" {
		opts = append(opts, driving.WithDisplay(f.display))
	}
	if f.revoke {
		opts = append(opts, driving.WithRevoke())
	}
	if f.apiVersion != "" {
		opts = append(opts, driving.WithAPIVersion(f.apiVersion))
	}
	return opts
}

var (
	authURIFlags authFlags
	authURIState string
)

var authURICmd = &cobra.Command{
	Use:   "auth-uri",
	Short: "Print the authorization URI",
	Long: `Print the URI the user opens to grant the application access.

The scope comes from --scope and --for; without either, the scope in
the config is used.`,
	Example: `  vkauth auth-uri --scope friends,wall
  vkauth auth-uri --for wall.post,status.set --state abc`,
	Args: cobra.NoArgs,
	RunE: runAuthURI,
}

func init() {
	authURIFlags.register(authURICmd)
	authURICmd.Flags().StringVar(&authURIState, "state", "", "state parameter echoed back on the redirect")
	rootCmd.AddCommand(authURICmd)
}

func runAuthURI(cmd *cobra.Command, _ []string) error {
	app, err := loadApp()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	svc, err := oauthService(app)
	if err != nil {
		return err
	}

	scope, err := authURIFlags.resolveScope(app)
	if err != nil {
		return err
	}
	uri, err := svc.AuthURI(scope, authURIFlags.options(authURIState)...)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), uri)
	return nil
}
