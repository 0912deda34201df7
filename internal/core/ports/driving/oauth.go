package driving

import (
	"context"

	"github.com/custodia-labs/vkauth/internal/core/domain"
)

// AuthOptions are the optional parameters of an authorization URI.
type AuthOptions struct {
	// State is echoed back on the redirect for CSRF protection.
	State string

	// Display selects the authorization page layout (page, popup, mobile).
	Display string

	// Revoke forces the consent screen even if access was granted before.
	Revoke bool

	// APIVersion overrides the configured API version.
	APIVersion string
}

// AuthOption sets an AuthOptions field.
type AuthOption func(*AuthOptions)

// WithState sets the state parameter.
func WithState(state string) AuthOption {
	return func(o *AuthOptions) { o.State = state }
}

// WithDisplay sets the page layout.
func WithDisplay(display string) AuthOption {
	return func(o *AuthOptions) { o.Display = display }
}

// WithRevoke asks the provider to show the consent screen again.
func WithRevoke() AuthOption {
	return func(o *AuthOptions) { o.Revoke = true }
}

// WithAPIVersion pins the API version for the issued token.
func WithAPIVersion(v string) AuthOption {
	return func(o *AuthOptions) { o.APIVersion = v }
}

// ApplyAuthOptions folds opts into an AuthOptions value.
func ApplyAuthOptions(opts ...AuthOption) AuthOptions {
	var o AuthOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// OAuthService drives the authorization-code flow.
type OAuthService interface {
	// AuthURI builds the authorization URI for the requested scope.
	AuthURI(scope domain.Permissions, opts ...AuthOption) (string, error)

	// AuthURIFor builds the authorization URI for the permissions r requires.
	AuthURIFor(r domain.PermissionRequirer, opts ...AuthOption) (string, error)

	// RequestToken exchanges an authorization code for an access token.
	RequestToken(ctx context.Context, code string) (*domain.AccessToken, error)

	// RedirectURI returns the redirect URI sent with both flow steps.
	RedirectURI() string
}
