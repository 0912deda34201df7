package domain

import "fmt"

// Provider describes the fixed OAuth endpoints of an identity provider.
type Provider struct {
	// AuthURL is the authorization endpoint the user is redirected to.
	AuthURL string
	// TokenURL is the endpoint authorization codes are exchanged at.
	TokenURL string
	// CredentialsInBody sends client_id and client_secret as form fields
	// rather than HTTP basic auth.
	CredentialsInBody bool
	// DefaultRedirectURI is used when the app registration names none.
	DefaultRedirectURI string
}

// VK provider constants.
const (
	vkAuthURL = "https://oauth.vk.com/authorize"
	//nolint:gosec // G101: Not credentials, OAuth endpoint URL
	vkTokenURL = "https://oauth.vk.com/access_token"

	// VKDefaultRedirectURI is the provider-hosted blank page that receives
	// the code in its URL fragment.
	VKDefaultRedirectURI = "https://oauth.vk.com/blank.html"

	// VKAPIBaseURL is the root of the method API.
	VKAPIBaseURL = "https://api.vk.com/method/"

	// VKAPIVersion is the API version requests are pinned to by default.
	VKAPIVersion = "5.199"
)

// VKProvider returns the VK OAuth endpoints.
func VKProvider() Provider {
	return Provider{
		AuthURL:            vkAuthURL,
		TokenURL:           vkTokenURL,
		CredentialsInBody:  true,
		DefaultRedirectURI: VKDefaultRedirectURI,
	}
}

// AppConfig is the registration of a client application with the provider.
type AppConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri,omitempty"`
	// Scope is a comma-separated list of permission names requested by default.
	Scope      string `toml:"scope,omitempty"`
	APIVersion string `toml:"api_version,omitempty"`
	// Display selects the authorization page layout (page, popup, mobile).
	Display string `toml:"display,omitempty"`
}

// Validate checks the fields needed to run the authorization flow.
func (c AppConfig) Validate() error {
	if c.ClientID == "" {
		return wrapConfig("client_id is required")
	}
	if c.ClientSecret == "" {
		return wrapConfig("client_secret is required")
	}
	if c.Scope != "" {
		if _, err := ParsePermissions(c.Scope); err != nil {
			return err
		}
	}
	switch c.Display {
	case "", "page", "popup", "mobile":
	default:
		return wrapConfig("display must be page, popup or mobile")
	}
	return nil
}

// Permissions returns the default scope, ignoring unknown names.
func (c AppConfig) Permissions() Permissions {
	p, err := ParsePermissions(c.Scope)
	if err != nil {
		return 0
	}
	return p
}

// RedirectOrDefault returns the configured redirect URI or the provider default.
func (c AppConfig) RedirectOrDefault(p Provider) string {
	if c.RedirectURI != "" {
		return c.RedirectURI
	}
	return p.DefaultRedirectURI
}

// Version returns the configured API version or the default.
func (c AppConfig) Version() string {
	if c.APIVersion != "" {
		return c.APIVersion
	}
	return VKAPIVersion
}

func wrapConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
