package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
	"github.com/custodia-labs/vkauth/internal/core/ports/driving"
	"github.com/custodia-labs/vkauth/internal/logger"
)

// Ensure OAuthService implements the interface.
var _ driving.OAuthService = (*OAuthService)(nil)

const (
	opAuthURI      = "auth uri"
	opRequestToken = "request token"
)

// OAuthService runs the authorization-code flow against one provider for
// one registered application.
type OAuthService struct {
	provider  domain.Provider
	app       domain.AppConfig
	transport driven.Transport
	decoder   driven.PayloadDecoder
	now       func() time.Time
}

// NewOAuthService creates a new OAuth flow driver.
func NewOAuthService(
	provider domain.Provider,
	app domain.AppConfig,
	transport driven.Transport,
	decoder driven.PayloadDecoder,
) *OAuthService {
	return &OAuthService{
		provider:  provider,
		app:       app,
		transport: transport,
		decoder:   decoder,
		now:       time.Now,
	}
}

// RedirectURI returns the redirect URI sent with both flow steps.
func (s *OAuthService) RedirectURI() string {
	return s.app.RedirectOrDefault(s.provider)
}

// AuthURI builds the authorization URI for scope. The scope travels as
// comma-separated permission names and is left out when empty.
func (s *OAuthService) AuthURI(scope domain.Permissions, opts ...driving.AuthOption) (string, error) {
	cfg, err := s.oauthConfig()
	if err != nil {
		return "", &domain.ProviderError{Op: opAuthURI, Err: err}
	}
	if scope != 0 {
		cfg.Scopes = []string{scope.String()}
	}

	o := driving.ApplyAuthOptions(opts...)
	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("v", firstNonEmpty(o.APIVersion, s.app.Version())),
	}
	if display := firstNonEmpty(o.Display, s.app.Display); display != "" {
		params = append(params, oauth2.SetAuthURLParam("display", display))
	}
	if o.Revoke {
		params = append(params, oauth2.SetAuthURLParam("revoke", "1"))
	}

	uri := cfg.AuthCodeURL(o.State, params...)
	logger.Debug("Authorization URI built for scope %q", scope.String())
	return uri, nil
}

// AuthURIFor builds the authorization URI for the permissions r requires.
func (s *OAuthService) AuthURIFor(r domain.PermissionRequirer, opts ...driving.AuthOption) (string, error) {
	return s.AuthURI(r.Permissions(), opts...)
}

// RequestToken exchanges an authorization code at the token endpoint.
// Transport failures, non-2xx statuses and provider error payloads come
// back as *domain.ProviderError; a malformed success body as
// *domain.ParseError. Nothing is retried.
func (s *OAuthService) RequestToken(ctx context.Context, code string) (*domain.AccessToken, error) {
	logger.Section("Token Exchange")

	if code == "" {
		return nil, &domain.ProviderError{Op: opRequestToken, Err: fmt.Errorf("%w: empty authorization code", domain.ErrInvalidInput)}
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.RedirectURI())

	header := http.Header{}
	if s.provider.CredentialsInBody {
		form.Set("client_id", s.app.ClientID)
		form.Set("client_secret", s.app.ClientSecret)
	} else {
		// Same escaping as oauth2.AuthStyleInHeader.
		creds := url.QueryEscape(s.app.ClientID) + ":" + url.QueryEscape(s.app.ClientSecret)
		header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	}

	logger.Debug("POST %s (client_id=%s)", s.provider.TokenURL, s.app.ClientID)
	resp, err := s.transport.PostForm(ctx, s.provider.TokenURL, form, header)
	if err != nil {
		return nil, &domain.ProviderError{Op: opRequestToken, Err: fmt.Errorf("%w: %w", domain.ErrTokenRequest, err)}
	}
	logger.Debug("Token endpoint status: %d", resp.StatusCode)

	payload, decodeErr := s.decoder.Decode(resp.Body)
	if decodeErr == nil {
		if errCode, ok := payload.String("error"); ok && errCode != "" {
			desc, _ := payload.String("error_description")
			logger.Warn("Token endpoint error: %s", errCode)
			return nil, &domain.ProviderError{
				Op:          opRequestToken,
				StatusCode:  resp.StatusCode,
				Code:        errCode,
				Description: desc,
			}
		}
	}
	if !resp.OK() {
		return nil, &domain.ProviderError{Op: opRequestToken, StatusCode: resp.StatusCode}
	}
	if decodeErr != nil {
		return nil, &domain.ProviderError{
			Op:         opRequestToken,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %w", domain.ErrUnexpectedResponse, decodeErr),
		}
	}

	token, err := ParseAccessToken(payload, s.now())
	if err != nil {
		return nil, err
	}
	logger.Debug("Token issued for user %d (%s), expires %s",
		token.UserID(), logger.Redact(token.AccessToken()), token.Lifetime().ExpiresAt().Format(time.RFC3339))
	return token, nil
}

// oauthConfig validates the endpoints and registration and maps them onto
// an oauth2.Config.
func (s *OAuthService) oauthConfig() (*oauth2.Config, error) {
	if s.app.ClientID == "" {
		return nil, fmt.Errorf("%w: client id is empty", domain.ErrInvalidAuthURI)
	}
	if err := checkAbsoluteURL("authorization endpoint", s.provider.AuthURL); err != nil {
		return nil, err
	}
	redirect := s.RedirectURI()
	if err := checkAbsoluteURL("redirect uri", redirect); err != nil {
		return nil, err
	}

	style := oauth2.AuthStyleInHeader
	if s.provider.CredentialsInBody {
		style = oauth2.AuthStyleInParams
	}
	return &oauth2.Config{
		ClientID:     s.app.ClientID,
		ClientSecret: s.app.ClientSecret,
		RedirectURL:  redirect,
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.provider.AuthURL,
			TokenURL:  s.provider.TokenURL,
			AuthStyle: style,
		},
	}, nil
}

func checkAbsoluteURL(what, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %s %q: %v", domain.ErrInvalidAuthURI, what, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s %q is not absolute", domain.ErrInvalidAuthURI, what, raw)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
