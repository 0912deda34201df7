package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/vkauth/internal/api"
	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
	"github.com/custodia-labs/vkauth/internal/core/ports/driving"
	"github.com/custodia-labs/vkauth/internal/logger"
)

// Ensure APIService implements the interface.
var _ driving.APIService = (*APIService)(nil)

const (
	// APIRequestsPerSecond is the per-user call rate allowed by the API.
	APIRequestsPerSecond = 3

	// Error codes returned in the "error" member.
	apiCodeAuthFailed      = 5
	apiCodeTooManyRequests = 6
)

// APIError is a failed method call. Code and Message come from the
// "error" member when the API returned one; otherwise StatusCode holds
// the HTTP status.
type APIError struct {
	Method     string
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("api: %s: error %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %s: status %d", e.Method, e.StatusCode)
}

// IsRateLimited checks if the error indicates the call rate was exceeded.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == apiCodeTooManyRequests || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsUnauthorized checks if the error indicates the token was rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == apiCodeAuthFailed || apiErr.StatusCode == http.StatusUnauthorized
	}
	return errors.Is(err, domain.ErrAuthExpired) || errors.Is(err, domain.ErrAuthRequired)
}

// APIService executes method calls against the API root.
type APIService struct {
	transport driven.Transport
	decoder   driven.PayloadDecoder
	baseURL   string
	version   string
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewAPIService creates an API executor pinned to version. An empty
// baseURL or version selects the VK defaults.
func NewAPIService(transport driven.Transport, decoder driven.PayloadDecoder, baseURL, version string) *APIService {
	if baseURL == "" {
		baseURL = domain.VKAPIBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if version == "" {
		version = domain.VKAPIVersion
	}
	return &APIService{
		transport: transport,
		decoder:   decoder,
		baseURL:   baseURL,
		version:   version,
		limiter:   rate.NewLimiter(rate.Limit(APIRequestsPerSecond), 1),
		now:       time.Now,
	}
}

// Call sends req with token and decodes the "response" member into
// req.NewResponse(). Calls are throttled to APIRequestsPerSecond.
func (s *APIService) Call(ctx context.Context, token *domain.AccessToken, req *api.Request) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", domain.ErrInvalidInput)
	}
	if err := req.Err(); err != nil {
		return nil, err
	}
	if token == nil {
		return nil, domain.ErrAuthRequired
	}

	tok, err := NewTokenSourceAt(token, s.now).Token()
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	extra := url.Values{}
	extra.Set("access_token", tok.AccessToken)
	extra.Set("v", s.version)
	endpoint := s.baseURL + req.Method()

	logger.Debug("%s %s?%s", req.HTTPMethod(), endpoint, req.Query())

	var resp *driven.Response
	if req.HTTPMethod() == http.MethodPost {
		form := req.Values()
		for k, v := range extra {
			form[k] = v
		}
		resp, err = s.transport.PostForm(ctx, endpoint, form, nil)
	} else {
		query := req.Query()
		if query != "" {
			query += "&"
		}
		resp, err = s.transport.Get(ctx, endpoint+"?"+query+extra.Encode())
	}
	if err != nil {
		return nil, fmt.Errorf("api: %s: %w", req.Method(), err)
	}

	return s.decode(req, resp)
}

func (s *APIService) decode(req *api.Request, resp *driven.Response) (any, error) {
	payload, err := s.decoder.Decode(resp.Body)
	if err != nil {
		if !resp.OK() {
			return nil, &APIError{Method: req.Method(), StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("api: %s: %w: %w", req.Method(), domain.ErrUnexpectedResponse, err)
	}

	if e, ok := payload.Object("error"); ok {
		code, _ := e.Int("error_code")
		msg, _ := e.String("error_msg")
		logger.Warn("%s failed with error %d", req.Method(), code)
		return nil, &APIError{Method: req.Method(), StatusCode: resp.StatusCode, Code: int(code), Message: msg}
	}
	if !resp.OK() {
		return nil, &APIError{Method: req.Method(), StatusCode: resp.StatusCode}
	}

	out := req.NewResponse()
	found, err := payload.Decode("response", out)
	if err != nil {
		return nil, fmt.Errorf("api: %s: %w: %w", req.Method(), domain.ErrUnexpectedResponse, err)
	}
	if !found {
		return nil, fmt.Errorf("api: %s: %w: no response member", req.Method(), domain.ErrUnexpectedResponse)
	}
	return out, nil
}

// TokenSource adapts an AccessToken to oauth2.TokenSource so it can be
// handed to oauth2-aware HTTP clients. The token cannot be refreshed; once
// expired, Token returns domain.ErrAuthExpired.
type TokenSource struct {
	token *domain.AccessToken
	now   func() time.Time
}

// NewTokenSource creates an oauth2.TokenSource for token.
func NewTokenSource(token *domain.AccessToken) oauth2.TokenSource {
	return NewTokenSourceAt(token, time.Now)
}

// NewTokenSourceAt is NewTokenSource with an explicit clock.
func NewTokenSourceAt(token *domain.AccessToken, now func() time.Time) *TokenSource {
	return &TokenSource{token: token, now: now}
}

// Token implements oauth2.TokenSource.
func (t *TokenSource) Token() (*oauth2.Token, error) {
	if t.token == nil {
		return nil, domain.ErrAuthRequired
	}
	if t.token.Lifetime().ExpiredAt(t.now()) {
		return nil, domain.ErrAuthExpired
	}
	return &oauth2.Token{
		AccessToken: t.token.AccessToken(),
		TokenType:   "Bearer",
		Expiry:      t.token.Lifetime().ExpiresAt(),
	}, nil
}
