package domain

import "encoding/json"

// AccessToken is the credential returned by the token endpoint together with
// the identity of the user who granted it. It is immutable once built.
type AccessToken struct {
	email       *string
	userID      uint64
	accessToken string
	lifetime    Lifetime
}

// NewAccessToken assembles a token. Email is nil when the user did not
// grant the email permission.
func NewAccessToken(email *string, userID uint64, accessToken string, lifetime Lifetime) *AccessToken {
	return &AccessToken{
		email:       email,
		userID:      userID,
		accessToken: accessToken,
		lifetime:    lifetime,
	}
}

// Email returns the user's email, or "" when it was not granted.
func (t *AccessToken) Email() string {
	email, _ := t.LookupEmail()
	return email
}

// LookupEmail returns the user's email and whether the provider sent one,
// telling an absent email apart from an empty one.
func (t *AccessToken) LookupEmail() (string, bool) {
	if t.email == nil {
		return "", false
	}
	return *t.email, true
}

// UserID returns the provider's numeric user identifier.
func (t *AccessToken) UserID() uint64 {
	return t.userID
}

// AccessToken returns the opaque bearer string.
func (t *AccessToken) AccessToken() string {
	return t.accessToken
}

// Lifetime returns the token's validity window.
func (t *AccessToken) Lifetime() Lifetime {
	return t.lifetime
}

// Scope is always empty: granted scope is not echoed back by the provider.
func (t *AccessToken) Scope() string {
	return ""
}

// Expired reports whether the token can no longer be used.
func (t *AccessToken) Expired() bool {
	return t.lifetime.Expired()
}

type accessTokenJSON struct {
	Email       *string  `json:"email,omitempty"`
	UserID      uint64   `json:"user_id"`
	AccessToken string   `json:"access_token"`
	Expires     Lifetime `json:"expires"`
}

// MarshalJSON encodes the token with its expiry as a Unix timestamp.
func (t *AccessToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(accessTokenJSON{
		Email:       t.email,
		UserID:      t.userID,
		AccessToken: t.accessToken,
		Expires:     t.lifetime,
	})
}

// UnmarshalJSON decodes a token produced by MarshalJSON.
func (t *AccessToken) UnmarshalJSON(data []byte) error {
	var v accessTokenJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = AccessToken{
		email:       v.Email,
		userID:      v.UserID,
		accessToken: v.AccessToken,
		lifetime:    v.Expires,
	}
	return nil
}
