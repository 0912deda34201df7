package services

import (
	"time"

	"github.com/custodia-labs/vkauth/internal/core/domain"
	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
)

// Token response field names and the types reported when they do not parse.
const (
	fieldEmail       = "email"
	fieldUserID      = "user_id"
	fieldAccessToken = "access_token"
	fieldExpiresIn   = "expires_in"

	typeString = "string"
	typeU64    = "u64"
	typeI64    = "i64"
)

// ParseAccessToken builds an AccessToken from a token endpoint response.
// Fields are read in order: email (optional), user_id, access_token, then
// the lifetime from expires_in relative to now. The first missing or
// mistyped required field aborts the parse.
func ParseAccessToken(p driven.Payload, now time.Time) (*domain.AccessToken, error) {
	// email is only present when the email permission was granted.
	var email *string
	if v, ok := p.String(fieldEmail); ok {
		email = &v
	}

	userID, ok := p.Uint(fieldUserID)
	if !ok {
		return nil, domain.ExpectedFieldType(fieldUserID, typeU64)
	}

	token, ok := p.String(fieldAccessToken)
	if !ok {
		return nil, domain.ExpectedFieldType(fieldAccessToken, typeString)
	}

	lifetime, err := ParseLifetime(p, now)
	if err != nil {
		return nil, err
	}

	return domain.NewAccessToken(email, userID, token, lifetime), nil
}

// ParseLifetime reads expires_in seconds relative to now.
func ParseLifetime(p driven.Payload, now time.Time) (domain.Lifetime, error) {
	seconds, ok := p.Int(fieldExpiresIn)
	if !ok {
		return domain.Lifetime{}, domain.ExpectedFieldType(fieldExpiresIn, typeI64)
	}
	return domain.NewLifetime(now, seconds), nil
}
