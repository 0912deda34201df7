package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownPermission indicates a permission name outside the enumeration.
	ErrUnknownPermission = errors.New("unknown permission")

	// ErrInvalidConfig indicates the app registration is incomplete or malformed.
	ErrInvalidConfig = errors.New("invalid app configuration")

	// OAuth Errors.

	// ErrInvalidAuthURI indicates the authorization URI could not be built.
	ErrInvalidAuthURI = errors.New("invalid authorization uri")

	// ErrTokenRequest indicates the code exchange with the token endpoint failed.
	ErrTokenRequest = errors.New("token request failed")

	// ErrAuthExpired indicates the access token has expired.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAuthRequired indicates an operation needs an access token but none was given.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnexpectedResponse indicates a response body could not be decoded at all.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// ParseError reports a token response field that is missing or has the
// wrong JSON type.
type ParseError struct {
	Field    string
	Expected string
}

// ExpectedFieldType returns a ParseError for the named field and expected type.
func ExpectedFieldType(field, expected string) *ParseError {
	return &ParseError{Field: field, Expected: expected}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected field %q of type %s", e.Field, e.Expected)
}

// ProviderError is a failure reported by, or while talking to, the OAuth
// provider. Code and Description hold the provider's error payload when one
// was returned.
type ProviderError struct {
	Op          string
	StatusCode  int
	Code        string
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	msg := "oauth: " + e.Op
	switch {
	case e.Code != "":
		msg += ": " + e.Code
		if e.Description != "" {
			msg += " - " + e.Description
		}
	case e.StatusCode != 0:
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
