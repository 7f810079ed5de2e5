package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the request guards and the OAuth exchange. Every
// rejection surfaced by the HTTP layer maps to exactly one of these.
var (
	// Bearer extraction errors
	ErrMissingAuth = errors.New("authorization header missing")
	ErrBadScheme   = errors.New("invalid authentication scheme")

	// Token verification errors
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformed        = errors.New("malformed token")
	ErrMissingClaim     = errors.New("token missing required claim")
	ErrExpired          = errors.New("token expired")
	ErrInactive         = errors.New("inactive user")

	// OAuth exchange errors
	ErrMissingCode     = errors.New("authorization code not found")
	ErrMissingVerifier = errors.New("pkce verifier not found")

	// Service key errors
	ErrBadServiceKey = errors.New("invalid service key")
)

// ProviderError carries the identity provider's own error code and
// description through a failed token exchange untouched, so the client can
// decide whether to restart the flow.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider rejected exchange: %s", e.Code)
	}
	return fmt.Sprintf("provider rejected exchange: %s: %s", e.Code, e.Description)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
