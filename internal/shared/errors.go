package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authorization errors
	ErrAuthorization    = fmt.Errorf("authorization failed")
	ErrMissingVerifier  = fmt.Errorf("%w: PKCE verifier not found", ErrAuthorization)
	ErrStateMismatch    = fmt.Errorf("%w: state parameter mismatch", ErrAuthorization)
	ErrTokenExchange    = fmt.Errorf("%w: token exchange failed", ErrAuthorization)
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog API errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrRateLimitExceeded  = fmt.Errorf("rate limit retries exhausted")
	ErrMalformedResponse  = fmt.Errorf("malformed response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Sync pipeline errors
	ErrEmptyInput       = fmt.Errorf("nothing to synchronize")
	ErrAbortedAtProfile = fmt.Errorf("sync aborted: could not resolve user profile")
	ErrAbortedAtCreate  = fmt.Errorf("sync aborted: could not create playlist")
	ErrAppendFailed     = fmt.Errorf("failed to add tracks to playlist")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// IsAuthorization reports whether err stems from the login sequence rather than the catalog.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrAuthorization)
}
