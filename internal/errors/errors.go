package errors

import (
	"errors"
	"fmt"
)

// Common error types for the OAuth2 client
var (
	// Flow errors
	ErrStateMismatch         = errors.New("state mismatch, possible CSRF attack")
	ErrLoginInitiationFailed = errors.New("failed to initiate login")
	ErrAuthenticationFailed  = errors.New("authentication failed")
	ErrTokenExchangeFailed   = errors.New("token exchange failed")
	ErrTokenRefreshFailed    = errors.New("token refresh failed")

	// Token errors
	ErrNoAccessToken  = errors.New("no access token stored")
	ErrNoRefreshToken = errors.New("no refresh token stored")
	ErrTokenExpired   = errors.New("token expired")

	// Storage errors
	ErrKeyNotFound = errors.New("key not found")

	// Discovery errors
	ErrDiscoveryFailed = errors.New("endpoint discovery failed")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

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
