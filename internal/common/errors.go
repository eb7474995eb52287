// Package common contains shared constants and sentinel errors used across
// the pulse-cli client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport / API errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Session errors.
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrMissingCredentials = errors.New("identifier and password are required")
)
