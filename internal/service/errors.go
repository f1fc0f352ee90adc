// Package service implements the request-scoped business flows of the
// application: authentication, the password setup/reset lifecycle and
// the bulk inventory import. Services depend on narrow store
// interfaces so the flows can be exercised without a database.
package service

import "errors"

// Error taxonomy. Validation and credential errors are recovered into
// structured responses at the handler boundary; anything else is an
// infrastructure failure and is surfaced verbatim.
var (
	// ErrValidation marks malformed input. Wrapped with a specific
	// message, e.g. a too-short password.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidToken covers setup tokens that never existed and
	// tokens that were already consumed. Deliberately one error, so
	// the caller learns nothing about which it was.
	ErrInvalidToken = errors.New("invalid or already used token")

	// ErrExpiredToken is explicit, unlike ErrInvalidToken: a token's
	// age is observable anyway, and the UI wants to offer re-sending.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidCredentials is the single answer for an unknown NIP,
	// an account without a password and a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
