// Package common defines shared constants and sentinel errors used across
// the archive layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Credential errors.
	ErrorDuplicateUsername  = errors.New("username already exists")
	ErrorDuplicateEmail     = errors.New("email already registered")
	ErrorUnknownUser        = errors.New("unknown user")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorUnauthenticated    = errors.New("unauthenticated")

	// Authorization errors.
	ErrorPermissionDenied = errors.New("permission denied")

	// Integrity errors. Kept distinct from ErrorNotFound so a tampered or
	// corrupted record is never reported as simply missing.
	ErrorIntegrityViolation = errors.New("integrity violation")
)
