package cli

import (
	"errors"

	"github.com/dmitrijs2005/musicarchive/internal/common"
)

var errUsage = errors.New("usage")

// describe turns an archive error into the message shown in the shell.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrorIntegrityViolation):
		return "integrity check failed: the stored payload does not match its checksum and was withheld"
	case errors.Is(err, common.ErrorNotFound):
		return "not found"
	case errors.Is(err, common.ErrorUnauthenticated):
		return "please log in first"
	case errors.Is(err, common.ErrorPermissionDenied):
		return "permission denied: this action requires the admin role"
	case errors.Is(err, common.ErrorDuplicateUsername):
		return "that username is already taken"
	case errors.Is(err, common.ErrorDuplicateEmail):
		return "that email address is already registered"
	case errors.Is(err, common.ErrorUnknownUser):
		return "unknown user"
	case errors.Is(err, common.ErrorInvalidCredentials):
		return "invalid password"
	case errors.Is(err, common.ErrorValidation), errors.Is(err, errUsage):
		return err.Error()
	default:
		return "unexpected error: " + err.Error()
	}
}
