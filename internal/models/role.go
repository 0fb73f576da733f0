// Package models defines the archive's domain types: accounts and their
// roles, artefacts and their kinds, and modification history entries.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/musicarchive/internal/common"
)

// Role is the closed set of account roles. The zero value is not a role.
type Role uint8

const (
	RoleUser Role = iota + 1
	RoleAdmin
)

// Permission names an operation subject to role checks.
type Permission uint8

const (
	PermissionReadArtefacts Permission = iota + 1
	PermissionWriteArtefacts
	PermissionReadHistory
	PermissionVerifyArchive
)

// ParseRole accepts "user" or "admin", case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Allows reports whether r grants p. Unknown roles and permissions get nothing.
func (r Role) Allows(p Permission) bool {
	switch r {
	case RoleAdmin:
		switch p {
		case PermissionReadArtefacts, PermissionWriteArtefacts, PermissionReadHistory, PermissionVerifyArchive:
			return true
		}
	case RoleUser:
		switch p {
		case PermissionReadArtefacts:
			return true
		}
	}
	return false
}

func (p Permission) String() string {
	switch p {
	case PermissionReadArtefacts:
		return "read artefacts"
	case PermissionWriteArtefacts:
		return "write artefacts"
	case PermissionReadHistory:
		return "read history"
	case PermissionVerifyArchive:
		return "verify archive"
	default:
		return fmt.Sprintf("Permission(%d)", uint8(p))
	}
}
