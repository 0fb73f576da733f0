// Package common contains shared constants and sentinel errors used across
// archive components.
package common

const (
	// MinSaltLength is the shortest password salt accepted, in bytes.
	MinSaltLength = 16

	// DateLayout is the wire format for profile dates of birth.
	DateLayout = "2006-01-02"
)
