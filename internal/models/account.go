package models

import "time"

// Profile holds the personal details attached to an account.
type Profile struct {
	ID          int64
	FirstName   string
	LastName    string
	DateOfBirth string // YYYY-MM-DD
	Email       string
	CreatedAt   time.Time
}

// Account is a registered login. PasswordHash and Salt never leave the
// credentials layer in user-facing output.
type Account struct {
	ID           int64
	ProfileID    int64
	Username     string
	PasswordHash []byte
	Salt         []byte
	Role         Role
	CreatedAt    time.Time

	Profile Profile
}
