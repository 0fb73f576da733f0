package accounts

import (
	"context"

	"github.com/dmitrijs2005/musicarchive/internal/models"
)

// Repository describes account and profile persistence.
type Repository interface {
	// CreateProfile inserts p and sets p.ID.
	CreateProfile(ctx context.Context, p *models.Profile) error

	// Create inserts a and sets a.ID. a.ProfileID must reference an existing profile.
	Create(ctx context.Context, a *models.Account) error

	// GetByUsername returns the account with its profile.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
