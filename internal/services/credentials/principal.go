package credentials

import "github.com/dmitrijs2005/musicarchive/internal/models"

// Principal is an authenticated account. Only this package can produce a
// non-zero Principal; the zero value is rejected by every artefact operation.
type Principal struct {
	accountID int64
	username  string
	role      models.Role
}

func (p Principal) AccountID() int64  { return p.accountID }
func (p Principal) Username() string  { return p.username }
func (p Principal) Role() models.Role { return p.role }

// IsZero reports whether p was not obtained from Authenticate.
func (p Principal) IsZero() bool { return p.accountID == 0 || !p.role.Valid() }

func newPrincipal(a *models.Account) Principal {
	return Principal{accountID: a.ID, username: a.Username, role: a.Role}
}
