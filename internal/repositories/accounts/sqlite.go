package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/musicarchive/internal/common"
	"github.com/dmitrijs2005/musicarchive/internal/dbx"
	"github.com/dmitrijs2005/musicarchive/internal/models"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateProfile(ctx context.Context, p *models.Profile) error {
	query := `INSERT INTO profiles (first_name, last_name, date_of_birth, email, created_at)
		VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		p.FirstName, p.LastName, p.DateOfBirth, p.Email, dbx.FormatTime(p.CreatedAt))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", common.ErrorDuplicateEmail, p.Email)
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get profile id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) error {
	query := `INSERT INTO accounts (profile_id, username, password_hash, salt, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		a.ProfileID, a.Username, a.PasswordHash, a.Salt, a.Role.String(), dbx.FormatTime(a.CreatedAt))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", common.ErrorDuplicateUsername, a.Username)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get account id: %w", err)
	}
	a.ID = id
	return nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT a.id, a.profile_id, a.username, a.password_hash, a.salt, a.role, a.created_at,
			p.first_name, p.last_name, p.date_of_birth, p.email, p.created_at
		FROM accounts a
		JOIN profiles p ON p.id = a.profile_id
		WHERE a.username = ?`

	var (
		a                    models.Account
		role                 string
		created, profCreated string
	)
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&a.ID, &a.ProfileID, &a.Username, &a.PasswordHash, &a.Salt, &role, &created,
		&a.Profile.FirstName, &a.Profile.LastName, &a.Profile.DateOfBirth, &a.Profile.Email, &profCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if a.Role, err = models.ParseRole(role); err != nil {
		return nil, fmt.Errorf("account %d: %w", a.ID, err)
	}
	if a.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	if a.Profile.CreatedAt, err = dbx.ParseTime(profCreated); err != nil {
		return nil, err
	}
	a.Profile.ID = a.ProfileID
	return &a, nil
}

func (r *SQLiteRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = ?)`, username)
}

func (r *SQLiteRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE email = ?)`, email)
}

func (r *SQLiteRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}
