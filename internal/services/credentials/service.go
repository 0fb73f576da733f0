// Package credentials registers accounts and authenticates them.
//
// Passwords are never stored. Registration derives an argon2id hash from the
// password and a fresh random salt; authentication recomputes it with the
// stored salt and compares in constant time. A successful Authenticate yields
// the Principal that every artefact operation requires.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/musicarchive/internal/common"
	"github.com/dmitrijs2005/musicarchive/internal/config"
	"github.com/dmitrijs2005/musicarchive/internal/cryptox"
	"github.com/dmitrijs2005/musicarchive/internal/dbx"
	"github.com/dmitrijs2005/musicarchive/internal/logging"
	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/repomanager"
)

// Options tunes password policy and key derivation.
type Options struct {
	MinPasswordLength int
	SaltLength        int
	KDF               cryptox.KDFParams
}

// OptionsFromConfig extracts the credential settings from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinPasswordLength: cfg.MinPasswordLength,
		SaltLength:        cfg.SaltLength,
		KDF:               cfg.KDFParams(),
	}
}

// RegisterRequest carries everything needed to create an account.
type RegisterRequest struct {
	Username string
	Password []byte
	Role     models.Role
	Profile  models.Profile
}

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	opts        Options
	log         logging.Logger
	now         func() time.Time
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, opts Options, log logging.Logger) (*Service, error) {
	if opts.SaltLength < common.MinSaltLength {
		return nil, fmt.Errorf("%w: salt length %d is below %d bytes", common.ErrorValidation, opts.SaltLength, common.MinSaltLength)
	}
	if err := opts.KDF.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		db:          db,
		repomanager: m,
		opts:        opts,
		log:         log,
		now:         time.Now,
	}, nil
}

// RegisterAccount validates req, derives the password hash and persists the
// profile and account in one transaction.
func (s *Service) RegisterAccount(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	salt, err := cryptox.NewSalt(s.opts.SaltLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	now := s.now().UTC()

	acc := &models.Account{
		Username:     req.Username,
		PasswordHash: cryptox.DerivePasswordHash(req.Password, salt, s.opts.KDF),
		Salt:         salt,
		Role:         req.Role,
		CreatedAt:    now,
		Profile:      req.Profile,
	}
	acc.Profile.CreatedAt = now

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		taken, err := repo.UsernameExists(ctx, acc.Username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", common.ErrorDuplicateUsername, acc.Username)
		}
		taken, err = repo.EmailExists(ctx, acc.Profile.Email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", common.ErrorDuplicateEmail, acc.Profile.Email)
		}

		if err := repo.CreateProfile(ctx, &acc.Profile); err != nil {
			return err
		}
		acc.ProfileID = acc.Profile.ID
		return repo.Create(ctx, acc)
	})
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", req.Username, err)
	}

	s.log.Info(ctx, "account registered", "username", acc.Username, "role", acc.Role.String(), "account_id", acc.ID)
	return acc, nil
}

func (s *Service) validate(req *RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Profile.Email = strings.TrimSpace(req.Profile.Email)
	req.Profile.DateOfBirth = strings.TrimSpace(req.Profile.DateOfBirth)

	switch {
	case req.Username == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case len(req.Password) < s.opts.MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, s.opts.MinPasswordLength)
	case !req.Role.Valid():
		return fmt.Errorf("%w: invalid role", common.ErrorValidation)
	case req.Profile.Email == "":
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}

	if req.Profile.DateOfBirth != "" {
		if _, err := time.Parse(common.DateLayout, req.Profile.DateOfBirth); err != nil {
			return fmt.Errorf("%w: date of birth must be YYYY-MM-DD", common.ErrorValidation)
		}
	}
	return nil
}

// Authenticate checks username and password and returns the matching
// Principal. Unknown usernames still pay for one key derivation.
func (s *Service) Authenticate(ctx context.Context, username string, password []byte) (Principal, error) {
	username = strings.TrimSpace(username)

	acc, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = cryptox.DerivePasswordHash(password, common.GenerateRandByteArray(s.opts.SaltLength), s.opts.KDF)
			s.log.Warn(ctx, "authentication failed", "username", username, "reason", "unknown user")
			return Principal{}, common.ErrorUnknownUser
		}
		return Principal{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !cryptox.VerifyPassword(password, acc.Salt, acc.PasswordHash, s.opts.KDF) {
		s.log.Warn(ctx, "authentication failed", "username", username, "reason", "invalid credentials")
		return Principal{}, common.ErrorInvalidCredentials
	}

	s.log.Info(ctx, "authenticated", "username", acc.Username, "role", acc.Role.String())
	return newPrincipal(acc), nil
}
