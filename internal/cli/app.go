package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/musicarchive/internal/config"
	"github.com/dmitrijs2005/musicarchive/internal/logging"
	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/repomanager"
	"github.com/dmitrijs2005/musicarchive/internal/services/artefacts"
	"github.com/dmitrijs2005/musicarchive/internal/services/credentials"
	"github.com/dmitrijs2005/musicarchive/internal/storage"
	"github.com/google/uuid"
)

// CredentialService is the account side of the archive used by the shell.
type CredentialService interface {
	RegisterAccount(ctx context.Context, req credentials.RegisterRequest) (*models.Account, error)
	Authenticate(ctx context.Context, username string, password []byte) (credentials.Principal, error)
}

// ArtefactService is the artefact side of the archive used by the shell.
type ArtefactService interface {
	Store(ctx context.Context, p credentials.Principal, kind models.ArtefactKind, title string, payload []byte) (int64, error)
	Fetch(ctx context.Context, p credentials.Principal, id int64) (*models.Artefact, error)
	Update(ctx context.Context, p credentials.Principal, id int64, payload []byte) error
	Delete(ctx context.Context, p credentials.Principal, id int64) error
	List(ctx context.Context, p credentials.Principal, kind *models.ArtefactKind) ([]models.ArtefactMeta, error)
	History(ctx context.Context, p credentials.Principal, artefactID *int64) ([]models.HistoryEntry, error)
	Verify(ctx context.Context, p credentials.Principal) ([]models.IntegrityReport, error)
}

type App struct {
	db        *sql.DB
	creds     CredentialService
	store     ArtefactService
	log       logging.Logger
	principal credentials.Principal
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp opens the archive described by cfg and wires the services. The
// returned App reads from stdin and writes to stdout; Close releases the
// database.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, cfg.DatabasePath, cfg.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	rm := repomanager.NewSQLiteRepositoryManager()
	session := log.With("session", uuid.NewString())

	creds, err := credentials.NewService(db, rm, credentials.OptionsFromConfig(cfg), session)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		db:     db,
		creds:  creds,
		store:  artefacts.NewService(db, rm, session),
		log:    session,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return !a.principal.IsZero()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s %s)", a.principal.Username(), a.principal.Role())
}

// Run starts the interactive shell and blocks until the user leaves it or
// input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to the music archive (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
