// Package repomanager vends repository implementations bound to a DBTX, so
// services can obtain the same repositories on *sql.DB or inside a
// transaction.
package repomanager

import (
	"github.com/dmitrijs2005/musicarchive/internal/dbx"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/accounts"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/artefacts"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/history"
)

type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	Artefacts(db dbx.DBTX) artefacts.Repository
	History(db dbx.DBTX) history.Repository
}

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Artefacts(db dbx.DBTX) artefacts.Repository {
	return artefacts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) History(db dbx.DBTX) history.Repository {
	return history.NewSQLiteRepository(db)
}
