package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Append(ctx context.Context, e *models.HistoryEntry) error {
	query := `INSERT INTO modification_history (artefact_id, account_id, action, kind, title, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		e.ArtefactID, e.AccountID, string(e.Action), string(e.Kind), e.Title, dbx.FormatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get history id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, artefactID *int64) ([]models.HistoryEntry, error) {
	query := `SELECT h.id, h.artefact_id, h.account_id, COALESCE(a.username, ''), h.action, h.kind, h.title, h.created_at
		FROM modification_history h
		LEFT JOIN accounts a ON a.id = h.account_id`
	var args []any
	if artefactID != nil {
		query += ` WHERE h.artefact_id = ?`
		args = append(args, *artefactID)
	}
	query += ` ORDER BY h.created_at, h.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryEntry
	for rows.Next() {
		var (
			e            models.HistoryEntry
			action, kind string
			created      string
		)
		if err := rows.Scan(&e.ID, &e.ArtefactID, &e.AccountID, &e.Username, &action, &kind, &e.Title, &created); err != nil {
			return nil, err
		}
		e.Action = models.Action(action)
		e.Kind = models.ArtefactKind(kind)
		if e.CreatedAt, err = dbx.ParseTime(created); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Latest(ctx context.Context, artefactID int64) (time.Time, bool, error) {
	var ts sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(created_at) FROM modification_history WHERE artefact_id = ?`, artefactID).Scan(&ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("db error: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	t, err := dbx.ParseTime(ts.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
