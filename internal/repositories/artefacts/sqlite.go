package artefacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

type scanner interface {
	Scan(dest ...any) error
}

func scanMeta(s scanner, extra ...any) (models.ArtefactMeta, error) {
	var (
		m                models.ArtefactMeta
		kind             string
		created, updated string
	)
	dest := append([]any{&m.ID, &kind, &m.Title, &m.Size, &created, &updated}, extra...)
	if err := s.Scan(dest...); err != nil {
		return m, err
	}

	m.Kind = models.ArtefactKind(kind)
	var err error
	if m.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return m, err
	}
	if m.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return m, err
	}
	return m, nil
}

const metaColumns = `id, kind, title, length(payload), created_at, updated_at`

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Artefact) error {
	query := `INSERT INTO artefacts (kind, title, payload, checksum, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		string(a.Kind), a.Title, a.Payload, a.Checksum, dbx.FormatTime(a.CreatedAt), dbx.FormatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert artefact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get artefact id: %w", err)
	}
	a.ID = id
	a.Size = int64(len(a.Payload))
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Artefact, error) {
	query := `SELECT ` + metaColumns + `, payload, checksum FROM artefacts WHERE id = ?`

	a := &models.Artefact{}
	meta, err := scanMeta(r.db.QueryRowContext(ctx, query, id), &a.Payload, &a.Checksum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	a.ArtefactMeta = meta
	return a, nil
}

func (r *SQLiteRepository) GetMeta(ctx context.Context, id int64) (*models.ArtefactMeta, error) {
	query := `SELECT ` + metaColumns + ` FROM artefacts WHERE id = ?`

	meta, err := scanMeta(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return &meta, nil
}

func (r *SQLiteRepository) UpdatePayload(ctx context.Context, id int64, payload []byte, checksum string, updatedAt time.Time) error {
	query := `UPDATE artefacts SET payload = ?, checksum = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, payload, checksum, dbx.FormatTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("failed to update artefact: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artefacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete artefact: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch ra {
	case 0:
		return common.ErrorNotFound
	case 1:
		return nil
	default:
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
}

func (r *SQLiteRepository) List(ctx context.Context, kind *models.ArtefactKind) ([]models.ArtefactMeta, error) {
	query := `SELECT ` + metaColumns + ` FROM artefacts`
	var args []any
	if kind != nil {
		query += ` WHERE kind = ?`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select artefacts: %w", err)
	}
	defer rows.Close()

	var result []models.ArtefactMeta
	for rows.Next() {
		m, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) All(ctx context.Context) ([]models.Artefact, error) {
	query := `SELECT ` + metaColumns + `, payload, checksum FROM artefacts ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select artefacts: %w", err)
	}
	defer rows.Close()

	var result []models.Artefact
	for rows.Next() {
		var a models.Artefact
		meta, err := scanMeta(rows, &a.Payload, &a.Checksum)
		if err != nil {
			return nil, err
		}
		a.ArtefactMeta = meta
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
