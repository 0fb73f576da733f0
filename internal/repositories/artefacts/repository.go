// Package artefacts persists artefact records: payload, checksum and metadata.
// Checksums are computed by the caller; this layer stores what it is given.
package artefacts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/musicarchive/internal/models"
)

// Repository describes artefact persistence. Missing rows are reported as
// common.ErrorNotFound.
type Repository interface {
	// Create inserts a and sets a.ID.
	Create(ctx context.Context, a *models.Artefact) error

	// GetByID returns the full record including payload and stored checksum.
	GetByID(ctx context.Context, id int64) (*models.Artefact, error)

	// GetMeta returns the record without payload or checksum.
	GetMeta(ctx context.Context, id int64) (*models.ArtefactMeta, error)

	UpdatePayload(ctx context.Context, id int64, payload []byte, checksum string, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error

	// List returns metadata ordered by id, optionally filtered by kind.
	List(ctx context.Context, kind *models.ArtefactKind) ([]models.ArtefactMeta, error)

	// All returns every full record ordered by id.
	All(ctx context.Context) ([]models.Artefact, error)
}
