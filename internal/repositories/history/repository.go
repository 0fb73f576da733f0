// Package history stores the append-only modification log. Entries are only
// ever inserted; the schema rejects UPDATE and DELETE on the table.
package history

import (
	"context"
	"time"

	"github.com/dmitrijs2005/musicarchive/internal/models"
)

type Repository interface {
	// Append inserts e and sets e.ID.
	Append(ctx context.Context, e *models.HistoryEntry) error

	// List returns entries ordered by (timestamp, id), for one artefact when
	// artefactID is non-nil. Username is filled from the acting account.
	List(ctx context.Context, artefactID *int64) ([]models.HistoryEntry, error)

	// Latest returns the newest timestamp recorded for the artefact; ok is
	// false when it has no entries.
	Latest(ctx context.Context, artefactID int64) (ts time.Time, ok bool, err error)
}
