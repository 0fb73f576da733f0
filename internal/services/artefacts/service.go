// Package artefacts is the integrity store: it keeps artefact payloads with
// their SHA-256 checksums, refuses to hand out payloads that no longer match,
// and records every mutation in the modification history within the same
// transaction.
//
// Every operation takes the acting credentials.Principal explicitly. Writes,
// history and verification require the admin role; reads are open to any
// authenticated principal.
package artefacts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/musicarchive/internal/common"
	"github.com/dmitrijs2005/musicarchive/internal/cryptox"
	"github.com/dmitrijs2005/musicarchive/internal/dbx"
	"github.com/dmitrijs2005/musicarchive/internal/logging"
	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/repomanager"
	"github.com/dmitrijs2005/musicarchive/internal/services/credentials"
)

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	clock       func() time.Time
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *Service {
	return &Service{db: db, repomanager: m, log: log, clock: time.Now}
}

func (s *Service) authorize(ctx context.Context, p credentials.Principal, perm models.Permission, op string) error {
	if p.IsZero() {
		return fmt.Errorf("%s: %w", op, common.ErrorUnauthenticated)
	}
	if !p.Role().Allows(perm) {
		s.log.Warn(ctx, "permission denied", "op", op, "username", p.Username(), "role", p.Role().String())
		return fmt.Errorf("%s: %w", op, common.ErrorPermissionDenied)
	}
	return nil
}

// stamp returns the current time, never earlier than last.
func (s *Service) stamp(last time.Time) time.Time {
	now := s.clock().UTC()
	if now.Before(last) {
		return last
	}
	return now
}

// nonNil maps a nil payload to an empty one; nil would bind as NULL.
func nonNil(payload []byte) []byte {
	if payload == nil {
		return []byte{}
	}
	return payload
}

// Store saves a new artefact and returns its id.
func (s *Service) Store(ctx context.Context, p credentials.Principal, kind models.ArtefactKind, title string, payload []byte) (int64, error) {
	if err := s.authorize(ctx, p, models.PermissionWriteArtefacts, "store"); err != nil {
		return 0, err
	}
	title = strings.TrimSpace(title)
	switch {
	case !kind.Valid():
		return 0, fmt.Errorf("%w: unknown artefact kind %q", common.ErrorValidation, kind)
	case title == "":
		return 0, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	payload = nonNil(payload)

	now := s.stamp(time.Time{})
	a := &models.Artefact{
		ArtefactMeta: models.ArtefactMeta{Kind: kind, Title: title, CreatedAt: now, UpdatedAt: now},
		Payload:      payload,
		Checksum:     cryptox.Checksum(payload),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Artefacts(tx).Create(ctx, a); err != nil {
			return err
		}
		return s.repomanager.History(tx).Append(ctx, &models.HistoryEntry{
			ArtefactID: a.ID,
			AccountID:  p.AccountID(),
			Action:     models.ActionCreate,
			Kind:       a.Kind,
			Title:      a.Title,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("store artefact: %w", err)
	}

	s.log.Info(ctx, "artefact stored", "artefact_id", a.ID, "kind", string(kind), "username", p.Username())
	return a.ID, nil
}

// Fetch returns the artefact after checking its payload against the stored
// checksum. On mismatch the payload is withheld and ErrorIntegrityViolation
// is returned.
func (s *Service) Fetch(ctx context.Context, p credentials.Principal, id int64) (*models.Artefact, error) {
	if err := s.authorize(ctx, p, models.PermissionReadArtefacts, "fetch"); err != nil {
		return nil, err
	}

	a, err := s.repomanager.Artefacts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch artefact %d: %w", id, err)
	}

	if computed, ok := cryptox.VerifyChecksum(a.Payload, a.Checksum); !ok {
		s.log.Error(ctx, "integrity violation", "artefact_id", id, "stored", a.Checksum, "computed", computed)
		return nil, fmt.Errorf("fetch artefact %d: %w", id, common.ErrorIntegrityViolation)
	}
	return a, nil
}

// Update replaces the payload of an existing artefact.
func (s *Service) Update(ctx context.Context, p credentials.Principal, id int64, payload []byte) error {
	if err := s.authorize(ctx, p, models.PermissionWriteArtefacts, "update"); err != nil {
		return err
	}
	payload = nonNil(payload)
	checksum := cryptox.Checksum(payload)

	err := s.mutate(ctx, p, id, models.ActionUpdate, func(ctx context.Context, tx dbx.DBTX, now time.Time) error {
		return s.repomanager.Artefacts(tx).UpdatePayload(ctx, id, payload, checksum, now)
	})
	if err != nil {
		return fmt.Errorf("update artefact %d: %w", id, err)
	}

	s.log.Info(ctx, "artefact updated", "artefact_id", id, "username", p.Username())
	return nil
}

// Delete removes an artefact. Its history entries are kept.
func (s *Service) Delete(ctx context.Context, p credentials.Principal, id int64) error {
	if err := s.authorize(ctx, p, models.PermissionWriteArtefacts, "delete"); err != nil {
		return err
	}

	err := s.mutate(ctx, p, id, models.ActionDelete, func(ctx context.Context, tx dbx.DBTX, _ time.Time) error {
		return s.repomanager.Artefacts(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete artefact %d: %w", id, err)
	}

	s.log.Info(ctx, "artefact deleted", "artefact_id", id, "username", p.Username())
	return nil
}

// mutate runs change and the matching history append in one transaction.
// The timestamp handed to change is clamped to the artefact's latest one.
func (s *Service) mutate(ctx context.Context, p credentials.Principal, id int64, action models.Action,
	change func(ctx context.Context, tx dbx.DBTX, now time.Time) error) error {

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta, err := s.repomanager.Artefacts(tx).GetMeta(ctx, id)
		if err != nil {
			return err
		}
		hist := s.repomanager.History(tx)

		last := meta.UpdatedAt
		if ts, ok, err := hist.Latest(ctx, id); err != nil {
			return err
		} else if ok && ts.After(last) {
			last = ts
		}
		now := s.stamp(last)

		if err := change(ctx, tx, now); err != nil {
			return err
		}
		return hist.Append(ctx, &models.HistoryEntry{
			ArtefactID: id,
			AccountID:  p.AccountID(),
			Action:     action,
			Kind:       meta.Kind,
			Title:      meta.Title,
			CreatedAt:  now,
		})
	})
}

// List returns artefact metadata ordered by id, optionally filtered by kind.
// Checksums are not verified.
func (s *Service) List(ctx context.Context, p credentials.Principal, kind *models.ArtefactKind) ([]models.ArtefactMeta, error) {
	if err := s.authorize(ctx, p, models.PermissionReadArtefacts, "list"); err != nil {
		return nil, err
	}
	if kind != nil && !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown artefact kind %q", common.ErrorValidation, *kind)
	}

	items, err := s.repomanager.Artefacts(s.db).List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list artefacts: %w", err)
	}
	return items, nil
}

// History returns modification history ordered by time, for one artefact
// when artefactID is non-nil.
func (s *Service) History(ctx context.Context, p credentials.Principal, artefactID *int64) ([]models.HistoryEntry, error) {
	if err := s.authorize(ctx, p, models.PermissionReadHistory, "history"); err != nil {
		return nil, err
	}

	entries, err := s.repomanager.History(s.db).List(ctx, artefactID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Verify recomputes every checksum and reports the artefacts that no longer
// match. An empty result means the archive is intact.
func (s *Service) Verify(ctx context.Context, p credentials.Principal) ([]models.IntegrityReport, error) {
	if err := s.authorize(ctx, p, models.PermissionVerifyArchive, "verify"); err != nil {
		return nil, err
	}

	all, err := s.repomanager.Artefacts(s.db).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify archive: %w", err)
	}

	var reports []models.IntegrityReport
	for _, a := range all {
		computed, ok := cryptox.VerifyChecksum(a.Payload, a.Checksum)
		if ok {
			continue
		}
		s.log.Error(ctx, "integrity violation", "artefact_id", a.ID, "stored", a.Checksum, "computed", computed)
		reports = append(reports, models.IntegrityReport{
			ArtefactID: a.ID,
			Kind:       a.Kind,
			Title:      a.Title,
			Stored:     a.Checksum,
			Computed:   computed,
		})
	}

	s.log.Info(ctx, "archive verified", "artefacts", len(all), "violations", len(reports))
	return reports, nil
}
