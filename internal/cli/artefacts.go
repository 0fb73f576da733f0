package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/seed"
)

func parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s (id must be a positive number)", errUsage, usage)
	}
	return id, nil
}

// List prints artefact metadata, optionally only of the kind given in args.
func (a *App) List(ctx context.Context, args []string) error {
	var kind *models.ArtefactKind
	if len(args) > 0 {
		k, err := models.ParseArtefactKind(args[0])
		if err != nil {
			return err
		}
		kind = &k
	}

	items, err := a.store.List(ctx, a.principal, kind)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No artefacts")
		return nil
	}
	for _, item := range items {
		fmt.Fprintln(a.out, item)
	}
	return nil
}

// Show prints a verified artefact. With a second argument the payload is
// written to that file instead.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id> [file]")
	if err != nil {
		return err
	}

	art, err := a.store.Fetch(ctx, a.principal, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, art.ArtefactMeta)
	fmt.Fprintf(a.out, "SHA-256: %s\n", art.Checksum)

	switch {
	case len(args) > 1:
		if err := writeFile(args[1], art.Payload); err != nil {
			return fmt.Errorf("save payload: %w", err)
		}
		fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(art.Payload), args[1])
	case art.Kind == models.KindLyrics:
		fmt.Fprintln(a.out, string(art.Payload))
	default:
		fmt.Fprintf(a.out, "%d bytes of binary data; use 'show %d <file>' to save it\n", len(art.Payload), id)
	}
	return nil
}

// Add prompts for kind, title and payload and stores a new artefact.
func (a *App) Add(ctx context.Context) error {
	kindText, err := getSimpleText(a.reader, "Enter kind (recording/lyrics/score)", a.out)
	if err != nil {
		return err
	}
	kind, err := models.ParseArtefactKind(kindText)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter song title", a.out)
	if err != nil {
		return err
	}

	payload, err := getPayload(a.reader, a.out)
	if err != nil {
		return err
	}

	id, err := a.store.Store(ctx, a.principal, kind, title, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stored artefact #%d\n", id)
	return nil
}

// Update replaces the payload of the artefact named in args.
func (a *App) Update(ctx context.Context, args []string) error {
	id, err := parseID(args, "update <id>")
	if err != nil {
		return err
	}

	payload, err := getPayload(a.reader, a.out)
	if err != nil {
		return err
	}

	if err := a.store.Update(ctx, a.principal, id, payload); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated artefact #%d\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}

	if err := a.store.Delete(ctx, a.principal, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted artefact #%d\n", id)
	return nil
}

// History prints the modification log, for one artefact when args names it.
func (a *App) History(ctx context.Context, args []string) error {
	var artefactID *int64
	if len(args) > 0 {
		id, err := parseID(args, "history [id]")
		if err != nil {
			return err
		}
		artefactID = &id
	}

	entries, err := a.store.History(ctx, a.principal, artefactID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No history")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, e)
	}
	return nil
}

// Verify checks every stored checksum and prints the mismatches.
func (a *App) Verify(ctx context.Context) error {
	reports, err := a.store.Verify(ctx, a.principal)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(a.out, "All artefacts intact")
		return nil
	}
	fmt.Fprintf(a.out, "%d artefact(s) failed verification:\n", len(reports))
	for _, r := range reports {
		fmt.Fprintf(a.out, "#%d [%s] %s stored=%s computed=%s\n", r.ArtefactID, r.Kind, r.Title, r.Stored, r.Computed)
	}
	return nil
}

// Seed stores the sample songs.
func (a *App) Seed(ctx context.Context) error {
	ids, err := seed.Run(ctx, a.store, a.principal)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stored %d sample artefacts\n", len(ids))
	return nil
}
