// Package seed loads a small set of sample songs into an empty archive.
package seed

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/services/credentials"
)

// Song is one sample title with its three artefacts.
type Song struct {
	Title     string
	Lyrics    string
	Score     []byte
	Recording []byte
}

var Songs = []Song{
	{"Song 1", "Lyrics of Song 1", []byte("PDF_BINARY_DATA_1"), []byte("MP3_BINARY_DATA_1")},
	{"Song 2", "Lyrics of Song 2", []byte("PDF_BINARY_DATA_2"), []byte("MP3_BINARY_DATA_2")},
	{"Song 3", "Lyrics of Song 3", []byte("PDF_BINARY_DATA_3"), []byte("MP3_BINARY_DATA_3")},
	{"Song 4", "Lyrics of Song 4", []byte("PDF_BINARY_DATA_4"), []byte("MP3_BINARY_DATA_4")},
	{"Song 5", "Lyrics of Song 5", []byte("PDF_BINARY_DATA_5"), []byte("MP3_BINARY_DATA_5")},
}

// Storer is the part of the artefact store that seeding needs.
type Storer interface {
	Store(ctx context.Context, p credentials.Principal, kind models.ArtefactKind, title string, payload []byte) (int64, error)
}

// Run stores lyrics, score and recording for every sample song and returns
// the new artefact ids in insertion order. It stops at the first error.
func Run(ctx context.Context, store Storer, p credentials.Principal) ([]int64, error) {
	ids := make([]int64, 0, len(Songs)*3)
	for _, song := range Songs {
		items := []struct {
			kind    models.ArtefactKind
			payload []byte
		}{
			{models.KindLyrics, []byte(song.Lyrics)},
			{models.KindScore, song.Score},
			{models.KindRecording, song.Recording},
		}
		for _, it := range items {
			id, err := store.Store(ctx, p, it.kind, song.Title, it.payload)
			if err != nil {
				return ids, fmt.Errorf("seed %s %s: %w", song.Title, it.kind, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
