package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/musicarchive/internal/common"
)

// ArtefactKind classifies an artefact.
type ArtefactKind string

const (
	KindRecording ArtefactKind = "recording"
	KindLyrics    ArtefactKind = "lyrics"
	KindScore     ArtefactKind = "score"
)

// ArtefactKinds lists every kind in display order.
var ArtefactKinds = []ArtefactKind{KindRecording, KindLyrics, KindScore}

// ParseArtefactKind accepts a kind name, case-insensitively.
func ParseArtefactKind(s string) (ArtefactKind, error) {
	k := ArtefactKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown artefact kind %q", common.ErrorValidation, s)
	}
	return k, nil
}

func (k ArtefactKind) Valid() bool {
	switch k {
	case KindRecording, KindLyrics, KindScore:
		return true
	}
	return false
}

// ArtefactMeta is the listing view of an artefact: no payload, no checksum.
type ArtefactMeta struct {
	ID        int64
	Kind      ArtefactKind
	Title     string
	Size      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Artefact is a stored payload with its checksum. Checksum is the lowercase
// hex SHA-256 of Payload whenever the record is at rest.
type Artefact struct {
	ArtefactMeta
	Payload  []byte
	Checksum string
}

func (m ArtefactMeta) String() string {
	return fmt.Sprintf("#%d [%s] %s (%d bytes, updated %s)",
		m.ID, m.Kind, m.Title, m.Size, m.UpdatedAt.Format(time.DateTime))
}

// IntegrityReport describes one artefact whose payload no longer matches its
// stored checksum.
type IntegrityReport struct {
	ArtefactID int64
	Kind       ArtefactKind
	Title      string
	Stored     string
	Computed   string
}
