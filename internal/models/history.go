package models

import (
	"fmt"
	"time"
)

// Action is the kind of artefact mutation a history entry records.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// HistoryEntry is an append-only audit record. Kind and Title are snapshots
// taken at mutation time so entries stay readable after the artefact is gone.
type HistoryEntry struct {
	ID         int64
	ArtefactID int64
	AccountID  int64
	Username   string
	Action     Action
	Kind       ArtefactKind
	Title      string
	CreatedAt  time.Time
}

func (h HistoryEntry) String() string {
	who := h.Username
	if who == "" {
		who = fmt.Sprintf("account#%d", h.AccountID)
	}
	return fmt.Sprintf("%s %-6s #%d [%s] %s by %s",
		h.CreatedAt.Format(time.DateTime), h.Action, h.ArtefactID, h.Kind, h.Title, who)
}
