package notifications

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/menu-studio/internal/export"
)

// Event names what happened.
type Event string

const (
	EventExportSucceeded Event = "export.succeeded"
	EventExportFailed    Event = "export.failed"
)

// Notification is the JSON body POSTed to every webhook.
type Notification struct {
	ID        string      `json:"id"`
	Event     Event       `json:"event"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Kind      export.Kind `json:"kind"`
	Files     []string    `json:"files"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// FromRun describes a finished export run.
func FromRun(run export.Run) Notification {
	n := Notification{
		ID:        uuid.New().String(),
		Event:     EventExportSucceeded,
		Kind:      run.Kind,
		Files:     append([]string{}, run.Files...),
		Error:     run.Error,
		CreatedAt: run.FinishedAt,
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if run.Status == export.StatusFailed {
		n.Event = EventExportFailed
		n.Title = fmt.Sprintf("%s export failed", run.Kind)
		n.Message = run.Error
		return n
	}
	n.Title = fmt.Sprintf("%s export ready", run.Kind)
	n.Message = fmt.Sprintf("%d file(s) exported", len(run.Files))
	return n
}
