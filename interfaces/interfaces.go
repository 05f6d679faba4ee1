// Package interfaces defines core abstractions for the clinic API to improve
// testability and keep the packages loosely coupled.
package interfaces

import (
	"context"
	"time"

	"github.com/fernheilpraxis/clinic-api/entities"
)

// CatalogIndex is the read-mostly remedy catalog: an in-memory snapshot that
// serves search and lookup without touching the store, refreshed as a whole.
type CatalogIndex interface {
	// Snapshot access
	Remedies() []entities.Remedy
	Remedy(id string) (entities.Remedy, bool)
	Search(term string) []entities.Remedy
	Size() int

	// Refresh state
	Refresh(ctx context.Context) error
	LastUpdated() time.Time
	IsUpdating() bool
}

// Scheduler manages the periodic catalog refresh and staleness monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// DraftComposer holds per-patient prescription drafts and applies caret-based
// edits to them.
type DraftComposer interface {
	Draft(patientID string) entities.PrescriptionDraft
	Edit(patientID, bodyText string, caret int) entities.PrescriptionDraft
	SetMeta(patientID, coachName, date string) entities.PrescriptionDraft
	InsertAtCursor(patientID, block string, caret int) entities.PrescriptionDraft
	Discard(patientID string)
	StageHandoff(patientID string, payload entities.HandoffPayload)
}

// SessionGate is the passcode barrier in front of the application.
type SessionGate interface {
	Login(ctx context.Context, passcode string) (string, error)
	Authenticate(token string) error
	Logout(token string)
	ChangePasscode(ctx context.Context, current, next, confirm string) error
}
