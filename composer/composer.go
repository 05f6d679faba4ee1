// Package composer owns in-progress prescription drafts: one buffer per
// patient with a tracked caret, catalog-block insertion and one-shot
// prefilling from a prior prescription. Drafts live only in memory; they
// become durable through the exporter's persist operation.
package composer

import (
	"strings"
	"sync"
	"time"

	"github.com/fernheilpraxis/clinic-api/entities"
)

type draftState struct {
	draft entities.PrescriptionDraft
	caret int
}

// Composer manages the draft per patient and the hand-off slot feeding new
// drafts.
type Composer struct {
	mu      sync.Mutex
	drafts  map[string]*draftState
	handoff *HandoffSlot
}

// New creates a composer with no open drafts.
func New() *Composer {
	return &Composer{
		drafts:  make(map[string]*draftState),
		handoff: NewHandoffSlot(),
	}
}

// Handoff exposes the hand-off slot so the prescriptions API can copy a
// prior prescription forward.
func (c *Composer) Handoff() *HandoffSlot {
	return c.handoff
}

// StageHandoff queues a one-shot prefill for the patient's next draft load.
// A payload staged while another is pending replaces it.
func (c *Composer) StageHandoff(patientID string, payload entities.HandoffPayload) {
	c.handoff.Put(patientID, payload)
}

// Draft returns the patient's current draft, creating it when none is open.
// A pending hand-off payload is consumed exactly here: it overwrites coach
// name, date and body wholesale and is cleared so a later visit sees the
// draft's own state, not the payload again.
func (c *Composer) Draft(patientID string) entities.PrescriptionDraft {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.ensureDraft(patientID)

	if payload, ok := c.handoff.Take(patientID); ok {
		state.draft.CoachName = payload.CoachName
		state.draft.Date = normalizeDate(payload.Date)
		state.draft.BodyText = payload.Content
		state.caret = len(state.draft.BodyText)
	}

	return state.draft
}

// Edit replaces the body text verbatim and records the caret reported by the
// edit surface.
func (c *Composer) Edit(patientID, bodyText string, caret int) entities.PrescriptionDraft {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.ensureDraft(patientID)
	state.draft.BodyText = bodyText
	state.caret = clampCaret(caret, len(bodyText))
	return state.draft
}

// SetMeta updates the coach name and calendar date without touching the body.
func (c *Composer) SetMeta(patientID, coachName, date string) entities.PrescriptionDraft {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.ensureDraft(patientID)
	state.draft.CoachName = coachName
	state.draft.Date = normalizeDate(date)
	return state.draft
}

// InsertAtCursor splices block into the body. caret is the position the edit
// surface reports at insertion time; a negative caret means the surface had
// no selection, in which case the last recorded position is used and, absent
// that, end of text. The caret advances to just after the insertion.
func (c *Composer) InsertAtCursor(patientID, block string, caret int) entities.PrescriptionDraft {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.ensureDraft(patientID)
	body := state.draft.BodyText

	pos := caret
	if pos < 0 {
		pos = state.caret
	}
	pos = clampCaret(pos, len(body))

	state.draft.BodyText = body[:pos] + block + body[pos:]
	state.caret = pos + len(block)
	return state.draft
}

// Discard drops the patient's draft without persisting it.
func (c *Composer) Discard(patientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.drafts, patientID)
}

// caller must hold c.mu
func (c *Composer) ensureDraft(patientID string) *draftState {
	state, ok := c.drafts[patientID]
	if !ok {
		state = &draftState{
			draft: entities.PrescriptionDraft{
				Date:      time.Now().Format("2006-01-02"),
				PatientID: patientID,
			},
		}
		c.drafts[patientID] = state
	}
	return state
}

func clampCaret(caret, max int) int {
	if caret < 0 {
		return max
	}
	if caret > max {
		return max
	}
	return caret
}

// normalizeDate reduces an ISO timestamp ("2024-05-01T00:00:00.000Z") to the
// calendar date the draft carries. Plain dates pass through.
func normalizeDate(date string) string {
	if i := strings.Index(date, "T"); i > 0 {
		return date[:i]
	}
	return date
}
