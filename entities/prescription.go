package entities

import "time"

// Prescription is a persisted, immutable record under a patient. Date is the
// calendar date chosen by the author; CreatedAt is set at persistence time.
type Prescription struct {
	ID        string    `json:"id"`
	CoachName string    `json:"coachName"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// PrescriptionDraft is the in-progress prescription held in composer state.
// It only becomes a Prescription through a successful persist.
type PrescriptionDraft struct {
	CoachName string `json:"coachName"`
	Date      string `json:"date"` // YYYY-MM-DD, no time-of-day
	BodyText  string `json:"bodyText"`
	PatientID string `json:"patientId"`
}

// HandoffPayload carries a prior prescription's content into a fresh draft.
// It is consumed exactly once.
type HandoffPayload struct {
	CoachName string `json:"coachName"`
	Date      string `json:"date"`
	Content   string `json:"content"`
}
