package composer

import (
	"sync"

	"github.com/fernheilpraxis/clinic-api/entities"
)

// HandoffSlot is a single-item hand-off queue per patient: a prior
// prescription's content parked for the next draft. Take clears the slot
// atomically so a payload is applied at most once.
type HandoffSlot struct {
	mu       sync.Mutex
	payloads map[string]entities.HandoffPayload
}

// NewHandoffSlot creates an empty slot.
func NewHandoffSlot() *HandoffSlot {
	return &HandoffSlot{payloads: make(map[string]entities.HandoffPayload)}
}

// Put parks a payload for the patient, replacing any unconsumed one.
func (s *HandoffSlot) Put(patientID string, payload entities.HandoffPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payloads[patientID] = payload
}

// Take removes and returns the patient's pending payload, if any.
func (s *HandoffSlot) Take(patientID string) (entities.HandoffPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.payloads[patientID]
	if ok {
		delete(s.payloads, patientID)
	}
	return payload, ok
}
