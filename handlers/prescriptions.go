package handlers

import (
	"net/http"
	"sort"

	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/go-chi/chi/v5"
)

func prescriptionFromDoc(doc store.Document) entities.Prescription {
	return entities.Prescription{
		ID:        doc.ID,
		CoachName: stringField(doc.Fields, "coachName"),
		Content:   stringField(doc.Fields, "content"),
		Date:      timeField(doc.Fields, "date"),
		CreatedAt: timeField(doc.Fields, "createdAt"),
	}
}

// ListPrescriptions returns a patient's prescriptions, newest first.
func (h *Handler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	if _, err := h.store.Get(r.Context(), store.PatientPath(patientID)); err != nil {
		respondDomainError(w, err)
		return
	}

	docs, err := h.store.List(r.Context(), store.PrescriptionsPath(patientID))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	prescriptions := make([]entities.Prescription, 0, len(docs))
	for _, doc := range docs {
		prescriptions = append(prescriptions, prescriptionFromDoc(doc))
	}

	sort.Slice(prescriptions, func(i, j int) bool {
		return prescriptions[i].CreatedAt.After(prescriptions[j].CreatedAt)
	})

	RespondWithJSON(w, http.StatusOK, prescriptions)
}

// GetPrescription returns a single stored prescription.
func (h *Handler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")
	prescriptionID := chi.URLParam(r, "prescriptionId")

	doc, err := h.store.Get(r.Context(), store.PrescriptionPath(patientID, prescriptionID))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, prescriptionFromDoc(doc))
}

// DeletePrescription removes a stored prescription.
func (h *Handler) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")
	prescriptionID := chi.URLParam(r, "prescriptionId")

	path := store.PrescriptionPath(patientID, prescriptionID)
	if _, err := h.store.Get(r.Context(), path); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.store.Delete(r.Context(), path); err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Info("Prescription deleted",
		"patient_id", patientID,
		"prescription_id", prescriptionID)
	w.WriteHeader(http.StatusNoContent)
}

// CopyToDraft stages a stored prescription as the one-shot prefill for the
// patient's next draft. The prefill is consumed by the first draft load and
// never overwrites a draft already being edited.
func (h *Handler) CopyToDraft(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")
	prescriptionID := chi.URLParam(r, "prescriptionId")

	doc, err := h.store.Get(r.Context(), store.PrescriptionPath(patientID, prescriptionID))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	p := prescriptionFromDoc(doc)
	payload := entities.HandoffPayload{
		CoachName: p.CoachName,
		Date:      p.Date.Format("2006-01-02"),
		Content:   p.Content,
	}
	h.composer.StageHandoff(patientID, payload)

	logging.Info("Prescription staged for draft",
		"patient_id", patientID,
		"prescription_id", prescriptionID)
	RespondWithJSON(w, http.StatusOK, payload)
}
