package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/go-chi/chi/v5"
)

func patientFromDoc(doc store.Document) entities.Patient {
	return entities.Patient{
		ID:       doc.ID,
		Name:     stringField(doc.Fields, "name"),
		Birthday: stringField(doc.Fields, "birthday"),
		Sex:      stringField(doc.Fields, "sex"),
		Age:      intField(doc.Fields, "age"),
	}
}

func fieldsFromPatient(p entities.Patient) map[string]any {
	return map[string]any{
		"name":     p.Name,
		"birthday": p.Birthday,
		"sex":      p.Sex,
		"age":      p.Age,
	}
}

// ListPatients returns all patients, sorted by name. An optional ?q= filter
// narrows the list by case-insensitive substring match on the name.
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context(), store.PatientsPath())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	patients := make([]entities.Patient, 0, len(docs))
	for _, doc := range docs {
		p := patientFromDoc(doc)
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		patients = append(patients, p)
	}

	sort.Slice(patients, func(i, j int) bool {
		return strings.ToLower(patients[i].Name) < strings.ToLower(patients[j].Name)
	})

	RespondWithJSON(w, http.StatusOK, patients)
}

// GetPatient returns a single patient by ID.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	doc, err := h.store.Get(r.Context(), store.PatientPath(patientID))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, patientFromDoc(doc))
}

// CreatePatient adds a new patient record.
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var p entities.Patient
	if err := decodeJSONBody(r, &p); err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.validator.ValidatePatient(&p); err != nil {
		respondDomainError(w, err)
		return
	}

	id, err := h.store.Add(r.Context(), store.PatientsPath(), fieldsFromPatient(p))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	p.ID = id

	logging.Info("Patient created", "patient_id", id)
	RespondWithJSON(w, http.StatusCreated, p)
}

// UpdatePatient replaces a patient record.
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	var p entities.Patient
	if err := decodeJSONBody(r, &p); err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.validator.ValidatePatient(&p); err != nil {
		respondDomainError(w, err)
		return
	}

	// Verify the record exists so an update cannot silently create one.
	if _, err := h.store.Get(r.Context(), store.PatientPath(patientID)); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.store.Set(r.Context(), store.PatientPath(patientID), fieldsFromPatient(p)); err != nil {
		respondDomainError(w, err)
		return
	}
	p.ID = patientID

	RespondWithJSON(w, http.StatusOK, p)
}

// DeletePatient removes a patient record. The patient's prescriptions remain
// in the sub-collection; only the parent record goes away.
func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	if _, err := h.store.Get(r.Context(), store.PatientPath(patientID)); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.store.Delete(r.Context(), store.PatientPath(patientID)); err != nil {
		respondDomainError(w, err)
		return
	}

	h.composer.Discard(patientID)
	logging.Info("Patient deleted", "patient_id", patientID)
	w.WriteHeader(http.StatusNoContent)
}
