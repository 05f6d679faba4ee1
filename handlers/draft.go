package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fernheilpraxis/clinic-api/catalog"
	"github.com/fernheilpraxis/clinic-api/lang"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/go-chi/chi/v5"
)

// GetDraft returns the patient's working draft, creating a default one on
// first access. A staged copy-forward payload is consumed here, exactly once.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")
	RespondWithJSON(w, http.StatusOK, h.composer.Draft(patientID))
}

type editDraftRequest struct {
	BodyText string `json:"bodyText"`
	Caret    int    `json:"caret"`
}

// EditDraft replaces the draft body verbatim and records the caret position.
func (h *Handler) EditDraft(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	req := editDraftRequest{Caret: -1}
	if err := decodeJSONBody(r, &req); err != nil {
		respondDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, h.composer.Edit(patientID, req.BodyText, req.Caret))
}

type draftMetaRequest struct {
	CoachName string `json:"coachName"`
	Date      string `json:"date"`
}

// SetDraftMeta updates the draft's coach name and date without touching the
// body text.
func (h *Handler) SetDraftMeta(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	var req draftMetaRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, h.composer.SetMeta(patientID, req.CoachName, req.Date))
}

type insertRemedyRequest struct {
	RemedyID string `json:"remedyId"`
	Caret    int    `json:"caret"`
}

// InsertRemedy flattens the remedy into its paste block and splices it into
// the draft at the caret. A live caret in the request wins over the recorded
// one; with neither, the block lands at the end of the text.
func (h *Handler) InsertRemedy(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	req := insertRemedyRequest{Caret: -1}
	if err := decodeJSONBody(r, &req); err != nil {
		respondDomainError(w, err)
		return
	}

	rem, ok := h.catalog.Remedy(req.RemedyID)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "remedy not found")
		return
	}

	draft := h.composer.InsertAtCursor(patientID, catalog.PasteBlock(rem), req.Caret)
	RespondWithJSON(w, http.StatusOK, draft)
}

// DiscardDraft throws the working draft away.
func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")
	h.composer.Discard(patientID)
	w.WriteHeader(http.StatusNoContent)
}

// PersistDraft validates the draft and stores it as a prescription under the
// patient. The draft is cleared on success. A second persist for the same
// patient while one is running is rejected.
func (h *Handler) PersistDraft(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	key := "persist:" + patientID
	if !h.inflight.tryAcquire(key) {
		RespondWithError(w, http.StatusConflict, "a save for this patient is already in progress")
		return
	}
	defer h.inflight.release(key)

	if _, err := h.store.Get(r.Context(), store.PatientPath(patientID)); err != nil {
		respondDomainError(w, err)
		return
	}

	draft := h.composer.Draft(patientID)
	persisted, err := h.exporter.Persist(r.Context(), draft)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.composer.Discard(patientID)

	// The client navigates back to the patient after a save.
	w.Header().Set("Location", "/patients/"+patientID)
	RespondWithJSON(w, http.StatusCreated, persisted)
}

// ExportDraftPDF renders the draft as a paginated PDF with the practice
// letterhead and returns it as a download.
func (h *Handler) ExportDraftPDF(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	key := "export:" + patientID
	if !h.inflight.tryAcquire(key) {
		RespondWithError(w, http.StatusConflict, "an export for this patient is already in progress")
		return
	}
	defer h.inflight.release(key)

	draft := h.composer.Draft(patientID)
	patientName := h.patientNameOrEmpty(r, patientID)
	locale := lang.FromRequest(r)

	data, filename, err := h.exporter.RenderAsPDF(r.Context(), draft, patientName, locale)
	if err != nil {
		logging.Error("PDF export failed", "patient_id", patientID, "error", err)
		RespondWithError(w, http.StatusInternalServerError, "could not render the PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ExportDraftPrint renders the draft as a self-contained print document.
func (h *Handler) ExportDraftPrint(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientId")

	key := "export:" + patientID
	if !h.inflight.tryAcquire(key) {
		RespondWithError(w, http.StatusConflict, "an export for this patient is already in progress")
		return
	}
	defer h.inflight.release(key)

	draft := h.composer.Draft(patientID)
	patientName := h.patientNameOrEmpty(r, patientID)
	locale := lang.FromRequest(r)

	doc, err := h.exporter.RenderForPrint(r.Context(), draft, patientName, locale)
	if err != nil {
		logging.Error("Print export failed", "patient_id", patientID, "error", err)
		RespondWithError(w, http.StatusInternalServerError, "could not render the print view")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

// patientNameOrEmpty resolves the patient's display name for export
// letterheads. A missing patient is not an export failure.
func (h *Handler) patientNameOrEmpty(r *http.Request, patientID string) string {
	name, err := h.exporter.ResolvePatientName(r.Context(), patientID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.Warn("Could not resolve patient name for export",
				"patient_id", patientID, "error", err)
		}
		return ""
	}
	return name
}
