package handlers

import (
	"net/http"

	"github.com/fernheilpraxis/clinic-api/catalog"
	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/go-chi/chi/v5"
)

func fieldsFromRemedy(rem entities.Remedy) map[string]any {
	return map[string]any{
		"name":         rem.Name,
		"source":       rem.Source,
		"instructions": rem.Instructions,
		"notes":        rem.Notes,
	}
}

// ListRemedies serves the catalog snapshot. An optional ?q= term narrows it
// by case-insensitive substring match; search never hits the store.
func (h *Handler) ListRemedies(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	RespondWithJSON(w, http.StatusOK, h.catalog.Search(term))
}

// GetRemedy returns a single remedy from the snapshot.
func (h *Handler) GetRemedy(w http.ResponseWriter, r *http.Request) {
	remedyID := chi.URLParam(r, "remedyId")

	rem, ok := h.catalog.Remedy(remedyID)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "remedy not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, rem)
}

// ServePasteBlock returns the text block a remedy flattens to when inserted
// into a draft.
func (h *Handler) ServePasteBlock(w http.ResponseWriter, r *http.Request) {
	remedyID := chi.URLParam(r, "remedyId")

	rem, ok := h.catalog.Remedy(remedyID)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "remedy not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{
		"remedyId": rem.ID,
		"block":    catalog.PasteBlock(rem),
	})
}

// CreateRemedy adds a remedy to the store and refreshes the snapshot so the
// new entry is searchable immediately.
func (h *Handler) CreateRemedy(w http.ResponseWriter, r *http.Request) {
	var rem entities.Remedy
	if err := decodeJSONBody(r, &rem); err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.validator.ValidateRemedy(&rem); err != nil {
		respondDomainError(w, err)
		return
	}

	id, err := h.store.Add(r.Context(), store.RecipesPath(), fieldsFromRemedy(rem))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	rem.ID = id

	if err := h.catalog.Refresh(r.Context()); err != nil {
		// The write succeeded; the stale snapshot catches up on the next
		// scheduled refresh.
		logging.Warn("Catalog refresh after remedy create failed", "error", err)
	}

	logging.Info("Remedy created", "remedy_id", id)
	RespondWithJSON(w, http.StatusCreated, rem)
}

// UpdateRemedy replaces a remedy and refreshes the snapshot.
func (h *Handler) UpdateRemedy(w http.ResponseWriter, r *http.Request) {
	remedyID := chi.URLParam(r, "remedyId")

	var rem entities.Remedy
	if err := decodeJSONBody(r, &rem); err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.validator.ValidateRemedy(&rem); err != nil {
		respondDomainError(w, err)
		return
	}

	if _, ok := h.catalog.Remedy(remedyID); !ok {
		RespondWithError(w, http.StatusNotFound, "remedy not found")
		return
	}

	if err := h.store.Set(r.Context(), store.RecipePath(remedyID), fieldsFromRemedy(rem)); err != nil {
		respondDomainError(w, err)
		return
	}
	rem.ID = remedyID

	if err := h.catalog.Refresh(r.Context()); err != nil {
		logging.Warn("Catalog refresh after remedy update failed", "error", err)
	}

	RespondWithJSON(w, http.StatusOK, rem)
}

// DeleteRemedy removes a remedy and refreshes the snapshot.
func (h *Handler) DeleteRemedy(w http.ResponseWriter, r *http.Request) {
	remedyID := chi.URLParam(r, "remedyId")

	if _, ok := h.catalog.Remedy(remedyID); !ok {
		RespondWithError(w, http.StatusNotFound, "remedy not found")
		return
	}

	if err := h.store.Delete(r.Context(), store.RecipePath(remedyID)); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.catalog.Refresh(r.Context()); err != nil {
		logging.Warn("Catalog refresh after remedy delete failed", "error", err)
	}

	logging.Info("Remedy deleted", "remedy_id", remedyID)
	w.WriteHeader(http.StatusNoContent)
}
