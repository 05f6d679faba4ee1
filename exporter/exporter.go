// Package exporter is the persist/export engine for prescription drafts: it
// durably writes a finalized draft under a patient, or renders it into one of
// the two fixed output formats (print HTML, PDF) with the practice
// letterhead. Exports snapshot the draft and never mutate composer state.
package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/fernheilpraxis/clinic-api/config"
	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/metrics"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/fernheilpraxis/clinic-api/validation"
)

// Letterhead is the fixed clinical header reproduced on every export.
type Letterhead struct {
	PracticeName     string
	PractitionerName string
	Website          string
	Contact          string
}

// Exporter persists drafts and renders exports.
type Exporter struct {
	store      store.DocumentStore
	validator  *validation.Validator
	letterhead Letterhead
	logo       *LogoLoader
}

// New creates an exporter with the letterhead and logo from configuration.
func New(st store.DocumentStore, cfg *config.Config) *Exporter {
	return &Exporter{
		store:     st,
		validator: validation.NewValidator(),
		letterhead: Letterhead{
			PracticeName:     cfg.PracticeName,
			PractitionerName: cfg.PractitionerName,
			Website:          cfg.PracticeWebsite,
			Contact:          cfg.PracticeContact,
		},
		logo: NewLogoLoader(cfg.LogoPath),
	}
}

// Persist validates the draft and creates a prescription under the patient's
// sub-collection. The stored date is the chosen calendar date at local
// midnight; createdAt is the persistence timestamp. Validation failures
// return before any write is attempted.
func (e *Exporter) Persist(ctx context.Context, draft entities.PrescriptionDraft) (entities.Prescription, error) {
	if err := e.validator.ValidateDraft(&draft); err != nil {
		metrics.PrescriptionPersists.WithLabelValues("validation_error").Inc()
		return entities.Prescription{}, err
	}

	date, err := time.ParseInLocation("2006-01-02", draft.Date, time.Local)
	if err != nil {
		// ValidateDraft already parsed this; kept as a guard.
		metrics.PrescriptionPersists.WithLabelValues("validation_error").Inc()
		return entities.Prescription{}, &validation.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	createdAt := time.Now()
	fields := map[string]any{
		"coachName": draft.CoachName,
		"content":   draft.BodyText,
		"date":      date,
		"createdAt": createdAt,
	}

	id, err := e.store.Add(ctx, store.PrescriptionsPath(draft.PatientID), fields)
	if err != nil {
		metrics.PrescriptionPersists.WithLabelValues("store_error").Inc()
		metrics.StoreErrors.WithLabelValues("add").Inc()
		return entities.Prescription{}, fmt.Errorf("persist prescription: %w", err)
	}

	metrics.PrescriptionPersists.WithLabelValues("ok").Inc()
	logging.Info("Prescription persisted",
		"patient_id", draft.PatientID,
		"prescription_id", id,
		"coach", draft.CoachName)

	return entities.Prescription{
		ID:        id,
		CoachName: draft.CoachName,
		Content:   draft.BodyText,
		Date:      date,
		CreatedAt: createdAt,
	}, nil
}

// ResolvePatientName fetches the patient's display name. Callers fall back to
// an empty display value when the patient is gone.
func (e *Exporter) ResolvePatientName(ctx context.Context, patientID string) (string, error) {
	doc, err := e.store.Get(ctx, store.PatientPath(patientID))
	if err != nil {
		return "", err
	}
	if name, ok := doc.Fields["name"].(string); ok {
		return name, nil
	}
	return "", nil
}
