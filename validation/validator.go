// Package validation provides draft and user-input validation for the clinic API.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/fernheilpraxis/clinic-api/entities"
)

// ValidationError reports a missing or malformed required field. Persist
// never writes anything when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Dangerous patterns screened out of search terms and free-text fields before
// they reach the store or an export surface. strings.Contains on a short list
// is faster than a regex here.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "eval(", "expression(", "@import",
	"../", "..\\", "%2e%2e", "file://",
	"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:",
}

// Validator implements draft and input validation.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDraft checks the fields a draft must carry before it may be
// persisted: non-empty coach name, a parseable calendar date and a non-empty
// body. PatientID is checked because every prescription lives under a patient.
func (v *Validator) ValidateDraft(draft *entities.PrescriptionDraft) error {
	if draft == nil {
		return &ValidationError{Field: "draft", Reason: "missing"}
	}
	if strings.TrimSpace(draft.CoachName) == "" {
		return &ValidationError{Field: "coachName", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(draft.Date) == "" {
		return &ValidationError{Field: "date", Reason: "cannot be empty"}
	}
	if _, err := time.ParseInLocation("2006-01-02", draft.Date, time.Local); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if strings.TrimSpace(draft.BodyText) == "" {
		return &ValidationError{Field: "bodyText", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(draft.PatientID) == "" {
		return &ValidationError{Field: "patientId", Reason: "cannot be empty"}
	}
	return nil
}

// ValidateInput screens a user-supplied search term or name fragment.
func (v *Validator) ValidateInput(input string) error {
	if len(input) > 200 {
		return &ValidationError{Field: "input", Reason: "too long"}
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return &ValidationError{Field: "input", Reason: "contains disallowed sequence"}
		}
	}
	return nil
}

// ValidatePasscode applies the practice's passcode policy.
func (v *Validator) ValidatePasscode(passcode string) error {
	if len(passcode) < 4 {
		return &ValidationError{Field: "passcode", Reason: "must be at least 4 characters"}
	}
	return nil
}

// ValidatePatient checks the fields a patient record must carry.
func (v *Validator) ValidatePatient(p *entities.Patient) error {
	if p == nil {
		return &ValidationError{Field: "patient", Reason: "missing"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if p.Age < 0 || p.Age > 150 {
		return &ValidationError{Field: "age", Reason: "out of range"}
	}
	return nil
}

// ValidateRemedy checks the fields a catalog entry must carry.
func (v *Validator) ValidateRemedy(r *entities.Remedy) error {
	if r == nil {
		return &ValidationError{Field: "remedy", Reason: "missing"}
	}
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if len(r.Name) > 200 {
		return &ValidationError{Field: "name", Reason: "too long"}
	}
	return nil
}
