package validation

import (
	"errors"
	"testing"

	"github.com/fernheilpraxis/clinic-api/entities"
)

func TestValidateDraft(t *testing.T) {
	valid := entities.PrescriptionDraft{
		CoachName: "Dr. A",
		Date:      "2024-05-01",
		BodyText:  "Rest 3 days",
		PatientID: "p1",
	}

	tests := []struct {
		name      string
		mutate    func(*entities.PrescriptionDraft)
		wantField string
	}{
		{"valid", func(d *entities.PrescriptionDraft) {}, ""},
		{"empty coach", func(d *entities.PrescriptionDraft) { d.CoachName = "" }, "coachName"},
		{"whitespace coach", func(d *entities.PrescriptionDraft) { d.CoachName = "   " }, "coachName"},
		{"empty date", func(d *entities.PrescriptionDraft) { d.Date = "" }, "date"},
		{"malformed date", func(d *entities.PrescriptionDraft) { d.Date = "01.05.2024" }, "date"},
		{"empty body", func(d *entities.PrescriptionDraft) { d.BodyText = "" }, "bodyText"},
		{"empty patient", func(d *entities.PrescriptionDraft) { d.PatientID = "" }, "patientId"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := valid
			tt.mutate(&draft)

			err := v.ValidateDraft(&draft)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid draft, got %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestValidateDraftNil(t *testing.T) {
	if err := NewValidator().ValidateDraft(nil); err == nil {
		t.Error("expected error for nil draft")
	}
}

func TestValidateInput(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain term", "chamomile", false},
		{"umlauts", "Kamillentee für Kinder", false},
		{"script tag", "<script>alert(1)</script>", true},
		{"path traversal", "../etc/passwd", true},
		{"nosql operator", `{$where: "1"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInput(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error for %q, got %v", tt.input, err)
			}
		})
	}
}

func TestValidatePasscode(t *testing.T) {
	v := NewValidator()
	if err := v.ValidatePasscode("123"); err == nil {
		t.Error("expected error for short passcode")
	}
	if err := v.ValidatePasscode("1234"); err != nil {
		t.Errorf("expected 4-char passcode to pass, got %v", err)
	}
}

func TestValidatePatient(t *testing.T) {
	v := NewValidator()

	if err := v.ValidatePatient(&entities.Patient{Name: "Jane Roe", Age: 40}); err != nil {
		t.Errorf("expected valid patient, got %v", err)
	}
	if err := v.ValidatePatient(&entities.Patient{Name: "", Age: 40}); err == nil {
		t.Error("expected error for nameless patient")
	}
	if err := v.ValidatePatient(&entities.Patient{Name: "X", Age: 200}); err == nil {
		t.Error("expected error for out-of-range age")
	}
}
