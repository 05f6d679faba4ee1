package composer

import (
	"testing"
	"time"

	"github.com/fernheilpraxis/clinic-api/entities"
)

func TestNewDraftDefaults(t *testing.T) {
	c := New()

	draft := c.Draft("p1")
	if draft.PatientID != "p1" {
		t.Errorf("expected patientId p1, got %s", draft.PatientID)
	}
	if draft.Date != time.Now().Format("2006-01-02") {
		t.Errorf("expected today's date, got %s", draft.Date)
	}
	if draft.BodyText != "" || draft.CoachName != "" {
		t.Errorf("new draft should be empty, got %+v", draft)
	}
}

func TestInsertAtCursor(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		caret    int
		block    string
		wantBody string
	}{
		{"middle", "Rest  days", 5, "3", "Rest 3 days"},
		{"start", "days", 0, "3 ", "3 days"},
		{"end", "Rest ", 5, "3 days", "Rest 3 days"},
		{"beyond end clamps", "Rest", 99, " 3 days", "Rest 3 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Edit("p1", tt.body, len(tt.body))

			draft := c.InsertAtCursor("p1", tt.block, tt.caret)
			if draft.BodyText != tt.wantBody {
				t.Errorf("got %q, want %q", draft.BodyText, tt.wantBody)
			}
		})
	}
}

func TestInsertUsesLiveCaretNotStaleState(t *testing.T) {
	c := New()

	// The edit surface recorded caret 0 earlier, but at insertion time it
	// reports position 5. The live position wins.
	c.Edit("p1", "Rest  days", 0)
	draft := c.InsertAtCursor("p1", "3", 5)

	if draft.BodyText != "Rest 3 days" {
		t.Errorf("live caret must win: got %q", draft.BodyText)
	}
}

func TestInsertFallsBackToRecordedThenEnd(t *testing.T) {
	c := New()
	c.Edit("p1", "ab", 1)

	// No live caret reported: last recorded position (1) is used.
	draft := c.InsertAtCursor("p1", "X", -1)
	if draft.BodyText != "aXb" {
		t.Errorf("expected recorded caret fallback, got %q", draft.BodyText)
	}

	// Caret advanced past the insertion; a second blind insert lands there.
	draft = c.InsertAtCursor("p1", "Y", -1)
	if draft.BodyText != "aXYb" {
		t.Errorf("caret should advance past insertion, got %q", draft.BodyText)
	}

	// A fresh draft has no caret at all: insertion appends.
	c2 := New()
	c2.Edit("p2", "base", -1)
	if got := c2.InsertAtCursor("p2", "+tail", -1); got.BodyText != "base+tail" {
		t.Errorf("expected end-of-text fallback, got %q", got.BodyText)
	}
}

func TestHandoffConsumedExactlyOnce(t *testing.T) {
	c := New()

	c.Handoff().Put("p1", entities.HandoffPayload{
		CoachName: "Dr. A",
		Date:      "2024-05-01T00:00:00.000Z",
		Content:   "Rest 3 days",
	})

	draft := c.Draft("p1")
	if draft.CoachName != "Dr. A" || draft.BodyText != "Rest 3 days" {
		t.Fatalf("handoff should prefill the draft, got %+v", draft)
	}
	if draft.Date != "2024-05-01" {
		t.Errorf("ISO timestamp should normalize to a calendar date, got %s", draft.Date)
	}

	// User edits afterwards; reloading must show the edit, not the payload.
	c.Edit("p1", "Rest 5 days", 11)
	again := c.Draft("p1")
	if again.BodyText != "Rest 5 days" {
		t.Errorf("reload must not re-apply the handoff, got %q", again.BodyText)
	}
}

func TestEditReplacesVerbatim(t *testing.T) {
	c := New()
	c.Edit("p1", "line1\nline2", 3)

	draft := c.Draft("p1")
	if draft.BodyText != "line1\nline2" {
		t.Errorf("edit must replace body verbatim, got %q", draft.BodyText)
	}
}

func TestDiscardDropsDraft(t *testing.T) {
	c := New()
	c.Edit("p1", "something", 0)
	c.Discard("p1")

	draft := c.Draft("p1")
	if draft.BodyText != "" {
		t.Errorf("discarded draft should be recreated empty, got %q", draft.BodyText)
	}
}

func TestSetMeta(t *testing.T) {
	c := New()
	c.Edit("p1", "body", 4)

	draft := c.SetMeta("p1", "Dr. B", "2024-06-02")
	if draft.CoachName != "Dr. B" || draft.Date != "2024-06-02" {
		t.Errorf("unexpected meta: %+v", draft)
	}
	if draft.BodyText != "body" {
		t.Errorf("SetMeta must not touch the body, got %q", draft.BodyText)
	}
}
