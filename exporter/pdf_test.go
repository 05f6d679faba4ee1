package exporter

import (
	"bytes"
	"context"
	"testing"

	"github.com/fernheilpraxis/clinic-api/store"
)

func TestRenderAsPDF(t *testing.T) {
	e := New(store.NewMemStore(), testConfig("/nonexistent/logo.png"))

	data, filename, err := e.RenderAsPDF(context.Background(), validDraft(), "Jane Roe", "en")
	if err != nil {
		t.Fatalf("pdf render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not look like a PDF document")
	}
	if filename != "prescription.pdf" {
		t.Errorf("unexpected filename %q", filename)
	}
}

func TestRenderAsPDFGermanFilename(t *testing.T) {
	e := New(store.NewMemStore(), testConfig(""))

	_, filename, err := e.RenderAsPDF(context.Background(), validDraft(), "", "de")
	if err != nil {
		t.Fatal(err)
	}
	if filename != "Rezept.pdf" {
		t.Errorf("expected Rezept.pdf, got %q", filename)
	}
}

func TestRenderAsPDFLongBodyPaginates(t *testing.T) {
	e := New(store.NewMemStore(), testConfig(""))

	draft := validDraft()
	body := ""
	for i := 0; i < 200; i++ {
		body += "Take one dose of the remedy every morning before breakfast.\n"
	}
	draft.BodyText = body

	data, _, err := e.RenderAsPDF(context.Background(), draft, "Jane Roe", "en")
	if err != nil {
		t.Fatal(err)
	}
	// A body this long cannot fit a single A4 page.
	if bytes.Count(data, []byte("/Page")) < 2 {
		t.Error("expected a multi-page document for a long body")
	}
}
