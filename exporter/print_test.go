package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fernheilpraxis/clinic-api/store"
)

// 1x1 transparent PNG, enough for the data-URI path.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestRenderForPrint(t *testing.T) {
	dir := t.TempDir()
	logoPath := filepath.Join(dir, "Logo.png")
	if err := os.WriteFile(logoPath, tinyPNG, 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(store.NewMemStore(), testConfig(logoPath))
	draft := validDraft()

	html, err := e.RenderForPrint(context.Background(), draft, "Jane Roe", "en")
	if err != nil {
		t.Fatalf("print render failed: %v", err)
	}

	doc := string(html)
	for _, want := range []string{
		"Fernheilpraxis - Praxisgemeinschaft",
		"Heilpraktiker Matthias Cebula",
		"Dr. A",
		"Jane Roe",
		"Rest 3 days",
		"data:image/png;base64,",
		"window.print()",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("print document missing %q", want)
		}
	}

	// Render must not touch the draft.
	if draft.BodyText != "Rest 3 days" || draft.CoachName != "Dr. A" {
		t.Error("render mutated the draft")
	}
}

func TestRenderForPrintLogoFailureIsNonFatal(t *testing.T) {
	e := New(store.NewMemStore(), testConfig("/nonexistent/logo.png"))

	html, err := e.RenderForPrint(context.Background(), validDraft(), "", "de")
	if err != nil {
		t.Fatalf("logo failure must not abort the export: %v", err)
	}

	doc := string(html)
	if strings.Contains(doc, "data:image") {
		t.Error("no logo should be inlined when the asset cannot be loaded")
	}
	if !strings.Contains(doc, "Rezept") {
		t.Error("expected German labels in the document")
	}
	if !strings.Contains(doc, "N/A") {
		t.Error("missing patient name should fall back to N/A")
	}
}
