package exporter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/lang"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/metrics"
)

// Fixed page geometry, in millimeters on A4.
const (
	pdfMarginLeft  = 15.0
	pdfMarginRight = 15.0
	pdfPageWidth   = 210.0
	pdfWrapWidth   = 180.0
	pdfBottomY     = 280.0
	pdfLineHeight  = 6.0

	pdfLogoX     = 160.0
	pdfLogoY     = 10.0
	pdfLogoWidth = 35.0
)

// RenderAsPDF renders the draft into a paginated PDF with the fixed header
// layout: title top-left, logo top-right, practitioner and contact lines,
// horizontal rule, metadata block, then the body section wrapped to the
// printable width with automatic page breaks. A failed logo load is logged
// and the document is produced without it. Returns the document bytes and
// the download file name for the requested language.
func (e *Exporter) RenderAsPDF(ctx context.Context, draft entities.PrescriptionDraft, patientName, locale string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	e.placeLogo(ctx, pdf)

	y := 20.0

	// Letterhead
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(pdfMarginLeft, y, tr(e.letterhead.PracticeName))
	y += 8

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pdfMarginLeft, y, tr(e.letterhead.PractitionerName))
	y += 6
	pdf.SetTextColor(33, 150, 243)
	pdf.Text(pdfMarginLeft, y, tr(e.letterhead.Website))
	y += 6
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(pdfMarginLeft, y, tr(e.letterhead.Contact))
	y += 8

	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Line(pdfMarginLeft, y, pdfPageWidth-pdfMarginRight, y)
	y += 10

	// Metadata block
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(pdfMarginLeft, y, tr(lang.T(locale, "prescriptionDetails")))
	y += 8

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pdfMarginLeft, y, tr(fmt.Sprintf("%s: %s", lang.T(locale, "coach"), orNA(draft.CoachName))))
	y += 6
	pdf.Text(pdfMarginLeft, y, tr(fmt.Sprintf("%s: %s", lang.T(locale, "date"), orNA(draft.Date))))
	y += 6
	pdf.Text(pdfMarginLeft, y, tr(fmt.Sprintf("%s: %s", lang.T(locale, "patient"), orNA(patientName))))
	y += 10

	// Body section
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(pdfMarginLeft, y, tr(lang.T(locale, "recipe")))
	y += 8

	pdf.SetFont("Helvetica", "", 12)
	body := draft.BodyText
	if strings.TrimSpace(body) == "" {
		body = lang.T(locale, "noRecipeProvided")
	}

	for _, paragraph := range strings.Split(body, "\n") {
		lines := pdf.SplitText(tr(paragraph), pdfWrapWidth)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			if y > pdfBottomY {
				pdf.AddPage()
				y = 20.0
				pdf.SetFont("Helvetica", "", 12)
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.Text(pdfMarginLeft, y, line)
			y += pdfLineHeight
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("pdf output: %w", err)
	}

	metrics.PrescriptionExports.WithLabelValues("pdf").Inc()
	return buf.Bytes(), lang.T(locale, "pdfFileName"), nil
}

// placeLogo draws the logo in its fixed top-right box when it can be loaded.
func (e *Exporter) placeLogo(ctx context.Context, pdf *gofpdf.Fpdf) {
	data, err := e.logo.Load(ctx)
	if err != nil {
		logging.Warn("Logo unavailable, rendering PDF without it", "error", err)
		return
	}

	imageType := sniffImageType(data)
	if imageType == "" {
		logging.Warn("Logo has unsupported image format, rendering PDF without it")
		return
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("practice-logo", opts, bytes.NewReader(data))
	if pdf.Err() {
		logging.Warn("Logo could not be embedded, rendering PDF without it", "error", pdf.Error())
		pdf.ClearError()
		return
	}
	pdf.ImageOptions("practice-logo", pdfLogoX, pdfLogoY, pdfLogoWidth, 0, false, opts, 0, "")
}

func sniffImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 3 && bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPEG"
	case len(data) > 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "GIF"
	default:
		return ""
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
