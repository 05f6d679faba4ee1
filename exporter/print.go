package exporter

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/fernheilpraxis/clinic-api/entities"
	"github.com/fernheilpraxis/clinic-api/lang"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/metrics"
)

// The print view is a self-contained document: the output surface is
// detached from the application, so the logo is inlined as a data URI and
// styles are embedded.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<title>{{.L.prescriptionDetails}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2rem; color: #1f2937; }
header { text-align: center; margin-bottom: 1rem; }
header h1 { font-size: 1.5rem; margin: 0 0 .25rem; }
header .practitioner { color: #4b5563; margin: 0; }
header .website { color: #2196f3; margin: 0; }
header .contact { color: #4b5563; margin: 0; }
header img { width: 140px; display: block; margin: 0 auto .5rem; }
hr { border: none; border-top: 4px solid #374151; margin: 1rem 0; }
.meta p { margin: .2rem 0; }
.meta .label { font-weight: 600; margin-right: .4rem; }
pre.body { white-space: pre-wrap; border: 1px solid #d1d5db; border-radius: 6px; padding: 1rem; font: inherit; }
@media print { body { margin: 0; } }
</style>
</head>
<body onload="window.print()">
<header>
{{if .LogoURI}}<img src="{{.LogoURI}}" alt="">{{end}}
<h1>{{.PracticeName}}</h1>
<p class="practitioner">{{.PractitionerName}}</p>
<p class="website">{{.Website}}</p>
<p class="contact">{{.Contact}}</p>
</header>
<hr>
<div class="meta">
<p><span class="label">{{.L.coach}}:</span>{{.CoachName}}</p>
<p><span class="label">{{.L.date}}:</span>{{.Date}}</p>
<p><span class="label">{{.L.patient}}:</span>{{.PatientName}}</p>
</div>
<h2>{{.L.recipe}}</h2>
<pre class="body">{{.BodyText}}</pre>
</body>
</html>
`))

type printData struct {
	Locale           string
	L                map[string]string
	LogoURI          template.URL
	PracticeName     string
	PractitionerName string
	Website          string
	Contact          string
	CoachName        string
	Date             string
	PatientName      string
	BodyText         string
}

// RenderForPrint produces the static print document for the draft snapshot.
// It reads only the passed-in values and never touches composer state. A
// failed logo load is logged and the document renders without the image.
func (e *Exporter) RenderForPrint(ctx context.Context, draft entities.PrescriptionDraft, patientName, locale string) (string, error) {
	var logoURI template.URL
	if data, err := e.logo.Load(ctx); err != nil {
		logging.Warn("Logo unavailable, rendering print view without it", "error", err)
	} else if imageType := sniffImageType(data); imageType != "" {
		mime := "image/" + strings.ToLower(imageType)
		logoURI = template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
	}

	var sb strings.Builder
	err := printTemplate.Execute(&sb, printData{
		Locale:           locale,
		L:                lang.Labels(locale),
		LogoURI:          logoURI,
		PracticeName:     e.letterhead.PracticeName,
		PractitionerName: e.letterhead.PractitionerName,
		Website:          e.letterhead.Website,
		Contact:          e.letterhead.Contact,
		CoachName:        orNA(draft.CoachName),
		Date:             orNA(draft.Date),
		PatientName:      orNA(patientName),
		BodyText:         draft.BodyText,
	})
	if err != nil {
		return "", fmt.Errorf("print render: %w", err)
	}

	metrics.PrescriptionExports.WithLabelValues("print").Inc()
	return sb.String(), nil
}
