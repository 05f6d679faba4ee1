// Package lang holds the bilingual UI label table. Lookups fall back to the
// English string and finally to the key itself, so a missing label never
// breaks a rendering.
package lang

import (
	"net/http"

	"golang.org/x/text/language"
)

// Supported locale codes.
const (
	English = "en"
	German  = "de"
)

var english = map[string]string{
	"prescriptionDetails": "Prescription Details",
	"coach":               "Coach",
	"date":                "Date",
	"patient":             "Patient",
	"recipe":              "Recipe",
	"noRecipeProvided":    "No recipe provided.",
	"pdfFileName":         "prescription.pdf",
	"print":               "Print",
	"saveAsPdf":           "Save as PDF",
	"saveToDatabase":      "Save to Database",
	"addRecipe":           "Add Recipe",
	"editRecipe":          "Edit Recipe",
	"searchRemedies":      "Search remedies...",
	"name":                "Name",
	"source":              "Source",
	"instructions":        "Instructions",
	"notes":               "Notes",
	"edit":                "Edit",
	"delete":              "Delete",
	"cancel":              "Cancel",
	"update":              "Update",
	"add":                 "Add",
	"submit":              "Submit",
	"searchPatients":      "Search patients...",
	"addNewPatient":       "Add New Patient",
	"patientList":         "Patient List",
	"birthday":            "Birthday",
	"sex":                 "Sex",
	"age":                 "Age",
	"actions":             "Actions",
	"prescriptions":       "Prescriptions",
	"createPrescription":  "Create Prescription",
	"noPrescriptions":     "No prescriptions found.",
	"copy":                "Copy",
}

var german = map[string]string{
	"prescriptionDetails": "Rezeptdetails",
	"coach":               "Coach",
	"date":                "Datum",
	"patient":             "Patient",
	"recipe":              "Rezept",
	"noRecipeProvided":    "Kein Rezept vorhanden.",
	"pdfFileName":         "Rezept.pdf",
	"print":               "Drucken",
	"saveAsPdf":           "Als PDF speichern",
	"saveToDatabase":      "In Datenbank speichern",
	"addRecipe":           "Rezept hinzufügen",
	"editRecipe":          "Rezept bearbeiten",
	"searchRemedies":      "Mittel suchen...",
	"name":                "Name",
	"source":              "Quelle",
	"instructions":        "Anweisungen",
	"notes":               "Notizen",
	"edit":                "Bearbeiten",
	"delete":              "Löschen",
	"cancel":              "Abbrechen",
	"update":              "Aktualisieren",
	"add":                 "Hinzufügen",
	"submit":              "Absenden",
	"searchPatients":      "Patienten suchen...",
	"addNewPatient":       "Neuen Patienten anlegen",
	"patientList":         "Patientenliste",
	"birthday":            "Geburtstag",
	"sex":                 "Geschlecht",
	"age":                 "Alter",
	"actions":             "Aktionen",
	"prescriptions":       "Rezepte",
	"createPrescription":  "Rezept erstellen",
	"noPrescriptions":     "Keine Rezepte gefunden.",
	"copy":                "Kopieren",
}

var tables = map[string]map[string]string{
	English: english,
	German:  german,
}

// T returns the label for key in the given locale, the English label when
// the locale misses it, and the key itself as the literal default.
func T(locale, key string) string {
	if table, ok := tables[locale]; ok {
		if label, ok := table[key]; ok {
			return label
		}
	}
	if label, ok := english[key]; ok {
		return label
	}
	return key
}

// Labels returns the full table for a locale, with English as the base so
// every key resolves.
func Labels(locale string) map[string]string {
	out := make(map[string]string, len(english))
	for key, label := range english {
		out[key] = label
	}
	if table, ok := tables[locale]; ok && locale != English {
		for key, label := range table {
			out[key] = label
		}
	}
	return out
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.German,
})

// FromRequest picks the locale from the lang query parameter, falling back
// to Accept-Language negotiation.
func FromRequest(r *http.Request) string {
	if q := r.URL.Query().Get("lang"); q != "" {
		if _, ok := tables[q]; ok {
			return q
		}
	}

	tag, _ := language.MatchStrings(matcher, r.Header.Get("Accept-Language"))
	base, _ := tag.Base()
	if base.String() == "de" {
		return German
	}
	return English
}
