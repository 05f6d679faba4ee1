// Package store provides access to the clinic's document database. Documents
// are addressed by slash-separated paths ("patients", "patients/{id}",
// "patients/{id}/prescriptions") and carry schemaless field maps; callers are
// responsible for validating fields before writing. No transactions are used.
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a document path does not resolve.
var ErrNotFound = errors.New("document not found")

// Document is a stored record: an opaque store-assigned ID plus its fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStore is the contract every backend implements. All methods are
// safe for concurrent use.
type DocumentStore interface {
	// List returns every document in the collection, in no particular order.
	List(ctx context.Context, collectionPath string) ([]Document, error)

	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, docPath string) (Document, error)

	// Add creates a document with a store-assigned ID and returns the ID.
	Add(ctx context.Context, collectionPath string, fields map[string]any) (string, error)

	// Set overwrites the document at docPath, creating it if needed.
	Set(ctx context.Context, docPath string, fields map[string]any) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, docPath string) error
}

// Collection path builders so handlers and the exporter never assemble raw
// path strings.

func PatientsPath() string { return "patients" }

func PatientPath(patientID string) string { return "patients/" + patientID }

func RecipesPath() string { return "recipes" }

func RecipePath(recipeID string) string { return "recipes/" + recipeID }

func PrescriptionsPath(patientID string) string {
	return "patients/" + patientID + "/prescriptions"
}

func PrescriptionPath(patientID, prescriptionID string) string {
	return "patients/" + patientID + "/prescriptions/" + prescriptionID
}

// SettingsPath holds practice-wide documents such as the shared passcode.
func SettingsPath() string { return "settings" }

// splitDocPath splits "patients/p1/prescriptions/r2" into its collection path
// and document ID.
func splitDocPath(docPath string) (collectionPath, id string) {
	i := strings.LastIndex(docPath, "/")
	if i < 0 {
		return "", docPath
	}
	return docPath[:i], docPath[i+1:]
}
