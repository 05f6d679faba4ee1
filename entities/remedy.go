package entities

// Remedy is a reusable catalog entry that can be pasted into a prescription
// draft. The ID is assigned by the document store on creation and is opaque.
type Remedy struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Source       string `json:"source"`
	Instructions string `json:"instructions"`
	Notes        string `json:"notes,omitempty"`
}
