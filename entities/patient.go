package entities

// Patient holds the demographic fields the practice records per client.
// Prescriptions live in a sub-collection under the patient document.
type Patient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"` // ISO date string as entered
	Sex      string `json:"sex"`
	Age      int    `json:"age"`
}
