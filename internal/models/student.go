package models

// StudentRecord is an accommodation note stored under
// Classes/{class}/{section}/{key}. Records are overwritten wholesale on every
// write to the same key; there is no merge and no version field.
type StudentRecord struct {
	Name           string `json:"name"`
	SpecialNeeds   string `json:"specialNeeds"`
	Progress       string `json:"progress"`
	Accommodations string `json:"accommodations"`
	Notes          string `json:"notes"`
	CreatedBy      string `json:"createdBy"`
	LastUpdated    int64  `json:"lastUpdated"`
}
