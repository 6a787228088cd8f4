package models

// UserRecord is the per-user metadata stored under users/{uid}.
//
// Password is stored in plaintext alongside the Identity Toolkit account. This
// mirrors the deployed database schema and is a known defect (see DESIGN.md):
// the identity provider already holds the credential, the copy here adds
// nothing but risk. The field is kept for store compatibility and must never
// be logged or rendered.
type UserRecord struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	AssignedClass   string `json:"assignedClass"`
	AssignedSection string `json:"assignedSection"`
}
