package session

import "github.com/noah-isme/accomnote/internal/models"

// Session is the server-held state referenced by the session cookie. The
// schema is fixed: handlers read these fields, nothing writes ad-hoc keys.
//
// IDToken and RefreshToken are stored as issued at login and never
// re-validated or refreshed, so a session outlives the upstream token's
// expiry until it is logged out or evicted by the store TTL.
type Session struct {
	ID              string      `json:"id"`
	UID             string      `json:"uid"`
	IDToken         string      `json:"idToken"`
	RefreshToken    string      `json:"refreshToken"`
	Role            models.Role `json:"role"`
	AssignedClass   string      `json:"assignedClass"`
	AssignedSection string      `json:"assignedSection"`
	Username        string      `json:"username"`
}
