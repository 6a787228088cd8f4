package models

import "strings"

// Role identifies the dashboard a user is entitled to.
type Role string

const (
	RoleTeacher   Role = "teacher"
	RoleCounselor Role = "counselor"
)

// ParseRole normalizes a raw role string. "counsellor" is accepted as a
// spelling variant of counselor. Unrecognized values are kept verbatim
// (lowercased) so they can be reported back to the user.
func ParseRole(raw string) Role {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "counsellor" {
		return RoleCounselor
	}
	return Role(normalized)
}

// Known reports whether the role maps to a recognized dashboard.
func (r Role) Known() bool {
	return r == RoleTeacher || r == RoleCounselor
}

func (r Role) String() string {
	return string(r)
}
