package role

import "strings"

// Role is the normalized role of an authenticated context.
type Role string

const (
	Teacher     Role = "teacher"
	Coordinator Role = "coordinator"
	Principal   Role = "principal"
	SuperAdmin  Role = "superadmin"
	Guest       Role = "guest"
)

// Known returns true when the role is one of the supported values.
func (r Role) Known() bool {
	switch r {
	case Teacher, Coordinator, Principal, SuperAdmin, Guest:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Name returns a human-readable name for display.
func (r Role) Name() string {
	switch r {
	case SuperAdmin:
		return "Super Admin"
	default:
		return strings.Title(string(r))
	}
}

// FromString normalizes a free-text role string into a Role.
// The match is done on substrings so that legacy role spellings
// ("Campus Coordinator", "head teacher", ...) still resolve.
// An unmatched string resolves to its lowercase literal; an empty one to Guest.
// Normalization is deterministic and total.
func FromString(raw string) Role {
	r := strings.ToLower(strings.TrimSpace(raw))
	if r == "" {
		return Guest
	}
	switch {
	case strings.Contains(r, "coord"):
		return Coordinator
	case strings.Contains(r, "teach"):
		return Teacher
	case strings.Contains(r, "admin"):
		return SuperAdmin
	case strings.Contains(r, "princ"):
		return Principal
	}
	return Role(r)
}
