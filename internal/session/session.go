package session

import (
	"time"

	"github.com/calnico/clinicbook/internal/api"
)

// Role is the normalized role representation used everywhere client-side.
// The backend's wire form names roles under either "authority" or "name";
// both are folded into this single type at the session boundary.
type Role string

const (
	RoleAdmin   Role = "ROLE_ADMIN"
	RoleDoctor  Role = "ROLE_DOCTOR"
	RolePatient Role = "ROLE_PATIENT"
)

// NormalizeRoles converts wire role references into normalized Roles,
// dropping empty entries.
func NormalizeRoles(refs []api.RoleRef) []Role {
	roles := make([]Role, 0, len(refs))
	for _, r := range refs {
		if name := r.Canonical(); name != "" {
			roles = append(roles, Role(name))
		}
	}
	return roles
}

// Session is the persisted client-side session: the bearer token and the
// signed-in user's identity. It is written on login, read synchronously by
// every data-fetching command, and removed on logout.
type Session struct {
	Token     string    `yaml:"token"`
	UserID    string    `yaml:"user_id"`
	Name      string    `yaml:"name,omitempty"`
	Email     string    `yaml:"email,omitempty"`
	Roles     []Role    `yaml:"roles,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
}

// FromLogin builds a session from the backend's login response,
// normalizing both role wire forms.
func FromLogin(lr *api.LoginResponse) *Session {
	refs := lr.Roles
	if lr.Role != "" {
		// Legacy single-field form: reuse the User merge logic.
		refs = (api.User{Role: lr.Role, Roles: lr.Roles}).AllRolesRefs()
	}
	return &Session{
		Token:     lr.Token,
		UserID:    lr.ID,
		Name:      lr.FullName(),
		Email:     lr.Email,
		Roles:     NormalizeRoles(refs),
		CreatedAt: time.Now(),
	}
}

// HasRole reports whether the session carries the given role.
func (s *Session) HasRole(role Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the session may perform admin mutations.
func (s *Session) IsAdmin() bool { return s.HasRole(RoleAdmin) }

// IsStaff reports whether the session may book on behalf of patients.
func (s *Session) IsStaff() bool {
	return s.HasRole(RoleAdmin) || s.HasRole(RoleDoctor)
}
