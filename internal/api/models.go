package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Specialty represents a medical specialty offered by the clinic.
type Specialty struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AppointmentType represents a bookable appointment kind within a specialty
// (e.g. "First consultation", "Follow-up", "Vaccination").
type AppointmentType struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SpecialtyID     string `json:"specialtyId"`
	DurationMinutes int    `json:"durationMinutes"`
	IsGeneral       bool   `json:"isGeneral"`
	IsActive        bool   `json:"isActive"`
}

// RoleRef is the backend's wire representation of a granted role.
// Depending on the endpoint the role name arrives under "authority" or
// "name"; Canonical resolves either form.
type RoleRef struct {
	Authority string `json:"authority,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Canonical returns the role name regardless of which wire field carried it.
func (r RoleRef) Canonical() string {
	if r.Authority != "" {
		return r.Authority
	}
	return r.Name
}

// User represents a clinic user (patient, doctor, or administrator).
type User struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	SpecialtyID string    `json:"specialtyId,omitempty"`
	Roles       []RoleRef `json:"roles,omitempty"`

	// Role carries the legacy single-field form: a JSON-encoded array of
	// RoleRef objects. Populated by older endpoints instead of Roles.
	Role string `json:"role,omitempty"`
}

// FullName returns "First Last" for display.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// AllRolesRefs merges the structured Roles field with the legacy
// JSON-encoded Role string. Malformed legacy data is ignored rather than
// failing the whole user.
func (u User) AllRolesRefs() []RoleRef {
	refs := u.Roles
	if u.Role != "" {
		var legacy []RoleRef
		if err := json.Unmarshal([]byte(u.Role), &legacy); err == nil {
			refs = append(refs, legacy...)
		}
	}
	return refs
}

// AllRoles returns the canonical role names from both wire forms.
func (u User) AllRoles() []string {
	refs := u.AllRolesRefs()
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		if name := r.Canonical(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HasRole reports whether the user carries the given canonical role name
// (e.g. "ROLE_DOCTOR").
func (u User) HasRole(role string) bool {
	for _, name := range u.AllRoles() {
		if name == role {
			return true
		}
	}
	return false
}

// TimeSlot is a backend-computed bookable interval for a (doctor,
// appointment type) pair. Times are "YYYY-MM-DDTHH:MM:SS" strings; the
// client never synthesizes slots, it only groups and filters them.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Date returns the "YYYY-MM-DD" portion of the slot's start time, or ""
// if the start time is too short to contain one.
func (s TimeSlot) Date() string {
	if len(s.StartTime) < 10 {
		return ""
	}
	return s.StartTime[:10]
}

// TimeOfDay returns the "HH:MM:SS" portion of the slot's start time, or ""
// if the start time is too short to contain one.
func (s TimeSlot) TimeOfDay() string {
	if len(s.StartTime) < 19 {
		return ""
	}
	return s.StartTime[11:19]
}

// Appointment represents a booked appointment as returned by the backend.
type Appointment struct {
	ID                  string  `json:"id"`
	PatientID           string  `json:"patientId"`
	DoctorID            string  `json:"doctorId"`
	StartTime           string  `json:"startTime"`
	EndTime             string  `json:"endTime"`
	Notes               string  `json:"notes,omitempty"`
	Status              string  `json:"status,omitempty"`
	AppointmentTypeID   string  `json:"appointmentTypeId"`
	ParentAppointmentID *string `json:"parentAppointmentId"`

	// Denormalized display fields, present on list endpoints.
	PatientName string `json:"patientName,omitempty"`
	DoctorName  string `json:"doctorName,omitempty"`
	TypeName    string `json:"typeName,omitempty"`
}

// CreateAppointmentRequest is the body for POST /appointments.
// ParentAppointmentID is null unless a staff-assisted booking explicitly
// linked a prior appointment.
type CreateAppointmentRequest struct {
	PatientID           string  `json:"patientId"`
	DoctorID            string  `json:"doctorId"`
	StartTime           string  `json:"startTime"`
	EndTime             string  `json:"endTime"`
	Notes               string  `json:"notes"`
	AppointmentTypeID   string  `json:"appointmentTypeId"`
	ParentAppointmentID *string `json:"parentAppointmentId"`
}

// PhysicalLocation represents a clinic site (consulting room, branch).
type PhysicalLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Floor   string `json:"floor,omitempty"`
	Room    string `json:"room,omitempty"`
}

// Availability is a recurring window in which a doctor accepts bookings.
// The backend turns these into concrete TimeSlots; the client only manages
// them through the admin CRUD screens.
type Availability struct {
	ID         string `json:"id"`
	DoctorID   string `json:"doctorId"`
	LocationID string `json:"locationId,omitempty"`
	DayOfWeek  string `json:"dayOfWeek"`
	StartTime  string `json:"startTime"` // "HH:MM:SS"
	EndTime    string `json:"endTime"`   // "HH:MM:SS"
}

// Unavailability is a one-off block during which a doctor cannot be booked.
type Unavailability struct {
	ID        string `json:"id"`
	DoctorID  string `json:"doctorId"`
	StartTime string `json:"startTime"` // "YYYY-MM-DDTHH:MM:SS"
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason,omitempty"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the session material issued by the backend on login.
type LoginResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Roles     []RoleRef `json:"roles,omitempty"`
	Role      string    `json:"role,omitempty"` // legacy JSON-encoded form
}

// FullName returns "First Last" for display.
func (lr LoginResponse) FullName() string {
	return strings.TrimSpace(lr.FirstName + " " + lr.LastName)
}

// apiError is the backend's error body shape. The "message" field, when
// present, is shown to the user verbatim.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Well-known canonical role names used across the backend.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleDoctor  = "ROLE_DOCTOR"
	RolePatient = "ROLE_PATIENT"
)

// Validate performs the local checks the client runs before posting a new
// appointment. The backend revalidates everything; this only catches
// selections that cannot possibly succeed.
func (r CreateAppointmentRequest) Validate() error {
	if r.PatientID == "" {
		return NewValidationError("patient is required")
	}
	if r.DoctorID == "" {
		return NewValidationError("doctor is required")
	}
	if r.AppointmentTypeID == "" {
		return NewValidationError("appointment type is required")
	}
	if len(r.StartTime) < 19 || len(r.EndTime) < 19 {
		return NewValidationError(fmt.Sprintf("malformed slot times %q - %q", r.StartTime, r.EndTime))
	}
	return nil
}
