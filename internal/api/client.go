package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/calnico/clinicbook/internal/logging"
)

// DefaultTimeout is the blanket HTTP request timeout. There is no retry
// policy: every operation fails fast and leaves the user free to retry.
const DefaultTimeout = 15 * time.Second

// Route paths of the clinic backend. The contract is consumed as-is.
const (
	pathLogin            = "/auth/login"
	pathSpecialties      = "/specialties"
	pathAppointmentTypes = "/appointment-types"
	pathUsers            = "/users"
	pathSlots            = "/availabilities/slots"
	pathAppointments     = "/appointments"
	pathLocations        = "/physical-locations"
	pathAvailabilities   = "/availabilities"
	pathUnavailabilities = "/unavailabilities"
)

// Client is a thin HTTP client for the clinic backend. Every authenticated
// request carries the bearer token; an empty token fails the operation
// locally with a session error before any network call.
type Client struct {
	// BaseURL is the backend base URL (e.g. "https://api.clinic.example").
	BaseURL string

	// Token is the bearer token issued at login. Empty means no session.
	Token string

	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client
}

// NewClient creates a client for the given backend base URL. token may be
// empty for unauthenticated use (login only).
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the blanket HTTP request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses are parsed for a backend "message" field and
// surfaced verbatim.
func (c *Client) do(method, path string, query url.Values, body, out any, authed bool) error {
	if authed && c.Token == "" {
		return NewSessionError("no session token")
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewValidationError(fmt.Sprintf("cannot encode request body: %v", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("API request",
		zap.String("method", method),
		zap.String("url", u),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.Debug("API response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return NewSessionError(fmt.Sprintf("request rejected with status %d", resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(resp.StatusCode, backendMessage(resp.Body, resp.StatusCode))
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError(fmt.Sprintf("failed to parse %s response", path), err)
	}
	return nil
}

// backendMessage extracts the backend's "message" field from an error body,
// falling back to a generic description of the status.
func backendMessage(body io.Reader, status int) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err == nil && len(data) > 0 {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil {
			if ae.Message != "" {
				return ae.Message
			}
			if ae.Error != "" {
				return ae.Error
			}
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// Login authenticates against the backend and returns session material.
// This is the only operation that does not require an existing token.
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(http.MethodPost, pathLogin, nil, LoginRequest{Email: email, Password: password}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Specialties retrieves all specialties. Fetched once when a wizard mounts.
func (c *Client) Specialties() ([]Specialty, error) {
	var out []Specialty
	if err := c.do(http.MethodGet, pathSpecialties, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// AppointmentTypes retrieves the appointment types of a specialty,
// filtered client-side to active ones. generalOnly restricts the list to
// types patients may self-book.
func (c *Client) AppointmentTypes(specialtyID string, generalOnly bool) ([]AppointmentType, error) {
	var query url.Values
	if generalOnly {
		query = url.Values{"isGeneral": {"true"}}
	}

	var out []AppointmentType
	path := pathAppointmentTypes + "/specialty/" + url.PathEscape(specialtyID)
	if err := c.do(http.MethodGet, path, query, nil, &out, true); err != nil {
		return nil, err
	}

	active := out[:0]
	for _, at := range out {
		if at.IsActive {
			active = append(active, at)
		}
	}
	return active, nil
}

// DoctorsBySpecialty retrieves the doctor candidates for a specialty.
// The backend returns users; the doctor role marker is checked client-side.
func (c *Client) DoctorsBySpecialty(specialtyID string) ([]User, error) {
	var out []User
	path := pathUsers + "/specialty/" + url.PathEscape(specialtyID)
	if err := c.do(http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}

	doctors := out[:0]
	for _, u := range out {
		if u.HasRole(RoleDoctor) {
			doctors = append(doctors, u)
		}
	}
	return doctors, nil
}

// Slots retrieves the bookable time slots for a (doctor, appointment type)
// pair. All slot data is authoritative from the backend.
func (c *Client) Slots(doctorID, appointmentTypeID string) ([]TimeSlot, error) {
	query := url.Values{
		"doctorId":          {doctorID},
		"appointmentTypeId": {appointmentTypeID},
	}
	var out []TimeSlot
	if err := c.do(http.MethodGet, pathSlots, query, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAppointment books an appointment. The request must already have
// passed local validation (slot resolution).
func (c *Client) CreateAppointment(req CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Appointment
	if err := c.do(http.MethodPost, pathAppointments, nil, req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatientAppointments retrieves a patient's prior appointments, used by the
// staff-assisted wizard for optional parent-appointment linkage.
func (c *Client) PatientAppointments(patientID string) ([]Appointment, error) {
	var out []Appointment
	path := pathAppointments + "/patient/" + url.PathEscape(patientID)
	if err := c.do(http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Collection CRUD used by the admin screens. Mutations assume the caller
// already checked the admin role; the backend enforces it regardless.

// Users retrieves all users.
func (c *Client) Users() ([]User, error) {
	var out []User
	if err := c.do(http.MethodGet, pathUsers, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser creates a user.
func (c *Client) CreateUser(u User) (*User, error) {
	var out User
	if err := c.do(http.MethodPost, pathUsers, nil, u, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser updates a user by id.
func (c *Client) UpdateUser(u User) error {
	return c.do(http.MethodPut, pathUsers+"/"+url.PathEscape(u.ID), nil, u, nil, true)
}

// DeleteUser deletes a user by id.
func (c *Client) DeleteUser(id string) error {
	return c.do(http.MethodDelete, pathUsers+"/"+url.PathEscape(id), nil, nil, nil, true)
}

// AllSpecialties is an alias of Specialties kept for symmetry with the
// other admin collections.
func (c *Client) AllSpecialties() ([]Specialty, error) { return c.Specialties() }

// CreateSpecialty creates a specialty.
func (c *Client) CreateSpecialty(s Specialty) (*Specialty, error) {
	var out Specialty
	if err := c.do(http.MethodPost, pathSpecialties, nil, s, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSpecialty updates a specialty by id.
func (c *Client) UpdateSpecialty(s Specialty) error {
	return c.do(http.MethodPut, pathSpecialties+"/"+url.PathEscape(s.ID), nil, s, nil, true)
}

// DeleteSpecialty deletes a specialty by id.
func (c *Client) DeleteSpecialty(id string) error {
	return c.do(http.MethodDelete, pathSpecialties+"/"+url.PathEscape(id), nil, nil, nil, true)
}

// AllAppointmentTypes retrieves every appointment type across specialties.
func (c *Client) AllAppointmentTypes() ([]AppointmentType, error) {
	var out []AppointmentType
	if err := c.do(http.MethodGet, pathAppointmentTypes, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAppointmentType creates an appointment type.
func (c *Client) CreateAppointmentType(at AppointmentType) (*AppointmentType, error) {
	var out AppointmentType
	if err := c.do(http.MethodPost, pathAppointmentTypes, nil, at, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAppointmentType updates an appointment type by id.
func (c *Client) UpdateAppointmentType(at AppointmentType) error {
	return c.do(http.MethodPut, pathAppointmentTypes+"/"+url.PathEscape(at.ID), nil, at, nil, true)
}

// DeleteAppointmentType deletes an appointment type by id.
func (c *Client) DeleteAppointmentType(id string) error {
	return c.do(http.MethodDelete, pathAppointmentTypes+"/"+url.PathEscape(id), nil, nil, nil, true)
}

// Locations retrieves all physical locations.
func (c *Client) Locations() ([]PhysicalLocation, error) {
	var out []PhysicalLocation
	if err := c.do(http.MethodGet, pathLocations, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLocation creates a physical location.
func (c *Client) CreateLocation(l PhysicalLocation) (*PhysicalLocation, error) {
	var out PhysicalLocation
	if err := c.do(http.MethodPost, pathLocations, nil, l, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLocation updates a physical location by id.
func (c *Client) UpdateLocation(l PhysicalLocation) error {
	return c.do(http.MethodPut, pathLocations+"/"+url.PathEscape(l.ID), nil, l, nil, true)
}

// DeleteLocation deletes a physical location by id.
func (c *Client) DeleteLocation(id string) error {
	return c.do(http.MethodDelete, pathLocations+"/"+url.PathEscape(id), nil, nil, nil, true)
}

// Availabilities retrieves all recurring availability windows.
func (c *Client) Availabilities() ([]Availability, error) {
	var out []Availability
	if err := c.do(http.MethodGet, pathAvailabilities, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAvailability creates an availability window.
func (c *Client) CreateAvailability(a Availability) (*Availability, error) {
	var out Availability
	if err := c.do(http.MethodPost, pathAvailabilities, nil, a, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAvailability updates an availability window by id.
func (c *Client) UpdateAvailability(a Availability) error {
	return c.do(http.MethodPut, pathAvailabilities+"/"+url.PathEscape(a.ID), nil, a, nil, true)
}

// DeleteAvailability deletes an availability window by id.
func (c *Client) DeleteAvailability(id string) error {
	return c.do(http.MethodDelete, pathAvailabilities+"/"+url.PathEscape(id), nil, nil, nil, true)
}

// Unavailabilities retrieves all one-off unavailability blocks.
func (c *Client) Unavailabilities() ([]Unavailability, error) {
	var out []Unavailability
	if err := c.do(http.MethodGet, pathUnavailabilities, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUnavailability creates an unavailability block.
func (c *Client) CreateUnavailability(u Unavailability) (*Unavailability, error) {
	var out Unavailability
	if err := c.do(http.MethodPost, pathUnavailabilities, nil, u, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUnavailability deletes an unavailability block by id.
func (c *Client) DeleteUnavailability(id string) error {
	return c.do(http.MethodDelete, pathUnavailabilities+"/"+url.PathEscape(id), nil, nil, nil, true)
}

// Appointments retrieves all appointments (admin screen).
func (c *Client) Appointments() ([]Appointment, error) {
	var out []Appointment
	if err := c.do(http.MethodGet, pathAppointments, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAppointment updates an appointment by id.
func (c *Client) UpdateAppointment(a Appointment) error {
	return c.do(http.MethodPut, pathAppointments+"/"+url.PathEscape(a.ID), nil, a, nil, true)
}

// DeleteAppointment deletes an appointment by id.
func (c *Client) DeleteAppointment(id string) error {
	return c.do(http.MethodDelete, pathAppointments+"/"+url.PathEscape(id), nil, nil, nil, true)
}
