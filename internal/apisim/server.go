package apisim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/calnico/clinicbook/internal/api"
	"github.com/calnico/clinicbook/internal/logging"
)

// Config holds the simulator configuration.
type Config struct {
	Host     string
	Port     int
	LogLevel string
	Seed     bool
}

// Server is an in-memory stand-in for the clinic backend, implementing the
// REST contract the client consumes. It exists for demos and end-to-end
// testing without a real backend.
type Server struct {
	config *Config
	store  *Store
	http   *http.Server
}

// New creates a simulator server.
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	store := NewStore()
	if config.Seed {
		store.Seed()
	}

	s := &Server{config: config, store: store}
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, nil
}

// Store exposes the backing store, used by tests to inspect state.
func (s *Server) Store() *Store { return s.store }

// Handler builds the route table. Exposed separately so tests can mount it
// on an httptest server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("GET /specialties", s.authed(s.handleListSpecialties))
	mux.Handle("POST /specialties", s.admin(s.handleCreateSpecialty))
	mux.Handle("PUT /specialties/{id}", s.admin(s.handleUpdateSpecialty))
	mux.Handle("DELETE /specialties/{id}", s.admin(s.handleDeleteSpecialty))

	mux.Handle("GET /appointment-types", s.authed(s.handleListAppointmentTypes))
	mux.Handle("GET /appointment-types/specialty/{id}", s.authed(s.handleTypesBySpecialty))
	mux.Handle("POST /appointment-types", s.admin(s.handleCreateAppointmentType))
	mux.Handle("PUT /appointment-types/{id}", s.admin(s.handleUpdateAppointmentType))
	mux.Handle("DELETE /appointment-types/{id}", s.admin(s.handleDeleteAppointmentType))

	mux.Handle("GET /users", s.authed(s.handleListUsers))
	mux.Handle("GET /users/specialty/{id}", s.authed(s.handleUsersBySpecialty))
	mux.Handle("POST /users", s.admin(s.handleCreateUser))
	mux.Handle("PUT /users/{id}", s.admin(s.handleUpdateUser))
	mux.Handle("DELETE /users/{id}", s.admin(s.handleDeleteUser))

	mux.Handle("GET /availabilities/slots", s.authed(s.handleSlots))
	mux.Handle("GET /availabilities", s.authed(s.handleListAvailabilities))
	mux.Handle("POST /availabilities", s.admin(s.handleCreateAvailability))
	mux.Handle("PUT /availabilities/{id}", s.admin(s.handleUpdateAvailability))
	mux.Handle("DELETE /availabilities/{id}", s.admin(s.handleDeleteAvailability))

	mux.Handle("GET /unavailabilities", s.authed(s.handleListUnavailabilities))
	mux.Handle("POST /unavailabilities", s.admin(s.handleCreateUnavailability))
	mux.Handle("DELETE /unavailabilities/{id}", s.admin(s.handleDeleteUnavailability))

	mux.Handle("GET /physical-locations", s.authed(s.handleListLocations))
	mux.Handle("POST /physical-locations", s.admin(s.handleCreateLocation))
	mux.Handle("PUT /physical-locations/{id}", s.admin(s.handleUpdateLocation))
	mux.Handle("DELETE /physical-locations/{id}", s.admin(s.handleDeleteLocation))

	mux.Handle("GET /appointments", s.authed(s.handleListAppointments))
	mux.Handle("GET /appointments/patient/{id}", s.authed(s.handlePatientAppointments))
	mux.Handle("POST /appointments", s.authed(s.handleCreateAppointment))
	mux.Handle("PUT /appointments/{id}", s.admin(s.handleUpdateAppointment))
	mux.Handle("DELETE /appointments/{id}", s.admin(s.handleDeleteAppointment))

	return s.logRequests(mux)
}

// Start starts the simulator and blocks until shutdown.
func (s *Server) Start() error {
	logging.Info("Starting clinic API simulator",
		zap.String("addr", s.http.Addr),
		zap.Bool("seeded", s.config.Seed),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping simulator...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the simulator.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err := s.http.Shutdown(ctx)
	logging.Sync()
	return err
}

// userKey carries the authenticated user through the request context.
type userKey struct{}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// authed requires a valid bearer token.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, ok := s.store.userForToken(token)
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

// admin requires a valid bearer token carrying the admin role.
func (s *Server) admin(next http.HandlerFunc) http.Handler {
	return s.authed(func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(userKey{}).(api.User)
		if !user.HasRole(api.RoleAdmin) {
			writeError(w, r, http.StatusForbidden, "administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
	logging.LogHTTPResponse(r.RemoteAddr, status, r.URL.Path)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	user, token, ok := s.store.authenticate(req.Email, req.Password)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}
	writeJSON(w, r, http.StatusOK, api.LoginResponse{
		ID:        user.ID,
		Token:     token,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Roles:     user.Roles,
	})
}

func (s *Server) handleListSpecialties(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	out := make([]api.Specialty, 0, len(s.store.specialties))
	for _, sp := range s.store.specialties {
		out = append(out, sp)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var sp api.Specialty
	if !decode(w, r, &sp) {
		return
	}
	if sp.Name == "" {
		writeError(w, r, http.StatusBadRequest, "specialty name is required")
		return
	}
	s.store.mu.Lock()
	sp.ID = s.store.nextID("spec")
	s.store.specialties[sp.ID] = sp
	s.store.mu.Unlock()
	writeJSON(w, r, http.StatusCreated, sp)
}

func (s *Server) handleUpdateSpecialty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var sp api.Specialty
	if !decode(w, r, &sp) {
		return
	}
	s.store.mu.Lock()
	_, ok := s.store.specialties[id]
	if ok {
		sp.ID = id
		s.store.specialties[id] = sp
	}
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "specialty not found")
		return
	}
	writeJSON(w, r, http.StatusOK, sp)
}

func (s *Server) handleDeleteSpecialty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.mu.Lock()
	_, ok := s.store.specialties[id]
	delete(s.store.specialties, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "specialty not found")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListAppointmentTypes(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	out := make([]api.AppointmentType, 0, len(s.store.appointmentTypes))
	for _, at := range s.store.appointmentTypes {
		out = append(out, at)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleTypesBySpecialty(w http.ResponseWriter, r *http.Request) {
	specialtyID := r.PathValue("id")
	generalOnly := r.URL.Query().Get("isGeneral") == "true"

	s.store.mu.Lock()
	var out []api.AppointmentType
	for _, at := range s.store.appointmentTypes {
		if at.SpecialtyID != specialtyID {
			continue
		}
		if generalOnly && !at.IsGeneral {
			continue
		}
		out = append(out, at)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateAppointmentType(w http.ResponseWriter, r *http.Request) {
	var at api.AppointmentType
	if !decode(w, r, &at) {
		return
	}
	if at.Name == "" || at.SpecialtyID == "" {
		writeError(w, r, http.StatusBadRequest, "appointment type name and specialty are required")
		return
	}
	s.store.mu.Lock()
	at.ID = s.store.nextID("type")
	s.store.appointmentTypes[at.ID] = at
	s.store.mu.Unlock()
	writeJSON(w, r, http.StatusCreated, at)
}

func (s *Server) handleUpdateAppointmentType(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var at api.AppointmentType
	if !decode(w, r, &at) {
		return
	}
	s.store.mu.Lock()
	_, ok := s.store.appointmentTypes[id]
	if ok {
		at.ID = id
		s.store.appointmentTypes[id] = at
	}
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "appointment type not found")
		return
	}
	writeJSON(w, r, http.StatusOK, at)
}

func (s *Server) handleDeleteAppointmentType(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.mu.Lock()
	_, ok := s.store.appointmentTypes[id]
	delete(s.store.appointmentTypes, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "appointment type not found")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	out := make([]api.User, 0, len(s.store.users))
	for _, u := range s.store.users {
		out = append(out, u)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleUsersBySpecialty(w http.ResponseWriter, r *http.Request) {
	specialtyID := r.PathValue("id")
	s.store.mu.Lock()
	var out []api.User
	for _, u := range s.store.users {
		if u.SpecialtyID == specialtyID {
			out = append(out, u)
		}
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u api.User
	if !decode(w, r, &u) {
		return
	}
	if u.Email == "" {
		writeError(w, r, http.StatusBadRequest, "user email is required")
		return
	}
	s.store.mu.Lock()
	u.ID = s.store.nextID("user")
	s.store.users[u.ID] = u
	s.store.passwords[u.ID] = "password"
	s.store.mu.Unlock()
	writeJSON(w, r, http.StatusCreated, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var u api.User
	if !decode(w, r, &u) {
		return
	}
	s.store.mu.Lock()
	_, ok := s.store.users[id]
	if ok {
		u.ID = id
		s.store.users[id] = u
	}
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.mu.Lock()
	_, ok := s.store.users[id]
	delete(s.store.users, id)
	delete(s.store.passwords, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctorId")
	typeID := r.URL.Query().Get("appointmentTypeId")
	if doctorID == "" || typeID == "" {
		writeError(w, r, http.StatusBadRequest, "doctorId and appointmentTypeId are required")
		return
	}
	s.store.mu.Lock()
	pool := s.store.slots[slotKey(doctorID, typeID)]
	out := make([]api.TimeSlot, len(pool))
	copy(out, pool)
	s.store.mu.Unlock()
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAppointmentRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, api.UserMessage(err))
		return
	}
	if !s.store.takeSlot(req.DoctorID, req.AppointmentTypeID, req.StartTime) {
		writeError(w, r, http.StatusConflict, "the selected slot is no longer available")
		return
	}

	s.store.mu.Lock()
	appt := api.Appointment{
		ID:                  s.store.nextID("appt"),
		PatientID:           req.PatientID,
		DoctorID:            req.DoctorID,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Notes:               req.Notes,
		Status:              "SCHEDULED",
		AppointmentTypeID:   req.AppointmentTypeID,
		ParentAppointmentID: req.ParentAppointmentID,
	}
	if doctor, ok := s.store.users[req.DoctorID]; ok {
		appt.DoctorName = doctor.FullName()
	}
	if patient, ok := s.store.users[req.PatientID]; ok {
		appt.PatientName = patient.FullName()
	}
	if at, ok := s.store.appointmentTypes[req.AppointmentTypeID]; ok {
		appt.TypeName = at.Name
	}
	s.store.appointments[appt.ID] = appt
	s.store.mu.Unlock()

	writeJSON(w, r, http.StatusCreated, appt)
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	out := make([]api.Appointment, 0, len(s.store.appointments))
	for _, a := range s.store.appointments {
		out = append(out, a)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handlePatientAppointments(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	s.store.mu.Lock()
	var out []api.Appointment
	for _, a := range s.store.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var a api.Appointment
	if !decode(w, r, &a) {
		return
	}
	s.store.mu.Lock()
	_, ok := s.store.appointments[id]
	if ok {
		a.ID = id
		s.store.appointments[id] = a
	}
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "appointment not found")
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.mu.Lock()
	_, ok := s.store.appointments[id]
	delete(s.store.appointments, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "appointment not found")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	out := make([]api.PhysicalLocation, 0, len(s.store.locations))
	for _, l := range s.store.locations {
		out = append(out, l)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var l api.PhysicalLocation
	if !decode(w, r, &l) {
		return
	}
	if l.Name == "" {
		writeError(w, r, http.StatusBadRequest, "location name is required")
		return
	}
	s.store.mu.Lock()
	l.ID = s.store.nextID("loc")
	s.store.locations[l.ID] = l
	s.store.mu.Unlock()
	writeJSON(w, r, http.StatusCreated, l)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var l api.PhysicalLocation
	if !decode(w, r, &l) {
		return
	}
	s.store.mu.Lock()
	_, ok := s.store.locations[id]
	if ok {
		l.ID = id
		s.store.locations[id] = l
	}
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "location not found")
		return
	}
	writeJSON(w, r, http.StatusOK, l)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.mu.Lock()
	_, ok := s.store.locations[id]
	delete(s.store.locations, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "location not found")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListAvailabilities(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	out := make([]api.Availability, 0, len(s.store.availabilities))
	for _, a := range s.store.availabilities {
		out = append(out, a)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateAvailability(w http.ResponseWriter, r *http.Request) {
	var a api.Availability
	if !decode(w, r, &a) {
		return
	}
	if a.DoctorID == "" || a.DayOfWeek == "" {
		writeError(w, r, http.StatusBadRequest, "doctor and day of week are required")
		return
	}
	s.store.mu.Lock()
	a.ID = s.store.nextID("avail")
	s.store.availabilities[a.ID] = a
	s.store.mu.Unlock()
	writeJSON(w, r, http.StatusCreated, a)
}

func (s *Server) handleUpdateAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var a api.Availability
	if !decode(w, r, &a) {
		return
	}
	s.store.mu.Lock()
	_, ok := s.store.availabilities[id]
	if ok {
		a.ID = id
		s.store.availabilities[id] = a
	}
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "availability not found")
		return
	}
	writeJSON(w, r, http.StatusOK, a)
}

func (s *Server) handleDeleteAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.mu.Lock()
	_, ok := s.store.availabilities[id]
	delete(s.store.availabilities, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "availability not found")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListUnavailabilities(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	out := make([]api.Unavailability, 0, len(s.store.unavailabilities))
	for _, u := range s.store.unavailabilities {
		out = append(out, u)
	}
	s.store.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateUnavailability(w http.ResponseWriter, r *http.Request) {
	var u api.Unavailability
	if !decode(w, r, &u) {
		return
	}
	if u.DoctorID == "" {
		writeError(w, r, http.StatusBadRequest, "doctor is required")
		return
	}
	s.store.mu.Lock()
	u.ID = s.store.nextID("unavail")
	s.store.unavailabilities[u.ID] = u
	s.store.mu.Unlock()
	writeJSON(w, r, http.StatusCreated, u)
}

func (s *Server) handleDeleteUnavailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.mu.Lock()
	_, ok := s.store.unavailabilities[id]
	delete(s.store.unavailabilities, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "unavailability not found")
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
