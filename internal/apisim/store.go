package apisim

import (
	"fmt"
	"sync"

	"github.com/calnico/clinicbook/internal/api"
)

// Store is the in-memory backing state of the simulator. All access goes
// through the mutex; handlers copy data out so callers never hold references
// into the maps.
type Store struct {
	mu sync.Mutex

	seq              int
	tokens           map[string]string // token -> user id
	users            map[string]api.User
	passwords        map[string]string // user id -> plaintext (simulator only)
	specialties      map[string]api.Specialty
	appointmentTypes map[string]api.AppointmentType
	locations        map[string]api.PhysicalLocation
	availabilities   map[string]api.Availability
	unavailabilities map[string]api.Unavailability
	appointments     map[string]api.Appointment

	// slots holds the open slots per "doctorID|appointmentTypeID" key.
	// Booking an appointment removes the matching slot.
	slots map[string][]api.TimeSlot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tokens:           make(map[string]string),
		users:            make(map[string]api.User),
		passwords:        make(map[string]string),
		specialties:      make(map[string]api.Specialty),
		appointmentTypes: make(map[string]api.AppointmentType),
		locations:        make(map[string]api.PhysicalLocation),
		availabilities:   make(map[string]api.Availability),
		unavailabilities: make(map[string]api.Unavailability),
		appointments:     make(map[string]api.Appointment),
		slots:            make(map[string][]api.TimeSlot),
	}
}

// nextID issues a sequential id with a readable prefix. Callers must hold mu.
func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func slotKey(doctorID, appointmentTypeID string) string {
	return doctorID + "|" + appointmentTypeID
}

// Seed populates the store with a small clinic: one admin, two doctors in
// different specialties, two patients, and a week of open slots.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cardio := api.Specialty{ID: s.nextID("spec"), Name: "Cardiology", Description: "Heart and circulatory system"}
	derma := api.Specialty{ID: s.nextID("spec"), Name: "Dermatology", Description: "Skin conditions"}
	s.specialties[cardio.ID] = cardio
	s.specialties[derma.ID] = derma

	consult := api.AppointmentType{ID: s.nextID("type"), Name: "First consultation", SpecialtyID: cardio.ID, DurationMinutes: 30, IsGeneral: true, IsActive: true}
	followUp := api.AppointmentType{ID: s.nextID("type"), Name: "Follow-up", SpecialtyID: cardio.ID, DurationMinutes: 15, IsGeneral: false, IsActive: true}
	retired := api.AppointmentType{ID: s.nextID("type"), Name: "Legacy screening", SpecialtyID: cardio.ID, DurationMinutes: 60, IsGeneral: true, IsActive: false}
	skinCheck := api.AppointmentType{ID: s.nextID("type"), Name: "Skin check", SpecialtyID: derma.ID, DurationMinutes: 20, IsGeneral: true, IsActive: true}
	for _, at := range []api.AppointmentType{consult, followUp, retired, skinCheck} {
		s.appointmentTypes[at.ID] = at
	}

	admin := api.User{ID: s.nextID("user"), FirstName: "Avery", LastName: "Admin", Email: "admin@clinic.test",
		Roles: []api.RoleRef{{Authority: api.RoleAdmin}}}
	drHeart := api.User{ID: s.nextID("user"), FirstName: "Helena", LastName: "Hart", Email: "h.hart@clinic.test",
		SpecialtyID: cardio.ID, Roles: []api.RoleRef{{Authority: api.RoleDoctor}}}
	drSkin := api.User{ID: s.nextID("user"), FirstName: "Silas", LastName: "Derm", Email: "s.derm@clinic.test",
		SpecialtyID: derma.ID, Roles: []api.RoleRef{{Name: api.RoleDoctor}}}
	patient1 := api.User{ID: s.nextID("user"), FirstName: "Paula", LastName: "Prince", Email: "paula@example.test",
		Roles: []api.RoleRef{{Authority: api.RolePatient}}}
	patient2 := api.User{ID: s.nextID("user"), FirstName: "Peter", LastName: "Quill", Email: "peter@example.test",
		Roles: []api.RoleRef{{Authority: api.RolePatient}}}
	for _, u := range []api.User{admin, drHeart, drSkin, patient1, patient2} {
		s.users[u.ID] = u
		s.passwords[u.ID] = "password"
	}

	loc := api.PhysicalLocation{ID: s.nextID("loc"), Name: "Main Clinic", Address: "1 Care Street", Floor: "2", Room: "204"}
	s.locations[loc.ID] = loc

	availID := s.nextID("avail")
	s.availabilities[availID] = api.Availability{
		ID: availID, DoctorID: drHeart.ID, LocationID: loc.ID,
		DayOfWeek: "MONDAY", StartTime: "09:00:00", EndTime: "12:00:00",
	}

	s.slots[slotKey(drHeart.ID, consult.ID)] = []api.TimeSlot{
		{StartTime: "2026-09-07T09:00:00", EndTime: "2026-09-07T09:30:00"},
		{StartTime: "2026-09-07T09:30:00", EndTime: "2026-09-07T10:00:00"},
		{StartTime: "2026-09-07T14:00:00", EndTime: "2026-09-07T14:30:00"},
		{StartTime: "2026-09-08T09:00:00", EndTime: "2026-09-08T09:30:00"},
		{StartTime: "2026-09-08T10:30:00", EndTime: "2026-09-08T11:00:00"},
	}
	s.slots[slotKey(drHeart.ID, followUp.ID)] = []api.TimeSlot{
		{StartTime: "2026-09-09T11:00:00", EndTime: "2026-09-09T11:15:00"},
	}
	s.slots[slotKey(drSkin.ID, skinCheck.ID)] = []api.TimeSlot{
		{StartTime: "2026-09-10T08:00:00", EndTime: "2026-09-10T08:20:00"},
		{StartTime: "2026-09-10T08:20:00", EndTime: "2026-09-10T08:40:00"},
	}
}

// authenticate checks email/password and issues a bearer token.
func (s *Store) authenticate(email, password string) (api.User, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email && s.passwords[u.ID] == password {
			token := s.nextID("tok")
			s.tokens[token] = u.ID
			return u, token, true
		}
	}
	return api.User{}, "", false
}

// userForToken resolves a bearer token to its user.
func (s *Store) userForToken(token string) (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokens[token]
	if !ok {
		return api.User{}, false
	}
	u, ok := s.users[id]
	return u, ok
}

// takeSlot removes the slot matching the appointment start time from the
// (doctor, type) pool. Returns false when the slot is gone (already booked).
func (s *Store) takeSlot(doctorID, appointmentTypeID, startTime string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey(doctorID, appointmentTypeID)
	pool := s.slots[key]
	for i, slot := range pool {
		if slot.StartTime == startTime {
			s.slots[key] = append(pool[:i:i], pool[i+1:]...)
			return true
		}
	}
	return false
}
