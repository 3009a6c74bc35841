package apisim

import (
	"net/http/httptest"
	"testing"

	"github.com/calnico/clinicbook/internal/api"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(&Config{Seed: true})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func login(t *testing.T, ts *httptest.Server, email string) (*api.Client, string) {
	t.Helper()
	c := api.NewClient(ts.URL, "")
	lr, err := c.Login(email, "password")
	if err != nil {
		t.Fatalf("login as %s failed: %v", email, err)
	}
	c.Token = lr.Token
	return c, lr.ID
}

func TestLoginIssuesToken(t *testing.T) {
	_, ts := newTestServer(t)

	c := api.NewClient(ts.URL, "")
	lr, err := c.Login("paula@example.test", "password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if lr.Token == "" {
		t.Error("no token issued")
	}
	if len(lr.Roles) != 1 || lr.Roles[0].Canonical() != api.RolePatient {
		t.Errorf("Roles = %v", lr.Roles)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, ts := newTestServer(t)

	c := api.NewClient(ts.URL, "")
	_, err := c.Login("paula@example.test", "wrong")
	if !api.IsSessionError(err) {
		t.Errorf("err = %v, want session error", err)
	}
}

func TestRequestsRequireToken(t *testing.T) {
	_, ts := newTestServer(t)

	c := api.NewClient(ts.URL, "bogus-token")
	_, err := c.Specialties()
	if !api.IsSessionError(err) {
		t.Errorf("err = %v, want session error", err)
	}
}

func TestBookingFlow(t *testing.T) {
	_, ts := newTestServer(t)
	c, patientID := login(t, ts, "paula@example.test")

	specs, err := c.Specialties()
	if err != nil {
		t.Fatalf("Specialties failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specialties, want 2", len(specs))
	}
	cardio := specs[0]

	types, err := c.AppointmentTypes(cardio.ID, true)
	if err != nil {
		t.Fatalf("AppointmentTypes failed: %v", err)
	}
	// Seed has two general cardiology types but one is inactive.
	if len(types) != 1 || types[0].Name != "First consultation" {
		t.Fatalf("types = %v", types)
	}

	doctors, err := c.DoctorsBySpecialty(cardio.ID)
	if err != nil {
		t.Fatalf("DoctorsBySpecialty failed: %v", err)
	}
	if len(doctors) != 1 {
		t.Fatalf("doctors = %v", doctors)
	}

	slots, err := c.Slots(doctors[0].ID, types[0].ID)
	if err != nil {
		t.Fatalf("Slots failed: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("got %d slots, want 5", len(slots))
	}

	appt, err := c.CreateAppointment(api.CreateAppointmentRequest{
		PatientID:         patientID,
		DoctorID:          doctors[0].ID,
		StartTime:         slots[0].StartTime,
		EndTime:           slots[0].EndTime,
		Notes:             "chest pain follow-up",
		AppointmentTypeID: types[0].ID,
	})
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	if appt.Status != "SCHEDULED" || appt.DoctorName == "" {
		t.Errorf("appointment = %+v", appt)
	}

	// The booked slot is consumed.
	after, err := c.Slots(doctors[0].ID, types[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 4 {
		t.Errorf("got %d slots after booking, want 4", len(after))
	}
	for _, s := range after {
		if s.StartTime == slots[0].StartTime {
			t.Error("booked slot still listed")
		}
	}

	// The appointment shows up in the patient's history.
	history, err := c.PatientAppointments(patientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].ID != appt.ID {
		t.Errorf("history = %v", history)
	}
}

func TestDoubleBookingConflicts(t *testing.T) {
	_, ts := newTestServer(t)
	c, patientID := login(t, ts, "paula@example.test")

	specs, _ := c.Specialties()
	types, _ := c.AppointmentTypes(specs[0].ID, true)
	doctors, _ := c.DoctorsBySpecialty(specs[0].ID)
	slots, _ := c.Slots(doctors[0].ID, types[0].ID)

	req := api.CreateAppointmentRequest{
		PatientID:         patientID,
		DoctorID:          doctors[0].ID,
		StartTime:         slots[0].StartTime,
		EndTime:           slots[0].EndTime,
		AppointmentTypeID: types[0].ID,
	}
	if _, err := c.CreateAppointment(req); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := c.CreateAppointment(req)
	if !api.IsHTTPError(err) {
		t.Fatalf("err = %v, want HTTP conflict", err)
	}
	if got := api.UserMessage(err); got != "the selected slot is no longer available" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestAdminEndpointsRejectNonAdmins(t *testing.T) {
	_, ts := newTestServer(t)
	c, _ := login(t, ts, "paula@example.test")

	_, err := c.CreateSpecialty(api.Specialty{Name: "Neurology"})
	if !api.IsSessionError(err) {
		t.Errorf("err = %v, want session error for 403", err)
	}
}

func TestAdminCRUD(t *testing.T) {
	_, ts := newTestServer(t)
	c, _ := login(t, ts, "admin@clinic.test")

	created, err := c.CreateSpecialty(api.Specialty{Name: "Neurology"})
	if err != nil {
		t.Fatalf("CreateSpecialty failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no id assigned")
	}

	created.Description = "Nervous system"
	if err := c.UpdateSpecialty(*created); err != nil {
		t.Fatalf("UpdateSpecialty failed: %v", err)
	}

	specs, err := c.AllSpecialties()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, sp := range specs {
		if sp.ID == created.ID && sp.Description == "Nervous system" {
			found = true
		}
	}
	if !found {
		t.Errorf("updated specialty not listed: %v", specs)
	}

	if err := c.DeleteSpecialty(created.ID); err != nil {
		t.Fatalf("DeleteSpecialty failed: %v", err)
	}
	if err := c.DeleteSpecialty(created.ID); !api.IsHTTPError(err) {
		t.Errorf("second delete err = %v, want HTTP 404", err)
	}
}
