package tui

import (
	"net/http"
	"testing"

	"github.com/calnico/clinicbook/internal/api"
	"github.com/calnico/clinicbook/internal/booking"
	"github.com/calnico/clinicbook/internal/session"
)

var testSlots = []api.TimeSlot{
	{StartTime: "2026-09-07T09:00:00", EndTime: "2026-09-07T09:30:00"},
	{StartTime: "2026-09-07T10:00:00", EndTime: "2026-09-07T10:30:00"},
}

func newTestBookingModel() BookingModel {
	sess := &session.Session{
		Token:  "token-1",
		UserID: "user-10",
		Roles:  []session.Role{session.RolePatient},
	}
	client := api.NewClient("http://127.0.0.1:1", sess.Token)
	return NewBookingModel(client, sess)
}

func deliverFetches(w *booking.Wizard, fetches []booking.Fetch) {
	for _, f := range fetches {
		switch f.Kind {
		case booking.FetchSpecialties:
			w.Deliver(f.Kind, f.Gen, []booking.Option{{ID: "spec-1", Label: "Cardiology"}}, nil)
		case booking.FetchAppointmentTypes:
			w.Deliver(f.Kind, f.Gen, []booking.Option{{ID: "type-3", Label: "First consultation (30 min)"}}, nil)
		case booking.FetchDoctors:
			w.Deliver(f.Kind, f.Gen, []booking.Option{{ID: "user-8", Label: "Dr. Helena Hart"}}, nil)
		case booking.FetchSlots:
			w.DeliverSlots(f.Gen, testSlots, nil)
		}
	}
}

// completeSelection walks the patient wizard to its final step with every
// field populated, delivering canned option lists along the way.
func completeSelection(t *testing.T, w *booking.Wizard) {
	t.Helper()

	deliverFetches(w, w.Start())
	deliverFetches(w, w.Set(booking.FieldSpecialty, "spec-1"))
	advance(t, w)
	deliverFetches(w, w.Set(booking.FieldAppointmentType, "type-3"))
	advance(t, w)
	deliverFetches(w, w.Set(booking.FieldDoctor, "user-8"))
	advance(t, w)
	w.Set(booking.FieldDate, "2026-09-07")
	w.Set(booking.FieldTime, "09:00:00")
	advance(t, w)
	w.Set(booking.FieldReason, "Chest pain")
}

func advance(t *testing.T, w *booking.Wizard) {
	t.Helper()
	if !w.Next() {
		t.Fatalf("wizard did not advance past step %q", w.StepName(w.StepIndex()))
	}
}

func TestSubmissionFailureKeepsStepAndSelection(t *testing.T) {
	m := newTestBookingModel()
	completeSelection(t, m.Wizard)
	m.Submitting = true
	stepBefore := m.Wizard.StepIndex()

	updated, _ := m.Update(bookedMsg{err: api.NewHTTPError(http.StatusConflict, "slot already booked")})
	m = updated.(BookingModel)

	if m.Wizard.StepIndex() != stepBefore {
		t.Errorf("step = %d after failed submission, want %d (no retreat)", m.Wizard.StepIndex(), stepBefore)
	}
	kept := map[booking.Field]string{
		booking.FieldSpecialty:       "spec-1",
		booking.FieldAppointmentType: "type-3",
		booking.FieldDoctor:          "user-8",
		booking.FieldDate:            "2026-09-07",
		booking.FieldTime:            "09:00:00",
		booking.FieldReason:          "Chest pain",
	}
	for f, want := range kept {
		if got := m.Wizard.Value(f); got != want {
			t.Errorf("field %s = %q after failed submission, want %q", f, got, want)
		}
	}
	if got := m.Wizard.Err(); got != "slot already booked" {
		t.Errorf("Err() = %q, want the backend message", got)
	}
	if m.Submitting {
		t.Error("Submitting still set after failure")
	}
	if m.Wizard.ConsumeSuccess() {
		t.Error("success flag set after failed submission")
	}
}

func TestSubmissionSessionErrorIsFatal(t *testing.T) {
	m := newTestBookingModel()
	completeSelection(t, m.Wizard)

	updated, _ := m.Update(bookedMsg{err: api.NewSessionError("token rejected")})
	m = updated.(BookingModel)

	if m.FatalErr == nil {
		t.Fatal("FatalErr not set for a session error")
	}
	if !api.IsSessionError(m.FatalErr) {
		t.Errorf("FatalErr = %v, want a session error", m.FatalErr)
	}
}

func TestSubmitBlockedWhileFetchInFlight(t *testing.T) {
	m := newTestBookingModel()
	completeSelection(t, m.Wizard)

	// A pending refetch means the selection may be about to go stale.
	m.Wizard.Set(booking.FieldDoctor, "user-8")

	updated, cmd := m.submit()
	m = updated.(BookingModel)

	if m.Submitting {
		t.Error("submitted while a fetch was in flight")
	}
	if cmd != nil {
		t.Error("submit issued a command while a fetch was in flight")
	}
}

func TestSuccessfulBookingShowsConfirmation(t *testing.T) {
	sess := &session.Session{
		Token:  "token-1",
		UserID: "user-10",
		Roles:  []session.Role{session.RolePatient},
	}
	client := api.NewClient("http://127.0.0.1:1", sess.Token)
	app := NewAppModel(client, sess)
	completeSelection(t, app.BookingModel.Wizard)

	updated, _ := app.Update(bookedMsg{appt: &api.Appointment{ID: "appt-1"}})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenSuccess {
		t.Errorf("CurrentScreen = %q, want %q", app.CurrentScreen, ScreenSuccess)
	}
	if app.BookedAppointment == nil || app.BookedAppointment.ID != "appt-1" {
		t.Errorf("BookedAppointment = %+v, want appt-1", app.BookedAppointment)
	}
	if app.BookingModel.Wizard.StepIndex() != 0 {
		t.Errorf("wizard step = %d after success, want 0", app.BookingModel.Wizard.StepIndex())
	}
	if app.BookingModel.Wizard.Value(booking.FieldSpecialty) != "" {
		t.Error("selection not cleared after success")
	}
	if app.BookingModel.Wizard.ConsumeSuccess() {
		t.Error("success flag not consumed by the screen transition")
	}
}
