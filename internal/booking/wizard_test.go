package booking

import (
	"testing"

	"github.com/calnico/clinicbook/internal/api"
)

func testSlots() []api.TimeSlot {
	return []api.TimeSlot{
		{StartTime: "2024-06-10T09:00:00", EndTime: "2024-06-10T09:30:00"},
		{StartTime: "2024-06-10T10:00:00", EndTime: "2024-06-10T10:30:00"},
		{StartTime: "2024-06-11T09:00:00", EndTime: "2024-06-11T09:30:00"},
	}
}

// populate walks a patient wizard to a fully selected state.
func populatedPatientWizard(t *testing.T) *Wizard {
	t.Helper()

	w := NewPatientWizard()
	w.Start()

	w.Deliver(FetchSpecialties, 1, []Option{{ID: "1", Label: "Cardiology"}}, nil)

	fetches := w.Set(FieldSpecialty, "1")
	if len(fetches) != 1 || fetches[0].Kind != FetchAppointmentTypes {
		t.Fatalf("Set(specialty) fetches = %v, want one appointmentTypes fetch", fetches)
	}
	w.Deliver(FetchAppointmentTypes, fetches[0].Gen, []Option{{ID: "10", Label: "Checkup"}}, nil)

	fetches = w.Set(FieldAppointmentType, "10")
	w.Deliver(FetchDoctors, fetches[0].Gen, []Option{{ID: "7", Label: "Dr. Vega"}}, nil)

	fetches = w.Set(FieldDoctor, "7")
	if len(fetches) != 1 || fetches[0].Kind != FetchSlots {
		t.Fatalf("Set(doctor) fetches = %v, want one slots fetch", fetches)
	}
	w.DeliverSlots(fetches[0].Gen, testSlots(), nil)

	w.Set(FieldDate, "2024-06-10")
	w.Set(FieldTime, "09:00:00")
	w.Set(FieldReason, "chest pain")

	return w
}

func TestCascadeClear(t *testing.T) {
	w := populatedPatientWizard(t)

	if w.Value(FieldDoctor) != "7" || w.Value(FieldDate) != "2024-06-10" || w.Value(FieldTime) != "09:00:00" {
		t.Fatal("precondition: downstream fields should be populated")
	}

	// Changing the specialty must reset every downstream field.
	w.Set(FieldSpecialty, "3")

	for _, f := range []Field{FieldAppointmentType, FieldDoctor, FieldDate, FieldTime, FieldReason} {
		if got := w.Value(f); got != "" {
			t.Errorf("after specialty change, %s = %q, want empty", f, got)
		}
	}
	if w.Value(FieldSpecialty) != "3" {
		t.Errorf("specialty = %q, want 3", w.Value(FieldSpecialty))
	}

	// Downstream option lists are emptied as part of the cascade.
	if len(w.Options(FetchDoctors)) != 0 {
		t.Error("doctor options should be cleared by the cascade")
	}
	if len(w.Slots()) != 0 {
		t.Error("slots should be cleared by the cascade")
	}
}

func TestCascadeClearWithinStep(t *testing.T) {
	w := populatedPatientWizard(t)

	// Date and time share a step; changing the date still clears the time.
	w.Set(FieldDate, "2024-06-11")

	if got := w.Value(FieldTime); got != "" {
		t.Errorf("time = %q after date change, want empty", got)
	}
	if got := w.Value(FieldDate); got != "2024-06-11" {
		t.Errorf("date = %q, want 2024-06-11", got)
	}
	// Slots are upstream of the date selection and must survive.
	if len(w.Slots()) != 3 {
		t.Errorf("slots len = %d after date change, want 3", len(w.Slots()))
	}
}

func TestStepGating(t *testing.T) {
	w := NewPatientWizard()
	w.Start()

	// Specialty empty: next must not advance.
	if w.Next() {
		t.Error("Next() advanced with empty specialty")
	}
	if w.StepNumber() != 1 {
		t.Errorf("StepNumber = %d, want 1", w.StepNumber())
	}

	w.Deliver(FetchSpecialties, 1, []Option{{ID: "1", Label: "Cardiology"}}, nil)
	w.Set(FieldSpecialty, "1")

	if !w.Next() {
		t.Error("Next() refused to advance with specialty set")
	}
	if w.StepNumber() != 2 {
		t.Errorf("StepNumber = %d, want 2", w.StepNumber())
	}
}

func TestDateTimeStepRequiresBothFields(t *testing.T) {
	w := populatedPatientWizard(t)

	w.Set(FieldDate, "2024-06-10") // clears time
	// Step 4 (index 3) now has a date but no time.
	if w.StepComplete(3) {
		t.Error("date/time step complete without a time")
	}
	w.Set(FieldTime, "10:00:00")
	if !w.StepComplete(3) {
		t.Error("date/time step incomplete with both fields set")
	}
}

func TestPrevClearsNothing(t *testing.T) {
	w := populatedPatientWizard(t)
	for w.Next() {
	}
	if !w.OnFinalStep() {
		t.Fatalf("expected final step, got %d", w.StepNumber())
	}

	w.Prev()
	w.Prev()

	if w.Value(FieldTime) != "09:00:00" || w.Value(FieldReason) != "chest pain" {
		t.Error("going back cleared later-step selections")
	}

	// Clamped at step 1.
	for i := 0; i < 10; i++ {
		w.Prev()
	}
	if w.StepNumber() != 1 {
		t.Errorf("StepNumber = %d after repeated Prev, want 1", w.StepNumber())
	}
}

func TestStaleFetchDiscarded(t *testing.T) {
	w := NewPatientWizard()
	w.Start()
	w.Deliver(FetchSpecialties, 1, []Option{{ID: "1", Label: "Cardiology"}, {ID: "2", Label: "Dermatology"}}, nil)

	first := w.Set(FieldSpecialty, "1")
	// The user changes their mind while the first fetch is still in flight.
	second := w.Set(FieldSpecialty, "2")

	// The late response from the superseded request must be discarded.
	if w.Deliver(FetchAppointmentTypes, first[0].Gen, []Option{{ID: "old", Label: "Old"}}, nil) {
		t.Error("stale response was applied")
	}
	if len(w.Options(FetchAppointmentTypes)) != 0 {
		t.Error("stale response populated the option list")
	}

	if !w.Deliver(FetchAppointmentTypes, second[0].Gen, []Option{{ID: "20", Label: "Biopsy"}}, nil) {
		t.Error("latest response was rejected")
	}
	opts := w.Options(FetchAppointmentTypes)
	if len(opts) != 1 || opts[0].ID != "20" {
		t.Errorf("options = %v, want the latest response only", opts)
	}
}

func TestFetchErrorKeepsPreviousList(t *testing.T) {
	w := NewPatientWizard()
	w.Start()
	w.Deliver(FetchSpecialties, 1, []Option{{ID: "1", Label: "Cardiology"}, {ID: "2", Label: "Dermatology"}}, nil)

	f := w.Set(FieldSpecialty, "1")
	w.Deliver(FetchAppointmentTypes, f[0].Gen, []Option{{ID: "10", Label: "Checkup"}}, nil)

	f = w.Set(FieldSpecialty, "2")
	w.Deliver(FetchAppointmentTypes, f[0].Gen, nil, api.NewHTTPError(500, "boom"))

	if w.Err() == "" {
		t.Error("fetch failure should record a step-scoped error")
	}
	// Previous (stale) list stays in place rather than vanishing.
	if len(w.Options(FetchAppointmentTypes)) != 1 {
		t.Errorf("options len = %d, want previous list preserved", len(w.Options(FetchAppointmentTypes)))
	}

	// Any field change clears the error.
	w.Set(FieldSpecialty, "1")
	if w.Err() != "" {
		t.Error("field change should clear the step error")
	}
}

func TestLoadingFlags(t *testing.T) {
	w := NewPatientWizard()
	fetches := w.Start()
	if !w.Loading(FetchSpecialties) {
		t.Error("specialties should be loading after Start")
	}
	w.Deliver(FetchSpecialties, fetches[0].Gen, nil, nil)
	if w.Loading(FetchSpecialties) || w.AnyLoading() {
		t.Error("loading flag should reset on delivery")
	}
}

func TestBuildRequestResolvesSlot(t *testing.T) {
	w := populatedPatientWizard(t)

	req, err := w.BuildRequest("me")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if req.StartTime != "2024-06-10T09:00:00" || req.EndTime != "2024-06-10T09:30:00" {
		t.Errorf("resolved slot = %s - %s, want the 09:00 slot", req.StartTime, req.EndTime)
	}
	if req.PatientID != "me" {
		t.Errorf("PatientID = %q, want session user fallback", req.PatientID)
	}
	if req.DoctorID != "7" || req.AppointmentTypeID != "10" || req.Notes != "chest pain" {
		t.Errorf("request fields = %+v", req)
	}
	if req.ParentAppointmentID != nil {
		t.Error("ParentAppointmentID should be nil for self-service booking")
	}
}

func TestBuildRequestStaleSlotFailsLocally(t *testing.T) {
	w := populatedPatientWizard(t)

	// Simulate the slot list going stale underneath the selection.
	w.DeliverSlots(w.Set(FieldDoctor, "7")[0].Gen, []api.TimeSlot{
		{StartTime: "2024-06-12T14:00:00", EndTime: "2024-06-12T14:30:00"},
	}, nil)
	w.Set(FieldDate, "2024-06-12")
	w.Set(FieldTime, "09:00:00") // no longer offered

	_, err := w.BuildRequest("me")
	if err == nil {
		t.Fatal("BuildRequest() should fail when the time matches no slot")
	}
	if !api.IsValidationError(err) {
		t.Errorf("error type = %T %v, want local validation error", err, err)
	}
}

func TestResetAfterSuccess(t *testing.T) {
	w := populatedPatientWizard(t)
	for w.Next() {
	}

	w.Finish()

	if w.StepNumber() != 1 {
		t.Errorf("StepNumber = %d after Finish, want 1", w.StepNumber())
	}
	for _, f := range []Field{FieldSpecialty, FieldAppointmentType, FieldDoctor, FieldDate, FieldTime, FieldReason} {
		if w.Value(f) != "" {
			t.Errorf("%s = %q after Finish, want empty", f, w.Value(f))
		}
	}
	if len(w.Slots()) != 0 || len(w.Options(FetchDoctors)) != 0 {
		t.Error("dependent option lists should be cleared after Finish")
	}
	// Specialties were fetched once on mount and survive the reset.
	if len(w.Options(FetchSpecialties)) != 1 {
		t.Error("specialty list should survive the reset")
	}

	if !w.ConsumeSuccess() {
		t.Error("success flag should be set for one cycle")
	}
	if w.ConsumeSuccess() {
		t.Error("success flag should clear after being consumed")
	}
}

func TestStaffWizardVacuousDoctorStep(t *testing.T) {
	w := NewStaffWizard()
	w.Start()

	if w.TotalSteps() != 6 {
		t.Fatalf("TotalSteps = %d, want 6", w.TotalSteps())
	}

	w.Deliver(FetchPatients, 1, []Option{{ID: "p1", Label: "Ana Ruiz"}}, nil)
	w.Deliver(FetchSpecialties, 1, []Option{{ID: "1", Label: "Cardiology"}}, nil)

	f := w.Set(FieldPatient, "p1")
	if len(f) != 1 || f[0].Kind != FetchPriorAppointments {
		t.Fatalf("Set(patient) fetches = %v, want priorAppointments", f)
	}
	w.Set(FieldSpecialty, "1")
	f = w.Set(FieldAppointmentType, "10")

	// Empty doctor list: the step is vacuously complete (no dead-end).
	w.Deliver(FetchDoctors, f[0].Gen, nil, nil)
	if !w.StepComplete(3) {
		t.Error("doctor step should be vacuously complete with an empty list")
	}

	// Non-empty list: a doctor must actually be chosen.
	f = w.Set(FieldAppointmentType, "10")
	w.Deliver(FetchDoctors, f[0].Gen, []Option{{ID: "7", Label: "Dr. Vega"}}, nil)
	if w.StepComplete(3) {
		t.Error("doctor step should require a choice when doctors exist")
	}
}

func TestStaffWizardDateTimeRequiresSlots(t *testing.T) {
	w := NewStaffWizard()
	w.Start()

	w.Set(FieldPatient, "p1")
	w.Set(FieldSpecialty, "1")
	w.Set(FieldAppointmentType, "10")
	f := w.Set(FieldDoctor, "7")
	w.DeliverSlots(f[0].Gen, nil, nil)

	// Even with date and time somehow set, zero slots blocks the step.
	w.Set(FieldDate, "2024-06-10")
	w.Set(FieldTime, "09:00:00")
	if w.StepComplete(4) {
		t.Error("date/time step should be blocked with zero slots")
	}
}

func TestStaffWizardParentAppointmentOptional(t *testing.T) {
	w := NewStaffWizard()
	w.Start()

	w.Set(FieldPatient, "p1")
	w.Set(FieldSpecialty, "1")
	w.Set(FieldAppointmentType, "10")
	f := w.Set(FieldDoctor, "7")
	w.DeliverSlots(f[0].Gen, testSlots(), nil)
	w.Set(FieldDate, "2024-06-10")
	w.Set(FieldTime, "09:00:00")
	w.Set(FieldReason, "follow-up")

	// Reason step complete without a parent appointment.
	if !w.StepComplete(5) {
		t.Error("reason step should not require a parent appointment")
	}

	req, err := w.BuildRequest("ignored")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if req.PatientID != "p1" {
		t.Errorf("PatientID = %q, want the selected patient", req.PatientID)
	}
	if req.ParentAppointmentID != nil {
		t.Error("ParentAppointmentID should be nil when not selected")
	}

	w.Set(FieldParentAppointment, "appt-9")
	req, err = w.BuildRequest("ignored")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if req.ParentAppointmentID == nil || *req.ParentAppointmentID != "appt-9" {
		t.Errorf("ParentAppointmentID = %v, want appt-9", req.ParentAppointmentID)
	}
}
