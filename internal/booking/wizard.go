package booking

import (
	"github.com/calnico/clinicbook/internal/api"
)

// Field identifies one selection in the booking flow. Fields are ordered:
// setting a field always clears every field that comes after it.
type Field string

const (
	FieldPatient           Field = "patient"
	FieldSpecialty         Field = "specialty"
	FieldAppointmentType   Field = "appointmentType"
	FieldDoctor            Field = "doctor"
	FieldDate              Field = "date"
	FieldTime              Field = "time"
	FieldReason            Field = "reason"
	FieldParentAppointment Field = "parentAppointment"
)

// FetchKind identifies one backend option list the wizard depends on.
type FetchKind string

const (
	FetchSpecialties       FetchKind = "specialties"
	FetchAppointmentTypes  FetchKind = "appointmentTypes"
	FetchDoctors           FetchKind = "doctors"
	FetchSlots             FetchKind = "slots"
	FetchPatients          FetchKind = "patients"
	FetchPriorAppointments FetchKind = "priorAppointments"
)

// Option is one server-provided candidate for a step's select.
type Option struct {
	ID    string
	Label string
}

// Step is one decision point in the flow. Fields lists the step's fields in
// order; those not listed in Optional must be non-empty for the step to be
// complete. A nil Complete uses that default predicate.
type Step struct {
	Name     string
	Fields   []Field
	Optional []Field
	Complete func(w *Wizard) bool
}

// Fetch is a request the caller must issue against the backend. Gen tags
// the request so that a response superseded by a newer cascade is discarded
// instead of overwriting fresher state.
type Fetch struct {
	Kind FetchKind
	Gen  uint64
}

// Wizard is the parameterized booking state machine. One implementation
// serves both the patient self-service and staff-assisted variants; the
// step-definition list is the only difference between them.
//
// The wizard owns ephemeral UI state only: selections, option lists, a
// step-scoped error message, and per-fetch request generations. It performs
// no I/O itself - Set and Start return the fetches to issue, and the caller
// feeds responses back through Deliver/DeliverSlots.
type Wizard struct {
	steps        []Step
	mountFetches []FetchKind
	onChange     map[Field]FetchKind

	fieldOrder []Field
	fieldIndex map[Field]int

	values  map[Field]string
	options map[FetchKind][]Option
	slots   []api.TimeSlot

	gens    map[FetchKind]uint64
	loading map[FetchKind]bool

	current int
	errMsg  string
	success bool
}

func newWizard(steps []Step, mountFetches []FetchKind, onChange map[Field]FetchKind) *Wizard {
	w := &Wizard{
		steps:        steps,
		mountFetches: mountFetches,
		onChange:     onChange,
		fieldIndex:   make(map[Field]int),
		values:       make(map[Field]string),
		options:      make(map[FetchKind][]Option),
		gens:         make(map[FetchKind]uint64),
		loading:      make(map[FetchKind]bool),
	}
	for _, step := range steps {
		for _, f := range step.Fields {
			w.fieldIndex[f] = len(w.fieldOrder)
			w.fieldOrder = append(w.fieldOrder, f)
		}
	}
	return w
}

// NewPatientWizard builds the 5-step patient self-service variant:
// specialty, appointment type, doctor, date/time, reason.
func NewPatientWizard() *Wizard {
	steps := []Step{
		{Name: "Specialty", Fields: []Field{FieldSpecialty}},
		{Name: "Appointment type", Fields: []Field{FieldAppointmentType}},
		{Name: "Doctor", Fields: []Field{FieldDoctor}},
		{Name: "Date & time", Fields: []Field{FieldDate, FieldTime}},
		{Name: "Reason", Fields: []Field{FieldReason}},
	}
	onChange := map[Field]FetchKind{
		FieldSpecialty:       FetchAppointmentTypes,
		FieldAppointmentType: FetchDoctors,
		FieldDoctor:          FetchSlots,
	}
	return newWizard(steps, []FetchKind{FetchSpecialties}, onChange)
}

// NewStaffWizard builds the 6-step staff-assisted variant: patient,
// specialty, appointment type, doctor, date/time, reason with an optional
// parent-appointment link.
func NewStaffWizard() *Wizard {
	steps := []Step{
		{Name: "Patient", Fields: []Field{FieldPatient}},
		{Name: "Specialty", Fields: []Field{FieldSpecialty}},
		{Name: "Appointment type", Fields: []Field{FieldAppointmentType}},
		{
			Name:   "Doctor",
			Fields: []Field{FieldDoctor},
			// Vacuously complete when the backend returned no doctors, so
			// an understaffed specialty is not a dead-end.
			Complete: func(w *Wizard) bool {
				return w.Value(FieldDoctor) != "" || len(w.Options(FetchDoctors)) == 0
			},
		},
		{
			Name:   "Date & time",
			Fields: []Field{FieldDate, FieldTime},
			Complete: func(w *Wizard) bool {
				return w.Value(FieldDate) != "" && w.Value(FieldTime) != "" && len(w.slots) > 0
			},
		},
		{
			Name:     "Reason",
			Fields:   []Field{FieldReason, FieldParentAppointment},
			Optional: []Field{FieldParentAppointment},
		},
	}
	onChange := map[Field]FetchKind{
		FieldPatient:         FetchPriorAppointments,
		FieldSpecialty:       FetchAppointmentTypes,
		FieldAppointmentType: FetchDoctors,
		FieldDoctor:          FetchSlots,
	}
	return newWizard(steps, []FetchKind{FetchSpecialties, FetchPatients}, onChange)
}

// Start returns the fetches to issue when the wizard mounts (option lists
// with no upstream dependency).
func (w *Wizard) Start() []Fetch {
	fetches := make([]Fetch, 0, len(w.mountFetches))
	for _, kind := range w.mountFetches {
		w.gens[kind]++
		w.loading[kind] = true
		fetches = append(fetches, Fetch{Kind: kind, Gen: w.gens[kind]})
	}
	return fetches
}

// Set records a field value, clears every later field and the option lists
// they depend on, and returns the dependent fetch to issue immediately
// (option fetching is eager: it is not gated on advancing the step).
func (w *Wizard) Set(f Field, value string) []Fetch {
	idx, ok := w.fieldIndex[f]
	if !ok {
		return nil
	}

	w.values[f] = value
	if value == "" {
		delete(w.values, f)
	}
	w.errMsg = ""

	// Cascade-clear: every field after f goes back to its initial empty
	// value, and option lists fed by those fields are emptied. Bumping the
	// generation here also invalidates any in-flight fetch for them.
	for _, g := range w.fieldOrder[idx+1:] {
		delete(w.values, g)
		if kind, ok := w.onChange[g]; ok {
			w.clearOptionList(kind)
		}
	}

	kind, ok := w.onChange[f]
	if !ok || value == "" {
		return nil
	}
	w.gens[kind]++
	w.loading[kind] = true
	return []Fetch{{Kind: kind, Gen: w.gens[kind]}}
}

func (w *Wizard) clearOptionList(kind FetchKind) {
	w.gens[kind]++
	delete(w.loading, kind)
	delete(w.options, kind)
	if kind == FetchSlots {
		w.slots = nil
	}
}

// Deliver feeds an option-list response back into the wizard. Responses
// whose generation is not the latest issued for that kind are discarded
// (a newer cascade superseded them); Deliver reports whether the response
// was applied. On error the previous list is left in place and a
// step-scoped error message is recorded.
func (w *Wizard) Deliver(kind FetchKind, gen uint64, opts []Option, err error) bool {
	if w.gens[kind] != gen {
		return false
	}
	delete(w.loading, kind)
	if err != nil {
		w.errMsg = api.UserMessage(err)
		return true
	}
	w.options[kind] = opts
	return true
}

// DeliverSlots feeds a slot-list response back into the wizard, with the
// same staleness and error semantics as Deliver.
func (w *Wizard) DeliverSlots(gen uint64, slots []api.TimeSlot, err error) bool {
	if w.gens[FetchSlots] != gen {
		return false
	}
	delete(w.loading, FetchSlots)
	if err != nil {
		w.errMsg = api.UserMessage(err)
		return true
	}
	w.slots = slots
	return true
}

// Value returns the current value of a field ("" when unset).
func (w *Wizard) Value(f Field) string {
	return w.values[f]
}

// Options returns the current option list for a fetch kind.
func (w *Wizard) Options(kind FetchKind) []Option {
	return w.options[kind]
}

// Slots returns the raw slot list for the chosen doctor and type.
func (w *Wizard) Slots() []api.TimeSlot {
	return w.slots
}

// Loading reports whether a fetch of the given kind is in flight. The UI
// disables the dependent select while this holds.
func (w *Wizard) Loading(kind FetchKind) bool {
	return w.loading[kind]
}

// AnyLoading reports whether any fetch is in flight.
func (w *Wizard) AnyLoading() bool {
	return len(w.loading) > 0
}

// Err returns the step-scoped error message ("" when none).
func (w *Wizard) Err() string {
	return w.errMsg
}

// SetError records an error message without touching any selection. Used
// for submission failures: the wizard stays on the final step for retry.
func (w *Wizard) SetError(msg string) {
	w.errMsg = msg
}

// ClearError clears the step-scoped error message.
func (w *Wizard) ClearError() {
	w.errMsg = ""
}

// StepComplete reports whether the step at index i satisfies its
// completeness predicate. It is a pure function of the selection and, for
// the staff variant, the relevant option lists.
func (w *Wizard) StepComplete(i int) bool {
	if i < 0 || i >= len(w.steps) {
		return false
	}
	step := w.steps[i]
	if step.Complete != nil {
		return step.Complete(w)
	}
	for _, f := range step.Fields {
		if isOptional(step, f) {
			continue
		}
		if w.values[f] == "" {
			return false
		}
	}
	return true
}

func isOptional(step Step, f Field) bool {
	for _, o := range step.Optional {
		if o == f {
			return true
		}
	}
	return false
}

// Next advances to the following step, gated on the current step's
// completeness. It reports whether the step advanced.
func (w *Wizard) Next() bool {
	if w.current >= len(w.steps)-1 || !w.StepComplete(w.current) {
		return false
	}
	w.current++
	return true
}

// Prev goes back one step, clamped at the first. Going back never clears
// any already-made selection.
func (w *Wizard) Prev() {
	if w.current > 0 {
		w.current--
	}
}

// StepIndex returns the zero-based current step index.
func (w *Wizard) StepIndex() int { return w.current }

// StepNumber returns the one-based current step number for display.
func (w *Wizard) StepNumber() int { return w.current + 1 }

// TotalSteps returns the number of steps in this variant.
func (w *Wizard) TotalSteps() int { return len(w.steps) }

// StepName returns the display name of the step at index i.
func (w *Wizard) StepName(i int) string {
	if i < 0 || i >= len(w.steps) {
		return ""
	}
	return w.steps[i].Name
}

// StepFields returns the fields of the step at index i, in order.
func (w *Wizard) StepFields(i int) []Field {
	if i < 0 || i >= len(w.steps) {
		return nil
	}
	return w.steps[i].Fields
}

// OnFinalStep reports whether the wizard sits on its terminal step.
func (w *Wizard) OnFinalStep() bool {
	return w.current == len(w.steps)-1
}

// BuildRequest resolves the selection into a create-appointment request.
// The chosen time is matched back to its slot by exact time-of-day
// comparison; if the slot list went stale and no slot matches, the request
// fails locally with a validation error and no POST must be issued.
// defaultPatientID is used when the variant has no patient step (patient
// self-service books for the signed-in user).
func (w *Wizard) BuildRequest(defaultPatientID string) (api.CreateAppointmentRequest, error) {
	slot, ok := ResolveSlot(SlotsForDate(w.slots, w.values[FieldDate]), w.values[FieldTime])
	if !ok {
		return api.CreateAppointmentRequest{}, api.NewValidationError(
			"the selected time is no longer available, please pick another slot")
	}

	patientID := w.values[FieldPatient]
	if patientID == "" {
		patientID = defaultPatientID
	}

	var parent *string
	if p := w.values[FieldParentAppointment]; p != "" {
		parent = &p
	}

	return api.CreateAppointmentRequest{
		PatientID:           patientID,
		DoctorID:            w.values[FieldDoctor],
		StartTime:           slot.StartTime,
		EndTime:             slot.EndTime,
		Notes:               w.values[FieldReason],
		AppointmentTypeID:   w.values[FieldAppointmentType],
		ParentAppointmentID: parent,
	}, nil
}

// Finish resets the wizard after a successful submission: all fields back
// to their initial empty values, step 1, dependent option lists emptied.
// Mount-fetched lists (specialties, patients) are kept so the next booking
// does not refetch them. The success flag is set for one render cycle.
func (w *Wizard) Finish() {
	w.values = make(map[Field]string)
	w.errMsg = ""
	w.current = 0
	w.success = true
	for _, kind := range []FetchKind{FetchAppointmentTypes, FetchDoctors, FetchSlots, FetchPriorAppointments} {
		w.clearOptionList(kind)
	}
}

// ConsumeSuccess returns and clears the post-submission success flag.
func (w *Wizard) ConsumeSuccess() bool {
	s := w.success
	w.success = false
	return s
}
