package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calnico/clinicbook/internal/api"
	"github.com/calnico/clinicbook/internal/booking"
	"github.com/calnico/clinicbook/internal/session"
)

// Messages for async operations. Every fetch response carries the request
// generation it was issued under; the wizard discards superseded responses.
type optionsMsg struct {
	kind booking.FetchKind
	gen  uint64
	opts []booking.Option
	err  error
}

type slotsMsg struct {
	gen   uint64
	slots []api.TimeSlot
	err   error
}

type bookedMsg struct {
	appt *api.Appointment
	err  error
}

// bookingKeyMap defines key bindings for the booking wizard screen
type bookingKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Next   key.Binding
	Prev   key.Binding
	Skip   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k bookingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Next, k.Prev, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k bookingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Next, k.Prev, k.Skip, k.Quit},
	}
}

// optionItem wraps a wizard Option for use with bubbles/list
type optionItem struct {
	opt booking.Option
}

func (o optionItem) FilterValue() string { return o.opt.Label }

// optionDelegate renders one option per line with a selection arrow
type optionDelegate struct{}

func (d optionDelegate) Height() int                               { return 1 }
func (d optionDelegate) Spacing() int                              { return 0 }
func (d optionDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	o, ok := item.(optionItem)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, SelectedMenuItemStyle.Render("→ "+o.opt.Label))
		return
	}
	fmt.Fprint(w, MenuItemStyle.Render(o.opt.Label))
}

// BookingModel drives the multi-step appointment booking wizard. All
// booking semantics (step gating, cascade clearing, fetch staleness) live
// in the booking package; this model only translates between Bubble Tea
// messages and the wizard, and renders the current step.
type BookingModel struct {
	Wizard  *booking.Wizard
	Client  *api.Client
	Session *session.Session
	Staff   bool

	OptionList  list.Model
	ReasonInput textinput.Model
	Spinner     spinner.Model
	Progress    progress.Model

	// FieldFocus indexes the focused field within the current step.
	FieldFocus int

	Submitting bool
	Booked     *api.Appointment

	// FatalErr holds a session-level error that ends the wizard.
	FatalErr error

	Width  int
	Height int
	Help   help.Model
	Keys   bookingKeyMap
}

// NewBookingModel creates the booking screen for the signed-in session.
// Staff and admin sessions get the staff-assisted variant with the patient
// and parent-appointment steps.
func NewBookingModel(client *api.Client, sess *session.Session) BookingModel {
	staff := sess.IsStaff()

	var w *booking.Wizard
	if staff {
		w = booking.NewStaffWizard()
	} else {
		w = booking.NewPatientWizard()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	reasonInput := textinput.New()
	reasonInput.Placeholder = "Reason for the visit"
	reasonInput.CharLimit = 200
	reasonInput.Width = 50

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	optionList := list.New([]list.Item{}, optionDelegate{}, 0, 0)
	optionList.SetShowTitle(false)
	optionList.SetShowStatusBar(false)
	optionList.SetShowHelp(false)
	optionList.SetFilteringEnabled(false)

	keys := bookingKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next step"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "previous step"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	return BookingModel{
		Wizard:      w,
		Client:      client,
		Session:     sess,
		Staff:       staff,
		OptionList:  optionList,
		ReasonInput: reasonInput,
		Spinner:     s,
		Progress:    progressBar,
		Help:        help.New(),
		Keys:        keys,
	}
}

// Init issues the wizard's mount fetches.
func (m BookingModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick}
	for _, f := range m.Wizard.Start() {
		cmds = append(cmds, m.fetchCmd(f))
	}
	return tea.Batch(cmds...)
}

// fetchCmd turns a wizard fetch into a Bubble Tea command. Selections are
// captured now; the response carries the generation so a stale reply is
// dropped by the wizard.
func (m BookingModel) fetchCmd(f booking.Fetch) tea.Cmd {
	c := m.Client
	w := m.Wizard

	switch f.Kind {
	case booking.FetchSpecialties:
		return func() tea.Msg {
			specs, err := c.Specialties()
			opts := make([]booking.Option, 0, len(specs))
			for _, sp := range specs {
				opts = append(opts, booking.Option{ID: sp.ID, Label: sp.Name})
			}
			return optionsMsg{kind: f.Kind, gen: f.Gen, opts: opts, err: err}
		}

	case booking.FetchAppointmentTypes:
		specialtyID := w.Value(booking.FieldSpecialty)
		// Patients may only self-book general types; staff see all of them.
		generalOnly := !m.Staff
		return func() tea.Msg {
			types, err := c.AppointmentTypes(specialtyID, generalOnly)
			opts := make([]booking.Option, 0, len(types))
			for _, at := range types {
				label := at.Name
				if at.DurationMinutes > 0 {
					label = fmt.Sprintf("%s (%d min)", at.Name, at.DurationMinutes)
				}
				opts = append(opts, booking.Option{ID: at.ID, Label: label})
			}
			return optionsMsg{kind: f.Kind, gen: f.Gen, opts: opts, err: err}
		}

	case booking.FetchDoctors:
		specialtyID := w.Value(booking.FieldSpecialty)
		return func() tea.Msg {
			doctors, err := c.DoctorsBySpecialty(specialtyID)
			opts := make([]booking.Option, 0, len(doctors))
			for _, d := range doctors {
				opts = append(opts, booking.Option{ID: d.ID, Label: "Dr. " + d.FullName()})
			}
			return optionsMsg{kind: f.Kind, gen: f.Gen, opts: opts, err: err}
		}

	case booking.FetchSlots:
		doctorID := w.Value(booking.FieldDoctor)
		typeID := w.Value(booking.FieldAppointmentType)
		return func() tea.Msg {
			slots, err := c.Slots(doctorID, typeID)
			return slotsMsg{gen: f.Gen, slots: slots, err: err}
		}

	case booking.FetchPatients:
		return func() tea.Msg {
			users, err := c.Users()
			var opts []booking.Option
			for _, u := range users {
				if u.HasRole(api.RolePatient) {
					opts = append(opts, booking.Option{ID: u.ID, Label: u.FullName() + " <" + u.Email + ">"})
				}
			}
			return optionsMsg{kind: f.Kind, gen: f.Gen, opts: opts, err: err}
		}

	case booking.FetchPriorAppointments:
		patientID := w.Value(booking.FieldPatient)
		return func() tea.Msg {
			appts, err := c.PatientAppointments(patientID)
			opts := make([]booking.Option, 0, len(appts))
			for _, a := range appts {
				opts = append(opts, booking.Option{ID: a.ID, Label: a.Summary()})
			}
			return optionsMsg{kind: f.Kind, gen: f.Gen, opts: opts, err: err}
		}
	}

	return nil
}

// submitCmd books the resolved appointment.
func (m BookingModel) submitCmd(req api.CreateAppointmentRequest) tea.Cmd {
	c := m.Client
	return func() tea.Msg {
		appt, err := c.CreateAppointment(req)
		return bookedMsg{appt: appt, err: err}
	}
}

// focusedField returns the field the cursor currently sits on.
func (m BookingModel) focusedField() booking.Field {
	fields := m.Wizard.StepFields(m.Wizard.StepIndex())
	if len(fields) == 0 {
		return ""
	}
	if m.FieldFocus >= len(fields) {
		return fields[len(fields)-1]
	}
	return fields[m.FieldFocus]
}

// fieldOptions returns the selectable options for a field. Date and time
// options are derived locally from the slot list; everything else comes
// straight from the wizard's fetched lists.
func (m BookingModel) fieldOptions(f booking.Field) []booking.Option {
	w := m.Wizard
	switch f {
	case booking.FieldPatient:
		return w.Options(booking.FetchPatients)
	case booking.FieldSpecialty:
		return w.Options(booking.FetchSpecialties)
	case booking.FieldAppointmentType:
		return w.Options(booking.FetchAppointmentTypes)
	case booking.FieldDoctor:
		return w.Options(booking.FetchDoctors)
	case booking.FieldDate:
		dates := booking.AvailableDates(w.Slots())
		opts := make([]booking.Option, 0, len(dates))
		for _, d := range dates {
			opts = append(opts, booking.Option{ID: d.ISO, Label: d.Label})
		}
		return opts
	case booking.FieldTime:
		slots := booking.SlotsForDate(w.Slots(), w.Value(booking.FieldDate))
		opts := make([]booking.Option, 0, len(slots))
		for _, s := range slots {
			opts = append(opts, booking.Option{ID: s.TimeOfDay(), Label: api.FormatSlotTime(s)})
		}
		return opts
	case booking.FieldParentAppointment:
		return w.Options(booking.FetchPriorAppointments)
	}
	return nil
}

// fieldLoading reports whether the focused field waits on a fetch.
func (m BookingModel) fieldLoading(f booking.Field) bool {
	w := m.Wizard
	switch f {
	case booking.FieldPatient:
		return w.Loading(booking.FetchPatients)
	case booking.FieldSpecialty:
		return w.Loading(booking.FetchSpecialties)
	case booking.FieldAppointmentType:
		return w.Loading(booking.FetchAppointmentTypes)
	case booking.FieldDoctor:
		return w.Loading(booking.FetchDoctors)
	case booking.FieldDate, booking.FieldTime:
		return w.Loading(booking.FetchSlots)
	case booking.FieldParentAppointment:
		return w.Loading(booking.FetchPriorAppointments)
	}
	return false
}

// syncOptionList rebuilds the list items for the focused field.
func (m *BookingModel) syncOptionList() {
	opts := m.fieldOptions(m.focusedField())
	items := make([]list.Item, len(opts))
	for i, o := range opts {
		items[i] = optionItem{opt: o}
	}
	m.OptionList.SetItems(items)
	if len(items) > 0 && m.OptionList.Index() >= len(items) {
		m.OptionList.Select(0)
	}
}

// Update handles messages and updates the model
func (m BookingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.OptionList.SetWidth(msg.Width - 6)
		m.OptionList.SetHeight(msg.Height - 14)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case optionsMsg:
		if api.IsSessionError(msg.err) {
			m.FatalErr = msg.err
			return m, nil
		}
		if m.Wizard.Deliver(msg.kind, msg.gen, msg.opts, msg.err) {
			m.syncOptionList()
		}
		return m, nil

	case slotsMsg:
		if api.IsSessionError(msg.err) {
			m.FatalErr = msg.err
			return m, nil
		}
		if m.Wizard.DeliverSlots(msg.gen, msg.slots, msg.err) {
			m.syncOptionList()
		}
		return m, nil

	case bookedMsg:
		m.Submitting = false
		if msg.err != nil {
			if api.IsSessionError(msg.err) {
				m.FatalErr = msg.err
				return m, nil
			}
			// Submission failure is terminal to this operation only: record
			// the backend's message and stay on the same step with every
			// selection intact so the user can retry.
			m.Wizard.SetError(api.UserMessage(msg.err))
			return m, nil
		}
		m.Booked = msg.appt
		m.Wizard.Finish()
		m.FieldFocus = 0
		m.ReasonInput.SetValue("")
		m.ReasonInput.Blur()
		m.syncOptionList()
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	m.OptionList, cmd = m.OptionList.Update(msg)
	return m, cmd
}

// updateKeys handles keyboard input for the wizard.
func (m BookingModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Submitting {
		// Ignore input while the booking request is in flight.
		return m, nil
	}

	field := m.focusedField()

	// The reason input owns most keys while focused.
	if field == booking.FieldReason && m.ReasonInput.Focused() {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.ReasonInput.Blur()
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.ReasonInput.Value())
			if value == "" {
				return m, nil
			}
			m.Wizard.Set(booking.FieldReason, value)
			m.ReasonInput.Blur()
			return m.afterReason()
		}
		var cmd tea.Cmd
		m.ReasonInput, cmd = m.ReasonInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Select):
		return m.selectCurrent()

	case key.Matches(msg, m.Keys.Next):
		return m.advance()

	case key.Matches(msg, m.Keys.Prev):
		m.retreat()
		return m, nil

	case key.Matches(msg, m.Keys.Skip):
		// Skip only applies to the optional parent-appointment field.
		if field == booking.FieldParentAppointment {
			return m.submit()
		}
	}

	if field == booking.FieldReason {
		// Any other key refocuses the input.
		m.ReasonInput.Focus()
		var cmd tea.Cmd
		m.ReasonInput, cmd = m.ReasonInput.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.OptionList, cmd = m.OptionList.Update(msg)
	return m, cmd
}

// selectCurrent applies the highlighted option to the focused field.
func (m BookingModel) selectCurrent() (tea.Model, tea.Cmd) {
	field := m.focusedField()

	if field == booking.FieldReason {
		m.ReasonInput.Focus()
		return m, textinput.Blink
	}

	item, ok := m.OptionList.SelectedItem().(optionItem)
	if !ok {
		return m, nil
	}

	fetches := m.Wizard.Set(field, item.opt.ID)
	cmds := make([]tea.Cmd, 0, len(fetches))
	for _, f := range fetches {
		cmds = append(cmds, m.fetchCmd(f))
	}

	// Selecting the parent appointment completes the staff flow.
	if field == booking.FieldParentAppointment {
		model, submitCmd := m.submit()
		return model, tea.Batch(append(cmds, submitCmd)...)
	}

	// Move to the next field within the step (date -> time), otherwise
	// advance to the next step when it is already complete.
	fields := m.Wizard.StepFields(m.Wizard.StepIndex())
	if m.FieldFocus < len(fields)-1 {
		m.FieldFocus++
	} else if m.Wizard.StepComplete(m.Wizard.StepIndex()) && !m.Wizard.OnFinalStep() {
		m.Wizard.Next()
		m.FieldFocus = 0
	}
	m.syncOptionList()
	m.maybeFocusReason()

	return m, tea.Batch(cmds...)
}

// advance moves to the next step when the current one is complete.
func (m BookingModel) advance() (tea.Model, tea.Cmd) {
	if m.Wizard.Next() {
		m.FieldFocus = 0
		m.syncOptionList()
		m.maybeFocusReason()
	}
	return m, nil
}

// retreat moves back one step. Selections are kept.
func (m *BookingModel) retreat() {
	m.ReasonInput.Blur()
	m.Wizard.Prev()
	m.FieldFocus = 0
	m.syncOptionList()
}

// maybeFocusReason focuses the reason input when the cursor lands on it.
func (m *BookingModel) maybeFocusReason() {
	if m.focusedField() == booking.FieldReason {
		m.ReasonInput.SetValue(m.Wizard.Value(booking.FieldReason))
		m.ReasonInput.Focus()
	}
}

// afterReason decides what follows the reason entry: the staff variant
// offers the optional parent-appointment link when the patient has prior
// appointments, otherwise the booking submits immediately.
func (m BookingModel) afterReason() (tea.Model, tea.Cmd) {
	fields := m.Wizard.StepFields(m.Wizard.StepIndex())
	if m.FieldFocus < len(fields)-1 && len(m.Wizard.Options(booking.FetchPriorAppointments)) > 0 {
		m.FieldFocus++
		m.syncOptionList()
		return m, nil
	}
	return m.submit()
}

// submit resolves the selection and books the appointment. A stale slot
// fails locally and never reaches the backend.
func (m BookingModel) submit() (tea.Model, tea.Cmd) {
	if m.Wizard.AnyLoading() {
		// A fetch is still in flight; submitting now would race the
		// selection against a list about to be replaced.
		return m, nil
	}
	req, err := m.Wizard.BuildRequest(m.Session.UserID)
	if err != nil {
		m.Wizard.SetError(api.UserMessage(err))
		return m, nil
	}
	m.Submitting = true
	return m, tea.Batch(m.Spinner.Tick, m.submitCmd(req))
}

// View renders the booking wizard screen
func (m BookingModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content string
	switch {
	case m.FatalErr != nil:
		content = RenderError(api.UserMessage(m.FatalErr))
	case m.Submitting:
		content = lipgloss.JoinVertical(lipgloss.Center,
			"",
			TitleStyle.Render(fmt.Sprintf("%s BOOKING YOUR APPOINTMENT", m.Spinner.View())),
			"",
			SubtitleStyle.Render("Sending your booking to the clinic..."),
		)
		content = lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
	default:
		content = m.renderStep()
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderStep renders the current wizard step: breadcrumb, progress,
// selection summary, and the focused field's control.
func (m BookingModel) renderStep() string {
	w := m.Wizard
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.renderBreadcrumb())
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(m.Progress.ViewAs(float64(w.StepNumber()) / float64(w.TotalSteps())))
	b.WriteString("\n\n")

	b.WriteString(TitleStyle.Render(fmt.Sprintf("  Step %d of %d: %s",
		w.StepNumber(), w.TotalSteps(), w.StepName(w.StepIndex()))))
	b.WriteString("\n")

	if summary := m.renderSelections(); summary != "" {
		b.WriteString(summary)
		b.WriteString("\n")
	}

	if errMsg := w.Err(); errMsg != "" {
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(ErrorColor).Bold(true).Render("✗ " + errMsg))
		b.WriteString("\n\n")
	}

	field := m.focusedField()
	switch {
	case m.fieldLoading(field):
		b.WriteString(fmt.Sprintf("  %s Loading options...\n", m.Spinner.View()))

	case field == booking.FieldReason:
		b.WriteString("  Reason: ")
		b.WriteString(m.ReasonInput.View())
		b.WriteString("\n")

	case field == booking.FieldParentAppointment:
		b.WriteString(SubtitleStyle.Render("  Link to a prior appointment (optional, 's' to skip):"))
		b.WriteString("\n\n")
		b.WriteString(m.OptionList.View())

	default:
		opts := m.fieldOptions(field)
		if len(opts) == 0 {
			b.WriteString(SubtitleStyle.Render("  Nothing available for this selection."))
			b.WriteString("\n")
		} else {
			b.WriteString(m.OptionList.View())
		}
	}

	return b.String()
}

// renderBreadcrumb renders the step names with done/current/pending styling.
func (m BookingModel) renderBreadcrumb() string {
	w := m.Wizard
	parts := make([]string, 0, w.TotalSteps())
	for i := 0; i < w.TotalSteps(); i++ {
		name := w.StepName(i)
		switch {
		case i < w.StepIndex():
			parts = append(parts, StepDoneStyle.Render("✓ "+name))
		case i == w.StepIndex():
			parts = append(parts, StepCurrentStyle.Render("● "+name))
		default:
			parts = append(parts, StepPendingStyle.Render("○ "+name))
		}
	}
	return "  " + strings.Join(parts, StepPendingStyle.Render(" — "))
}

// renderSelections summarizes the selections made so far.
func (m BookingModel) renderSelections() string {
	w := m.Wizard
	type row struct {
		label string
		field booking.Field
		kind  booking.FetchKind
	}
	rows := []row{
		{"Patient", booking.FieldPatient, booking.FetchPatients},
		{"Specialty", booking.FieldSpecialty, booking.FetchSpecialties},
		{"Type", booking.FieldAppointmentType, booking.FetchAppointmentTypes},
		{"Doctor", booking.FieldDoctor, booking.FetchDoctors},
	}

	var b strings.Builder
	for _, r := range rows {
		id := w.Value(r.field)
		if id == "" {
			continue
		}
		label := id
		for _, o := range w.Options(r.kind) {
			if o.ID == id {
				label = o.Label
				break
			}
		}
		b.WriteString(fmt.Sprintf("  %-10s %s\n", r.label+":", label))
	}
	if d := w.Value(booking.FieldDate); d != "" {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", "Date:", api.FormatDateLabel(d)))
	}
	if t := w.Value(booking.FieldTime); t != "" {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", "Time:", api.FormatTimeOfDay(t)))
	}
	return b.String()
}
