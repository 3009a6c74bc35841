package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calnico/clinicbook/internal/api"
	"github.com/calnico/clinicbook/internal/session"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenBooking Screen = "booking"
	ScreenSuccess Screen = "success"
	ScreenFailure Screen = "failure"
)

// successKeyMap defines key bindings for the success screen
type successKeyMap struct {
	Another key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k successKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Another, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k successKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Another, k.Quit},
	}
}

// failureKeyMap defines key bindings for the failure screen
type failureKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k failureKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k failureKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	BookingModel BookingModel

	// Result state
	BookedAppointment *api.Appointment
	LastError         error

	// UI state
	Width  int
	Height int

	Help        help.Model
	SuccessKeys successKeyMap
	FailureKeys failureKeyMap
}

// NewAppModel creates the application model for the signed-in session.
func NewAppModel(client *api.Client, sess *session.Session) AppModel {
	successKeys := successKeyMap{
		Another: key.NewBinding(
			key.WithKeys("b", "enter"),
			key.WithHelp("b", "book another"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
	failureKeys := failureKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "enter"),
			key.WithHelp("q", "quit"),
		),
	}

	return AppModel{
		CurrentScreen: ScreenBooking,
		BookingModel:  NewBookingModel(client, sess),
		Help:          help.New(),
		SuccessKeys:   successKeys,
		FailureKeys:   failureKeys,
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.BookingModel.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		updated, cmd := m.BookingModel.Update(msg)
		m.BookingModel = updated.(BookingModel)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.CurrentScreen {
	case ScreenBooking:
		updated, cmd := m.BookingModel.Update(msg)
		m.BookingModel = updated.(BookingModel)

		if m.BookingModel.FatalErr != nil {
			m.LastError = m.BookingModel.FatalErr
			m.CurrentScreen = ScreenFailure
			return m, nil
		}
		if m.BookingModel.Wizard.ConsumeSuccess() {
			m.BookedAppointment = m.BookingModel.Booked
			m.BookingModel.Booked = nil
			m.CurrentScreen = ScreenSuccess
			return m, nil
		}
		return m, cmd

	case ScreenSuccess:
		return m.handleSuccessScreen(msg)

	case ScreenFailure:
		return m.handleFailureScreen(msg)
	}

	return m, nil
}

// handleSuccessScreen handles user input on the success screen
func (m AppModel) handleSuccessScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "b", "enter":
			// The wizard already reset itself; mount-fetched option lists
			// survive, so no refetch is needed here.
			m.BookedAppointment = nil
			m.CurrentScreen = ScreenBooking
			m.BookingModel.syncOptionList()
			return m, nil

		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleFailureScreen handles user input on the failure screen
func (m AppModel) handleFailureScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "enter", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenBooking:
		return m.BookingModel.View()
	case ScreenSuccess:
		return m.renderSuccessScreen()
	case ScreenFailure:
		return m.renderFailureScreen()
	default:
		return "Unknown screen"
	}
}

// renderSuccessScreen renders the booking confirmation screen
func (m AppModel) renderSuccessScreen() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✓ Appointment Booked!"))
	b.WriteString("\n\n")

	if a := m.BookedAppointment; a != nil {
		b.WriteString(SuccessBoxStyle.Render("Your appointment:"))
		b.WriteString("\n\n")
		b.WriteString(a.FormatDetailed())
		b.WriteString("\n")
	}

	b.WriteString("What would you like to do next?\n\n")
	b.WriteString(MenuItemStyle.Render("  b/Enter - Book another appointment"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  q       - Exit"))
	b.WriteString("\n")

	helpText := m.Help.View(m.SuccessKeys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// renderFailureScreen renders the unrecoverable-error screen
func (m AppModel) renderFailureScreen() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✗ Booking Unavailable"))
	b.WriteString("\n\n")

	if m.LastError != nil {
		b.WriteString(ErrorBoxStyle.Render(api.UserMessage(m.LastError)))
		b.WriteString("\n\n")
	}

	if api.IsSessionError(m.LastError) {
		b.WriteString("  Run 'clinicbook login' and try again.\n\n")
	}

	b.WriteString(MenuItemStyle.Render("  q - Exit"))
	b.WriteString("\n")

	helpText := m.Help.View(m.FailureKeys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// Run starts the booking wizard TUI and blocks until it exits.
func Run(client *api.Client, sess *session.Session) error {
	p := tea.NewProgram(NewAppModel(client, sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
