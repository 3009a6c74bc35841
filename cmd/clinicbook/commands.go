package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/calnico/clinicbook/internal/api"
	"github.com/calnico/clinicbook/internal/booking"
	"github.com/calnico/clinicbook/internal/config"
	"github.com/calnico/clinicbook/internal/session"
	"github.com/calnico/clinicbook/internal/tui"
)

// Command flags
var (
	outputFormat string
	specialtyID  string
	doctorID     string
	typeID       string
	patientID    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(specialtiesCmd)
	rootCmd.AddCommand(doctorsCmd)
	rootCmd.AddCommand(slotsCmd)
	rootCmd.AddCommand(appointmentsCmd)
}

// newClient builds an API client from the stored configuration and session.
// requireSession fails early with a friendly message when no session exists.
func newClient(requireSession bool) (*api.Client, *session.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.Load()
	if err != nil {
		if requireSession {
			return nil, nil, err
		}
		sess = nil
	}

	token := ""
	if sess != nil {
		token = sess.Token
	}
	client := api.NewClient(cfg.BaseURL, token)
	client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	return client, sess, nil
}

// apiErr converts a client error into a CLI error. Unreachable-backend
// errors name the configured base URL, which is usually the misconfigured
// piece.
func apiErr(client *api.Client, err error) error {
	msg := api.UserMessage(err)
	if api.IsNetworkError(err) {
		msg = fmt.Sprintf("%s (backend: %s)", msg, client.BaseURL)
	}
	return errors.New(msg)
}

// loginCmd authenticates against the backend and stores the session
var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in to the clinic backend",
	Long: `Authenticate against the clinic backend and store the session token.

The password is prompted interactively and never stored; only the issued
session token is saved, in the user configuration directory.`,
	Example: `  # Log in, prompting for email and password
  clinicbook login

  # Log in with the email on the command line
  clinicbook login paula@example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(false)
	if err != nil {
		return err
	}

	var email string
	if len(args) == 1 {
		email = args[0]
	} else {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return errors.New("email is required")
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	lr, err := client.Login(email, string(pw))
	if err != nil {
		return fmt.Errorf("login failed: %s", apiErr(client, err))
	}

	sess := session.FromLogin(lr)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("✓ Logged in as %s (%s)\n", sess.Name, strings.Join(roleNames(sess), ", "))
	return nil
}

func roleNames(s *session.Session) []string {
	names := make([]string, 0, len(s.Roles))
	for _, r := range s.Roles {
		switch r {
		case session.RoleAdmin:
			names = append(names, "administrator")
		case session.RoleDoctor:
			names = append(names, "doctor")
		case session.RolePatient:
			names = append(names, "patient")
		default:
			names = append(names, string(r))
		}
	}
	return names
}

// logoutCmd discards the stored session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Clear(); err != nil {
			return err
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

// bookCmd launches the interactive booking wizard
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Launch the interactive booking wizard",
	Long: `Launch the interactive multi-step booking wizard.

Patients walk through specialty, appointment type, doctor, date and time,
and the reason for the visit. Staff additionally pick the patient first and
may link the booking to one of the patient's prior appointments.`,
	Example: `  # Launch the wizard
  clinicbook book
  # Or simply (the wizard is the default):
  clinicbook`,
	RunE: runBook,
}

func runBook(cmd *cobra.Command, args []string) error {
	client, sess, err := newClient(true)
	if err != nil {
		return err
	}
	return tui.Run(client, sess)
}

// specialtiesCmd lists the clinic's specialties
var specialtiesCmd = &cobra.Command{
	Use:   "specialties",
	Short: "List the clinic's specialties",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(true)
		if err != nil {
			return err
		}
		specs, err := client.Specialties()
		if err != nil {
			return apiErr(client, err)
		}
		if outputFormat == "json" {
			return printJSON(specs)
		}
		for _, sp := range specs {
			if sp.Description != "" && outputFormat != "compact" {
				fmt.Printf("%-10s %s — %s\n", sp.ID, sp.Name, sp.Description)
			} else {
				fmt.Printf("%-10s %s\n", sp.ID, sp.Name)
			}
		}
		return nil
	},
}

// doctorsCmd lists the doctors of a specialty
var doctorsCmd = &cobra.Command{
	Use:   "doctors",
	Short: "List the doctors of a specialty",
	Example: `  clinicbook doctors --specialty spec-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if specialtyID == "" {
			return errors.New("--specialty is required (see 'clinicbook specialties')")
		}
		client, _, err := newClient(true)
		if err != nil {
			return err
		}
		doctors, err := client.DoctorsBySpecialty(specialtyID)
		if err != nil {
			return apiErr(client, err)
		}
		if outputFormat == "json" {
			return printJSON(doctors)
		}
		if len(doctors) == 0 {
			fmt.Println("No doctors available for this specialty.")
			return nil
		}
		for _, d := range doctors {
			fmt.Printf("%-10s Dr. %s\n", d.ID, d.FullName())
		}
		return nil
	},
}

func init() {
	doctorsCmd.Flags().StringVar(&specialtyID, "specialty", "", "Specialty id")
}

// slotsCmd lists the open slots for a doctor and appointment type
var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List open slots for a doctor and appointment type",
	Example: `  clinicbook slots --doctor user-8 --type type-3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if doctorID == "" || typeID == "" {
			return errors.New("--doctor and --type are required")
		}
		client, _, err := newClient(true)
		if err != nil {
			return err
		}
		slots, err := client.Slots(doctorID, typeID)
		if err != nil {
			return apiErr(client, err)
		}
		if outputFormat == "json" {
			return printJSON(slots)
		}
		if len(slots) == 0 {
			fmt.Println("No open slots.")
			return nil
		}
		for _, d := range booking.AvailableDates(slots) {
			fmt.Printf("%s\n", d.Label)
			for _, s := range booking.SlotsForDate(slots, d.ISO) {
				fmt.Printf("  %s\n", api.FormatSlotTime(s))
			}
		}
		return nil
	},
}

func init() {
	slotsCmd.Flags().StringVar(&doctorID, "doctor", "", "Doctor id")
	slotsCmd.Flags().StringVar(&typeID, "type", "", "Appointment type id")
}

// appointmentsCmd lists appointments
var appointmentsCmd = &cobra.Command{
	Use:   "appointments",
	Short: "List your appointments",
	Long: `List appointments.

By default lists the signed-in user's appointments. Staff may pass
--patient to list another patient's appointments.`,
	Example: `  # Your own appointments
  clinicbook appointments

  # A patient's appointments (staff)
  clinicbook appointments --patient user-10

  # JSON output for scripting
  clinicbook appointments --format json`,
	RunE: runAppointments,
}

func init() {
	appointmentsCmd.Flags().StringVar(&patientID, "patient", "", "Patient id (staff only)")
}

func runAppointments(cmd *cobra.Command, args []string) error {
	client, sess, err := newClient(true)
	if err != nil {
		return err
	}

	id := patientID
	if id == "" {
		id = sess.UserID
	} else if !sess.IsStaff() {
		return errors.New("--patient requires a staff session")
	}

	appts, err := client.PatientAppointments(id)
	if err != nil {
		return apiErr(client, err)
	}

	switch outputFormat {
	case "json":
		return printJSON(appts)
	case "compact":
		for i := range appts {
			fmt.Println(appts[i].FormatCompact())
		}
	default:
		if len(appts) == 0 {
			fmt.Println("No appointments.")
			return nil
		}
		for i := range appts {
			fmt.Println(appts[i].FormatDetailed())
		}
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
