package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calnico/clinicbook/internal/api"
	"github.com/calnico/clinicbook/internal/directory"
	"github.com/calnico/clinicbook/internal/session"
)

// Admin command flags
var (
	filterQuery string
	pageNumber  int

	userFirstName   string
	userLastName    string
	userEmail       string
	userPhone       string
	userSpecialty   string
	userRoles       []string
	specName        string
	specDescription string
	atName          string
	atSpecialty     string
	atDuration      int
	atGeneral       bool
	atInactive      bool
	locName         string
	locAddress      string
	locFloor        string
	locRoom         string
	avDoctor        string
	avLocation      string
	avDay           string
	avStart         string
	avEnd           string
	unavDoctor      string
	unavStart       string
	unavEnd         string
	unavReason      string
	apptStatus      string
	apptNotes       string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative management of clinic records",
	Long: `Manage clinic records: users, specialties, appointment types, locations,
doctor availabilities and one-off unavailabilities, and appointments.

All admin commands require an administrator session.`,
}

func init() {
	rootCmd.AddCommand(adminCmd)

	adminCmd.PersistentFlags().StringVar(&filterQuery, "filter", "", "Filter listings by substring (case-insensitive)")
	adminCmd.PersistentFlags().IntVar(&pageNumber, "page", 1, "Page of results to show")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminSpecialtiesCmd)
	adminCmd.AddCommand(adminTypesCmd)
	adminCmd.AddCommand(adminLocationsCmd)
	adminCmd.AddCommand(adminAvailabilitiesCmd)
	adminCmd.AddCommand(adminUnavailabilitiesCmd)
	adminCmd.AddCommand(adminAppointmentsCmd)
}

// adminClient builds a client and rejects non-administrator sessions up
// front. The backend enforces this too; failing locally gives a clearer
// message than a 403.
func adminClient() (*api.Client, *session.Session, error) {
	client, sess, err := newClient(true)
	if err != nil {
		return nil, nil, err
	}
	if !sess.IsAdmin() {
		return nil, nil, errors.New("this command requires an administrator session")
	}
	return client, sess, nil
}

// listPage filters, paginates, and prints a listing using the shared
// --filter and --page flags.
func listPage[T any](items []T, text func(T) string, line func(T) string) error {
	filtered := directory.Filter(items, filterQuery, text)
	if outputFormat == "json" {
		return printJSON(filtered)
	}
	page := directory.Paginate(filtered, pageNumber, directory.DefaultPageSize)
	for _, it := range page.Items {
		fmt.Println(line(it))
	}
	if page.HasPrev() || page.HasNext() {
		fmt.Printf("\nPage %d of %d (%d total)\n", page.PageNumber, page.TotalPages, page.TotalItems)
	}
	if page.HasNext() {
		fmt.Printf("Use --page %d for more.\n", page.PageNumber+1)
	}
	return nil
}

// --- users ---

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage clinic users",
}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		users, err := client.Users()
		if err != nil {
			return apiErr(client, err)
		}
		return listPage(users,
			func(u api.User) string { return u.FullName() + " " + u.Email },
			func(u api.User) string {
				return fmt.Sprintf("%-10s %-25s %-30s %s", u.ID, u.FullName(), u.Email, strings.Join(u.AllRoles(), ","))
			})
	},
}

var adminUsersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Example: `  clinicbook admin users create --first Helena --last Hart \
      --email helena@clinic.test --role ROLE_DOCTOR --specialty spec-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if userFirstName == "" || userLastName == "" || userEmail == "" {
			return errors.New("--first, --last, and --email are required")
		}
		u := api.User{
			FirstName:   userFirstName,
			LastName:    userLastName,
			Email:       userEmail,
			Phone:       userPhone,
			SpecialtyID: userSpecialty,
		}
		for _, r := range userRoles {
			u.Roles = append(u.Roles, api.RoleRef{Authority: r})
		}
		created, err := client.CreateUser(u)
		if err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Created user %s (%s)\n", created.ID, created.FullName())
		return nil
	},
}

var adminUsersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		u := api.User{
			ID:          args[0],
			FirstName:   userFirstName,
			LastName:    userLastName,
			Email:       userEmail,
			Phone:       userPhone,
			SpecialtyID: userSpecialty,
		}
		for _, r := range userRoles {
			u.Roles = append(u.Roles, api.RoleRef{Authority: r})
		}
		if err := client.UpdateUser(u); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Updated user %s\n", args[0])
		return nil
	},
}

var adminUsersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if err := client.DeleteUser(args[0]); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	adminUsersCmd.AddCommand(adminUsersListCmd)
	adminUsersCmd.AddCommand(adminUsersCreateCmd)
	adminUsersCmd.AddCommand(adminUsersUpdateCmd)
	adminUsersCmd.AddCommand(adminUsersDeleteCmd)

	for _, c := range []*cobra.Command{adminUsersCreateCmd, adminUsersUpdateCmd} {
		c.Flags().StringVar(&userFirstName, "first", "", "First name")
		c.Flags().StringVar(&userLastName, "last", "", "Last name")
		c.Flags().StringVar(&userEmail, "email", "", "Email address")
		c.Flags().StringVar(&userPhone, "phone", "", "Phone number")
		c.Flags().StringVar(&userSpecialty, "specialty", "", "Specialty id (doctors)")
		c.Flags().StringSliceVar(&userRoles, "role", nil, "Role (repeatable): ROLE_ADMIN, ROLE_DOCTOR, ROLE_PATIENT")
	}
}

// --- specialties ---

var adminSpecialtiesCmd = &cobra.Command{
	Use:   "specialties",
	Short: "Manage specialties",
}

var adminSpecialtiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List specialties",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		specs, err := client.AllSpecialties()
		if err != nil {
			return apiErr(client, err)
		}
		return listPage(specs,
			func(s api.Specialty) string { return s.Name + " " + s.Description },
			func(s api.Specialty) string { return fmt.Sprintf("%-10s %-20s %s", s.ID, s.Name, s.Description) })
	},
}

var adminSpecialtiesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a specialty",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if specName == "" {
			return errors.New("--name is required")
		}
		created, err := client.CreateSpecialty(api.Specialty{Name: specName, Description: specDescription})
		if err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Created specialty %s (%s)\n", created.ID, created.Name)
		return nil
	},
}

var adminSpecialtiesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a specialty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		s := api.Specialty{ID: args[0], Name: specName, Description: specDescription}
		if err := client.UpdateSpecialty(s); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Updated specialty %s\n", args[0])
		return nil
	},
}

var adminSpecialtiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a specialty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if err := client.DeleteSpecialty(args[0]); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Deleted specialty %s\n", args[0])
		return nil
	},
}

func init() {
	adminSpecialtiesCmd.AddCommand(adminSpecialtiesListCmd)
	adminSpecialtiesCmd.AddCommand(adminSpecialtiesCreateCmd)
	adminSpecialtiesCmd.AddCommand(adminSpecialtiesUpdateCmd)
	adminSpecialtiesCmd.AddCommand(adminSpecialtiesDeleteCmd)

	for _, c := range []*cobra.Command{adminSpecialtiesCreateCmd, adminSpecialtiesUpdateCmd} {
		c.Flags().StringVar(&specName, "name", "", "Specialty name")
		c.Flags().StringVar(&specDescription, "description", "", "Specialty description")
	}
}

// --- appointment types ---

var adminTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "Manage appointment types",
}

var adminTypesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointment types",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		types, err := client.AllAppointmentTypes()
		if err != nil {
			return apiErr(client, err)
		}
		return listPage(types,
			func(at api.AppointmentType) string { return at.Name },
			func(at api.AppointmentType) string {
				flags := ""
				if at.IsGeneral {
					flags += " general"
				}
				if !at.IsActive {
					flags += " inactive"
				}
				return fmt.Sprintf("%-10s %-25s %-10s %3d min%s", at.ID, at.Name, at.SpecialtyID, at.DurationMinutes, flags)
			})
	},
}

var adminTypesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an appointment type",
	Example: `  clinicbook admin types create --name "First consultation" \
      --specialty spec-1 --duration 30 --general`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if atName == "" || atSpecialty == "" {
			return errors.New("--name and --specialty are required")
		}
		at := api.AppointmentType{
			Name:            atName,
			SpecialtyID:     atSpecialty,
			DurationMinutes: atDuration,
			IsGeneral:       atGeneral,
			IsActive:        !atInactive,
		}
		created, err := client.CreateAppointmentType(at)
		if err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Created appointment type %s (%s)\n", created.ID, created.Name)
		return nil
	},
}

var adminTypesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an appointment type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		at := api.AppointmentType{
			ID:              args[0],
			Name:            atName,
			SpecialtyID:     atSpecialty,
			DurationMinutes: atDuration,
			IsGeneral:       atGeneral,
			IsActive:        !atInactive,
		}
		if err := client.UpdateAppointmentType(at); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Updated appointment type %s\n", args[0])
		return nil
	},
}

var adminTypesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an appointment type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if err := client.DeleteAppointmentType(args[0]); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Deleted appointment type %s\n", args[0])
		return nil
	},
}

func init() {
	adminTypesCmd.AddCommand(adminTypesListCmd)
	adminTypesCmd.AddCommand(adminTypesCreateCmd)
	adminTypesCmd.AddCommand(adminTypesUpdateCmd)
	adminTypesCmd.AddCommand(adminTypesDeleteCmd)

	for _, c := range []*cobra.Command{adminTypesCreateCmd, adminTypesUpdateCmd} {
		c.Flags().StringVar(&atName, "name", "", "Appointment type name")
		c.Flags().StringVar(&atSpecialty, "specialty", "", "Specialty id")
		c.Flags().IntVar(&atDuration, "duration", 30, "Duration in minutes")
		c.Flags().BoolVar(&atGeneral, "general", false, "Bookable for first-time visits")
		c.Flags().BoolVar(&atInactive, "inactive", false, "Hide from booking")
	}
}

// --- locations ---

var adminLocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Manage physical locations",
}

var adminLocationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		locs, err := client.Locations()
		if err != nil {
			return apiErr(client, err)
		}
		return listPage(locs,
			func(l api.PhysicalLocation) string { return l.Name + " " + l.Address },
			func(l api.PhysicalLocation) string {
				return fmt.Sprintf("%-10s %-20s %s (floor %s, room %s)", l.ID, l.Name, l.Address, l.Floor, l.Room)
			})
	},
}

var adminLocationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if locName == "" {
			return errors.New("--name is required")
		}
		l := api.PhysicalLocation{Name: locName, Address: locAddress, Floor: locFloor, Room: locRoom}
		created, err := client.CreateLocation(l)
		if err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Created location %s (%s)\n", created.ID, created.Name)
		return nil
	},
}

var adminLocationsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		l := api.PhysicalLocation{ID: args[0], Name: locName, Address: locAddress, Floor: locFloor, Room: locRoom}
		if err := client.UpdateLocation(l); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Updated location %s\n", args[0])
		return nil
	},
}

var adminLocationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if err := client.DeleteLocation(args[0]); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Deleted location %s\n", args[0])
		return nil
	},
}

func init() {
	adminLocationsCmd.AddCommand(adminLocationsListCmd)
	adminLocationsCmd.AddCommand(adminLocationsCreateCmd)
	adminLocationsCmd.AddCommand(adminLocationsUpdateCmd)
	adminLocationsCmd.AddCommand(adminLocationsDeleteCmd)

	for _, c := range []*cobra.Command{adminLocationsCreateCmd, adminLocationsUpdateCmd} {
		c.Flags().StringVar(&locName, "name", "", "Location name")
		c.Flags().StringVar(&locAddress, "address", "", "Street address")
		c.Flags().StringVar(&locFloor, "floor", "", "Floor")
		c.Flags().StringVar(&locRoom, "room", "", "Room")
	}
}

// --- availabilities ---

var adminAvailabilitiesCmd = &cobra.Command{
	Use:   "availabilities",
	Short: "Manage doctor availability windows",
}

var adminAvailabilitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List availability windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		avs, err := client.Availabilities()
		if err != nil {
			return apiErr(client, err)
		}
		return listPage(avs,
			func(a api.Availability) string { return a.DoctorID + " " + a.DayOfWeek },
			func(a api.Availability) string {
				return fmt.Sprintf("%-10s %-10s %-10s %s-%s", a.ID, a.DoctorID, a.DayOfWeek, a.StartTime, a.EndTime)
			})
	},
}

var adminAvailabilitiesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an availability window",
	Example: `  clinicbook admin availabilities create --doctor user-8 \
      --day MONDAY --start 09:00:00 --end 13:00:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if avDoctor == "" || avDay == "" || avStart == "" || avEnd == "" {
			return errors.New("--doctor, --day, --start, and --end are required")
		}
		a := api.Availability{
			DoctorID:   avDoctor,
			LocationID: avLocation,
			DayOfWeek:  avDay,
			StartTime:  avStart,
			EndTime:    avEnd,
		}
		created, err := client.CreateAvailability(a)
		if err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Created availability %s\n", created.ID)
		return nil
	},
}

var adminAvailabilitiesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an availability window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		a := api.Availability{
			ID:         args[0],
			DoctorID:   avDoctor,
			LocationID: avLocation,
			DayOfWeek:  avDay,
			StartTime:  avStart,
			EndTime:    avEnd,
		}
		if err := client.UpdateAvailability(a); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Updated availability %s\n", args[0])
		return nil
	},
}

var adminAvailabilitiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an availability window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if err := client.DeleteAvailability(args[0]); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Deleted availability %s\n", args[0])
		return nil
	},
}

func init() {
	adminAvailabilitiesCmd.AddCommand(adminAvailabilitiesListCmd)
	adminAvailabilitiesCmd.AddCommand(adminAvailabilitiesCreateCmd)
	adminAvailabilitiesCmd.AddCommand(adminAvailabilitiesUpdateCmd)
	adminAvailabilitiesCmd.AddCommand(adminAvailabilitiesDeleteCmd)

	for _, c := range []*cobra.Command{adminAvailabilitiesCreateCmd, adminAvailabilitiesUpdateCmd} {
		c.Flags().StringVar(&avDoctor, "doctor", "", "Doctor id")
		c.Flags().StringVar(&avLocation, "location", "", "Location id")
		c.Flags().StringVar(&avDay, "day", "", "Day of week (e.g. MONDAY)")
		c.Flags().StringVar(&avStart, "start", "", "Window start (HH:MM:SS)")
		c.Flags().StringVar(&avEnd, "end", "", "Window end (HH:MM:SS)")
	}
}

// --- unavailabilities ---

var adminUnavailabilitiesCmd = &cobra.Command{
	Use:   "unavailabilities",
	Short: "Manage one-off doctor unavailability blocks",
}

var adminUnavailabilitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unavailability blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		blocks, err := client.Unavailabilities()
		if err != nil {
			return apiErr(client, err)
		}
		return listPage(blocks,
			func(u api.Unavailability) string { return u.DoctorID + " " + u.Reason },
			func(u api.Unavailability) string {
				return fmt.Sprintf("%-10s %-10s %s - %s  %s", u.ID, u.DoctorID, u.StartTime, u.EndTime, u.Reason)
			})
	},
}

var adminUnavailabilitiesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an unavailability block",
	Example: `  clinicbook admin unavailabilities create --doctor user-8 \
      --start 2026-09-07T09:00:00 --end 2026-09-07T13:00:00 --reason "Conference"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if unavDoctor == "" || unavStart == "" || unavEnd == "" {
			return errors.New("--doctor, --start, and --end are required")
		}
		u := api.Unavailability{
			DoctorID:  unavDoctor,
			StartTime: unavStart,
			EndTime:   unavEnd,
			Reason:    unavReason,
		}
		created, err := client.CreateUnavailability(u)
		if err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Created unavailability %s\n", created.ID)
		return nil
	},
}

var adminUnavailabilitiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an unavailability block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if err := client.DeleteUnavailability(args[0]); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Deleted unavailability %s\n", args[0])
		return nil
	},
}

func init() {
	adminUnavailabilitiesCmd.AddCommand(adminUnavailabilitiesListCmd)
	adminUnavailabilitiesCmd.AddCommand(adminUnavailabilitiesCreateCmd)
	adminUnavailabilitiesCmd.AddCommand(adminUnavailabilitiesDeleteCmd)

	adminUnavailabilitiesCreateCmd.Flags().StringVar(&unavDoctor, "doctor", "", "Doctor id")
	adminUnavailabilitiesCreateCmd.Flags().StringVar(&unavStart, "start", "", "Block start (YYYY-MM-DDTHH:MM:SS)")
	adminUnavailabilitiesCreateCmd.Flags().StringVar(&unavEnd, "end", "", "Block end (YYYY-MM-DDTHH:MM:SS)")
	adminUnavailabilitiesCreateCmd.Flags().StringVar(&unavReason, "reason", "", "Reason for the block")
}

// --- appointments ---

var adminAppointmentsCmd = &cobra.Command{
	Use:   "appointments",
	Short: "Manage appointments across all patients",
}

var adminAppointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		appts, err := client.Appointments()
		if err != nil {
			return apiErr(client, err)
		}
		return listPage(appts,
			func(a api.Appointment) string { return a.PatientName + " " + a.DoctorName + " " + a.TypeName },
			func(a api.Appointment) string { return a.FormatCompact() })
	},
}

var adminAppointmentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an appointment's status or notes",
	Example: `  clinicbook admin appointments update appt-42 --status CANCELLED`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		a := api.Appointment{ID: args[0], Status: apptStatus, Notes: apptNotes}
		if err := client.UpdateAppointment(a); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Updated appointment %s\n", args[0])
		return nil
	},
}

var adminAppointmentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := adminClient()
		if err != nil {
			return err
		}
		if err := client.DeleteAppointment(args[0]); err != nil {
			return apiErr(client, err)
		}
		fmt.Printf("✓ Deleted appointment %s\n", args[0])
		return nil
	},
}

func init() {
	adminAppointmentsCmd.AddCommand(adminAppointmentsListCmd)
	adminAppointmentsCmd.AddCommand(adminAppointmentsUpdateCmd)
	adminAppointmentsCmd.AddCommand(adminAppointmentsDeleteCmd)

	adminAppointmentsUpdateCmd.Flags().StringVar(&apptStatus, "status", "", "New status (e.g. CANCELLED)")
	adminAppointmentsUpdateCmd.Flags().StringVar(&apptNotes, "notes", "", "Replacement notes")
}
