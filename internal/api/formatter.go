package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatTimeOfDay maps a 24-hour "HH:MM" (or longer) string to a 12-hour
// display string with AM/PM suffix. The displayed hour is hour%12, with 0
// mapping to 12, so both midnight and noon display as 12. Minutes pass
// through unrounded. Malformed input is returned unchanged.
func FormatTimeOfDay(hhmm string) string {
	if len(hhmm) < 5 || hhmm[2] != ':' {
		return hhmm
	}
	hour, err := strconv.Atoi(hhmm[:2])
	if err != nil || hour < 0 || hour > 23 {
		return hhmm
	}
	minute := hhmm[3:5]

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, minute, suffix)
}

// FormatSlotTime renders a slot's start time of day for display
// (e.g. "2024-06-10T13:30:00" -> "1:30 PM").
func FormatSlotTime(slot TimeSlot) string {
	tod := slot.TimeOfDay()
	if tod == "" {
		return slot.StartTime
	}
	return FormatTimeOfDay(tod)
}

// FormatDateLabel renders an ISO "YYYY-MM-DD" date as a localized display
// label (e.g. "Monday, June 10, 2024"). Unparseable input is returned
// unchanged so the wizard never loses an option to a formatting problem.
func FormatDateLabel(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("Monday, January 2, 2006")
}

// Summary returns a one-line summary of an appointment.
func (a *Appointment) Summary() string {
	who := a.DoctorName
	if who == "" {
		who = "doctor " + a.DoctorID
	}
	when := a.StartTime
	if len(a.StartTime) >= 19 {
		when = fmt.Sprintf("%s at %s", a.StartTime[:10], FormatTimeOfDay(a.StartTime[11:16]))
	}
	return fmt.Sprintf("%s with %s", when, who)
}

// FormatDetailed returns a multi-line appointment view for terminal display.
func (a *Appointment) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Appointment ===\n")
	if a.ID != "" {
		b.WriteString(fmt.Sprintf("ID:       %s\n", a.ID))
	}
	if len(a.StartTime) >= 19 {
		b.WriteString(fmt.Sprintf("Date:     %s\n", FormatDateLabel(a.StartTime[:10])))
		b.WriteString(fmt.Sprintf("Time:     %s - %s\n",
			FormatTimeOfDay(a.StartTime[11:16]),
			FormatTimeOfDay(safeTimePart(a.EndTime))))
	} else {
		b.WriteString(fmt.Sprintf("Start:    %s\n", a.StartTime))
		b.WriteString(fmt.Sprintf("End:      %s\n", a.EndTime))
	}
	if a.DoctorName != "" {
		b.WriteString(fmt.Sprintf("Doctor:   %s\n", a.DoctorName))
	} else {
		b.WriteString(fmt.Sprintf("Doctor:   %s\n", a.DoctorID))
	}
	if a.PatientName != "" {
		b.WriteString(fmt.Sprintf("Patient:  %s\n", a.PatientName))
	}
	if a.TypeName != "" {
		b.WriteString(fmt.Sprintf("Type:     %s\n", a.TypeName))
	}
	if a.Status != "" {
		b.WriteString(fmt.Sprintf("Status:   %s\n", a.Status))
	}
	if a.Notes != "" {
		b.WriteString(fmt.Sprintf("Notes:    %s\n", a.Notes))
	}
	if a.ParentAppointmentID != nil {
		b.WriteString(fmt.Sprintf("Parent:   %s\n", *a.ParentAppointmentID))
	}

	return b.String()
}

// FormatCompact returns a one-line-per-field compact appointment view.
func (a *Appointment) FormatCompact() string {
	status := a.Status
	if status == "" {
		status = "-"
	}
	return fmt.Sprintf("%-10s  %s  [%s]", a.ID, a.Summary(), status)
}

func safeTimePart(iso string) string {
	if len(iso) < 16 {
		return iso
	}
	return iso[11:16]
}
