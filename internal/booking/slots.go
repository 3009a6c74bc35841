package booking

import (
	"sort"
	"strings"

	"github.com/calnico/clinicbook/internal/api"
)

// DateOption is one distinct bookable date derived from the slot list.
type DateOption struct {
	ISO   string // "YYYY-MM-DD", used as the select value
	Label string // localized display label
}

// AvailableDates derives the distinct bookable dates from a slot list,
// sorted ascending by ISO date string. No slot data is synthesized: dates
// exist only where the backend returned at least one slot.
func AvailableDates(slots []api.TimeSlot) []DateOption {
	seen := make(map[string]bool)
	var dates []DateOption
	for _, s := range slots {
		iso := s.Date()
		if iso == "" || seen[iso] {
			continue
		}
		seen[iso] = true
		dates = append(dates, DateOption{ISO: iso, Label: api.FormatDateLabel(iso)})
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].ISO < dates[j].ISO })
	return dates
}

// SlotsForDate filters the slot list to those starting on the given ISO
// date, preserving source order.
func SlotsForDate(slots []api.TimeSlot, isoDate string) []api.TimeSlot {
	if isoDate == "" {
		return nil
	}
	var out []api.TimeSlot
	for _, s := range slots {
		if strings.HasPrefix(s.StartTime, isoDate) {
			out = append(out, s)
		}
	}
	return out
}

// ResolveSlot matches a chosen "HH:MM:SS" time of day back to its full slot
// by exact comparison against each slot's start time. A failed match means
// the slot list went stale underneath the selection.
func ResolveSlot(slots []api.TimeSlot, timeOfDay string) (api.TimeSlot, bool) {
	if timeOfDay == "" {
		return api.TimeSlot{}, false
	}
	for _, s := range slots {
		if s.TimeOfDay() == timeOfDay {
			return s, true
		}
	}
	return api.TimeSlot{}, false
}
