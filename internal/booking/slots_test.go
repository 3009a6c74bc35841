package booking

import (
	"testing"

	"github.com/calnico/clinicbook/internal/api"
)

func TestAvailableDates(t *testing.T) {
	slots := []api.TimeSlot{
		{StartTime: "2024-06-10T09:00:00", EndTime: "2024-06-10T09:30:00"},
		{StartTime: "2024-06-10T10:00:00", EndTime: "2024-06-10T10:30:00"},
		{StartTime: "2024-06-11T09:00:00", EndTime: "2024-06-11T09:30:00"},
	}

	dates := AvailableDates(slots)

	if len(dates) != 2 {
		t.Fatalf("len(dates) = %d, want 2", len(dates))
	}
	if dates[0].ISO != "2024-06-10" || dates[1].ISO != "2024-06-11" {
		t.Errorf("dates = %v, want ascending 2024-06-10, 2024-06-11", dates)
	}
	if dates[0].Label != "Monday, June 10, 2024" {
		t.Errorf("label = %q, want localized display label", dates[0].Label)
	}
}

func TestAvailableDatesSortsUnorderedInput(t *testing.T) {
	slots := []api.TimeSlot{
		{StartTime: "2024-07-02T09:00:00"},
		{StartTime: "2024-06-28T09:00:00"},
		{StartTime: "2024-07-02T11:00:00"},
		{StartTime: "2024-07-01T09:00:00"},
	}

	dates := AvailableDates(slots)

	want := []string{"2024-06-28", "2024-07-01", "2024-07-02"}
	if len(dates) != len(want) {
		t.Fatalf("len(dates) = %d, want %d", len(dates), len(want))
	}
	for i, iso := range want {
		if dates[i].ISO != iso {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i].ISO, iso)
		}
	}
}

func TestAvailableDatesEmpty(t *testing.T) {
	if got := AvailableDates(nil); len(got) != 0 {
		t.Errorf("AvailableDates(nil) = %v, want empty", got)
	}
}

func TestSlotsForDate(t *testing.T) {
	slots := []api.TimeSlot{
		{StartTime: "2024-06-10T09:00:00", EndTime: "2024-06-10T09:30:00"},
		{StartTime: "2024-06-10T10:00:00", EndTime: "2024-06-10T10:30:00"},
		{StartTime: "2024-06-11T09:00:00", EndTime: "2024-06-11T09:30:00"},
	}

	got := SlotsForDate(slots, "2024-06-10")

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Source order preserved.
	if got[0].StartTime != "2024-06-10T09:00:00" || got[1].StartTime != "2024-06-10T10:00:00" {
		t.Errorf("slots = %v, want source order preserved", got)
	}
}

func TestSlotsForDateNoMatch(t *testing.T) {
	slots := []api.TimeSlot{{StartTime: "2024-06-10T09:00:00"}}

	if got := SlotsForDate(slots, "2024-06-12"); len(got) != 0 {
		t.Errorf("got %v, want empty for date with no slots", got)
	}
	if got := SlotsForDate(slots, ""); len(got) != 0 {
		t.Errorf("got %v, want empty for empty date", got)
	}
}

func TestResolveSlot(t *testing.T) {
	slots := []api.TimeSlot{
		{StartTime: "2024-06-10T09:00:00", EndTime: "2024-06-10T09:30:00"},
		{StartTime: "2024-06-10T13:30:00", EndTime: "2024-06-10T14:00:00"},
	}

	slot, ok := ResolveSlot(slots, "13:30:00")
	if !ok {
		t.Fatal("ResolveSlot() should match 13:30:00")
	}
	if slot.EndTime != "2024-06-10T14:00:00" {
		t.Errorf("EndTime = %s, want the full slot", slot.EndTime)
	}

	if _, ok := ResolveSlot(slots, "11:00:00"); ok {
		t.Error("ResolveSlot() matched a time not in the list")
	}
	if _, ok := ResolveSlot(slots, ""); ok {
		t.Error("ResolveSlot() matched the empty time")
	}
}
