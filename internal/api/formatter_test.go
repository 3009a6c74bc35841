package api

import "testing"

func TestFormatTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:05:00", "12:05 AM"},
		{"00:00:00", "12:00 AM"},
		{"09:00:00", "9:00 AM"},
		{"11:59:00", "11:59 AM"},
		{"12:00:00", "12:00 PM"},
		{"12:30:00", "12:30 PM"},
		{"13:30:00", "1:30 PM"},
		{"23:45:00", "11:45 PM"},
	}
	for _, tt := range tests {
		if got := FormatTimeOfDay(tt.in); got != tt.want {
			t.Errorf("FormatTimeOfDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimeOfDayMalformed(t *testing.T) {
	// Malformed input passes through untouched.
	if got := FormatTimeOfDay("bogus"); got != "bogus" {
		t.Errorf("FormatTimeOfDay(bogus) = %q", got)
	}
}

func TestFormatSlotTime(t *testing.T) {
	s := TimeSlot{StartTime: "2024-06-10T13:30:00", EndTime: "2024-06-10T14:00:00"}
	if got := FormatSlotTime(s); got != "1:30 PM" {
		t.Errorf("FormatSlotTime = %q, want %q", got, "1:30 PM")
	}
}

func TestFormatDateLabel(t *testing.T) {
	if got := FormatDateLabel("2024-06-10"); got != "Monday, June 10, 2024" {
		t.Errorf("FormatDateLabel = %q", got)
	}
	// Unparseable input falls back to the raw value.
	if got := FormatDateLabel("not-a-date"); got != "not-a-date" {
		t.Errorf("FormatDateLabel fallback = %q", got)
	}
}
