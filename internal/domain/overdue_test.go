package domain

import (
	"testing"
)

func TestLogicalDayDifference(t *testing.T) {
	uc := ucAt("2025-06-10", "00:00:00")

	cases := []struct {
		dateISO string
		want    int
	}{
		{"2025-06-10", 0},
		{"2025-06-09", 1},
		{"2025-06-03", 7},
		{"2025-06-11", -1},
		{"2025-06-10T23:59:00", 0}, // time-of-day discarded
	}
	for _, c := range cases {
		if got := LogicalDayDifference(c.dateISO, uc); got != c.want {
			t.Errorf("LogicalDayDifference(%q) = %d, want %d", c.dateISO, got, c.want)
		}
	}
}

func TestLogicalDayDifferenceTimezone(t *testing.T) {
	uc := UserContext{
		Timezone:           "America/New_York",
		DailyResetTime:     "00:00:00",
		CurrentLogicalDate: "2025-03-10",
	}
	// 03:00 UTC on March 10 is 23:00 EDT on March 9: one day in the past.
	if got := LogicalDayDifference("2025-03-10T03:00:00Z", uc); got != 1 {
		t.Errorf("cross-midnight UTC instant: got %d, want 1", got)
	}
	// Noon UTC the same day is still March 10 in New York.
	if got := LogicalDayDifference("2025-03-10T12:00:00Z", uc); got != 0 {
		t.Errorf("same-day UTC instant: got %d, want 0", got)
	}
}

func TestDaysOverdue(t *testing.T) {
	uc := ucAt("2025-06-10", "00:00:00")

	if got := DaysOverdue("2025-06-09", uc); got != 1 {
		t.Errorf("yesterday: got %d, want 1", got)
	}
	if got := DaysOverdue("2025-06-10", uc); got != 0 {
		t.Errorf("today: got %d, want 0", got)
	}
	// Future dates clamp to zero instead of going negative.
	if got := DaysOverdue("2025-07-01", uc); got != 0 {
		t.Errorf("future: got %d, want 0", got)
	}
}

func TestIsToday(t *testing.T) {
	uc := UserContext{
		Timezone:           "America/New_York",
		DailyResetTime:     "00:00:00",
		CurrentLogicalDate: "2025-03-10",
	}
	if !IsToday("2025-03-10T12:00:00Z", uc) {
		t.Error("noon UTC should be today in New York")
	}
	if IsToday("2025-03-10T03:00:00Z", uc) {
		t.Error("03:00 UTC is still yesterday in New York")
	}
	if !IsToday("2025-03-10", ucAt("2025-03-10", "00:00:00")) {
		t.Error("bare date equal to the logical date should be today")
	}
}

func TestOverdueFallbacks(t *testing.T) {
	uc := ucAt("2025-06-10", "00:00:00")

	if got := LogicalDayDifference("", uc); got != 0 {
		t.Errorf("empty date: got %d, want 0", got)
	}
	if got := LogicalDayDifference("not-a-date", uc); got != 0 {
		t.Errorf("garbage date: got %d, want 0", got)
	}
	if got := DaysOverdue("not-a-date", uc); got != 0 {
		t.Errorf("garbage date overdue: got %d, want 0", got)
	}
	if IsToday("not-a-date", uc) {
		t.Error("garbage date reported as today")
	}
	// A context with an unparsable logical date degrades to zero too.
	bad := ucAt("garbage", "00:00:00")
	if got := LogicalDayDifference("2025-06-10", bad); got != 0 {
		t.Errorf("bad context: got %d, want 0", got)
	}
}
