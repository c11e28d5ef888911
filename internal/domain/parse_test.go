package domain

import (
	"errors"
	"testing"
)

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"23:59", 1439},
		{"05:00:00", 300},
		{"20:00:00", 1200},
		// Shape-only validation: out-of-range components pass through.
		{"25:99", 25*60 + 99},
	}
	for _, c := range cases {
		got, err := ParseTimeToMinutes(c.in)
		if err != nil {
			t.Fatalf("ParseTimeToMinutes(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseTimeToMinutesErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "12", "ab:cd", "1x:30", "12:3m"} {
		_, err := ParseTimeToMinutes(in)
		if !errors.Is(err, ErrTimeFormat) {
			t.Errorf("ParseTimeToMinutes(%q): want ErrTimeFormat, got %v", in, err)
		}
	}
}

func TestMinutesToTimeStringRoundTrip(t *testing.T) {
	for _, in := range []string{"00:00", "05:07", "09:30", "13:00", "22:00", "23:59"} {
		mins, err := ParseTimeToMinutes(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := MinutesToTimeString(mins); got != in {
			t.Errorf("round trip %q → %d → %q", in, mins, got)
		}
	}
}

func TestParseWindowSpec(t *testing.T) {
	for _, in := range []string{"09:00-17:00", "09:00–17:00", " 9:00-17:00 "} {
		w, err := ParseWindowSpec(in)
		if err != nil {
			t.Fatalf("ParseWindowSpec(%q): %v", in, err)
		}
		if w.Start != "09:00" || w.End != "17:00" {
			t.Errorf("ParseWindowSpec(%q) = %+v", in, w)
		}
	}

	for _, in := range []string{"", "09:00", "25:00-17:00", "09:00-17:60", "morning"} {
		if _, err := ParseWindowSpec(in); err == nil {
			t.Errorf("ParseWindowSpec(%q): want error", in)
		}
	}
}

func TestValidateTZ(t *testing.T) {
	if got, err := ValidateTZ("America/New_York"); err != nil || got != "America/New_York" {
		t.Fatalf("ValidateTZ: got %q, %v", got, err)
	}
	if _, err := ValidateTZ("Not/AZone"); err == nil {
		t.Fatal("ValidateTZ accepted a bogus zone")
	}
}
