package domain

import (
	"strings"
	"time"
)

// parseInstant accepts the timestamp shapes the backend emits: RFC3339,
// naive datetime, or bare date. Bare dates are interpreted in loc.
func parseInstant(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// utcMidnight pins a local calendar date to a UTC midnight so that two dates
// can be diffed in whole days without daylight-saving drift.
func utcMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LogicalDayDifference returns the signed whole-day offset between dateISO
// and current_logical_date: positive when the date lies in the past, zero on
// the same logical day, negative in the future. The date is taken in the
// context's timezone, time-of-day discarded. Missing or malformed input
// degrades to 0 — the result feeds user-facing labels and must not fail.
func LogicalDayDifference(dateISO string, uc UserContext) int {
	loc := uc.location()
	then, ok := parseInstant(dateISO, loc)
	if !ok {
		return 0
	}
	today, err := time.ParseInLocation("2006-01-02", uc.CurrentLogicalDate, loc)
	if err != nil {
		return 0
	}
	diff := utcMidnight(today).Sub(utcMidnight(then.In(loc)))
	return int(diff / (24 * time.Hour))
}

// DaysOverdue clamps the logical-day difference at zero: a future or
// same-day date is simply not overdue.
func DaysOverdue(dateISO string, uc UserContext) int {
	d := LogicalDayDifference(dateISO, uc)
	if d < 0 {
		return 0
	}
	return d
}

// IsToday reports whether dateISO's calendar date in the context's timezone
// equals current_logical_date. Malformed input yields false.
func IsToday(dateISO string, uc UserContext) bool {
	loc := uc.location()
	then, ok := parseInstant(dateISO, loc)
	if !ok {
		return false
	}
	return then.In(loc).Format("2006-01-02") == uc.CurrentLogicalDate
}
