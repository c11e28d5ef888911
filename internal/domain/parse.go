package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrTimeFormat marks a time-of-day or date string that does not split into
// numeric components. It is the only error the datetime core produces; every
// exported query catches it internally and returns its documented fallback.
var ErrTimeFormat = errors.New("invalid time format")

const minutesPerDay = 24 * 60

// ParseTimeToMinutes parses "HH:MM" or "HH:MM:SS" into minutes since
// midnight. Only the shape is validated: at least two colon-delimited numeric
// components. Out-of-range components ("25:99") are accepted arithmetically;
// a seconds component is ignored.
func ParseTimeToMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrTimeFormat, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrTimeFormat, s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrTimeFormat, s)
	}
	return h*60 + m, nil
}

// MinutesToTimeString returns zero-padded HH:MM for minutes since midnight.
// Round-trips with ParseTimeToMinutes for zero-padded in-range input.
func MinutesToTimeString(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// parseStrictHHMM is the range-checked variant used for user input.
func parseStrictHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrTimeFormat, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: invalid hour in %q", ErrTimeFormat, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: invalid minute in %q", ErrTimeFormat, s)
	}
	return h*60 + m, nil
}

// ParseWindowSpec parses user input "HH:MM-HH:MM" (en dash also accepted)
// into a TimeWindow. Unlike the lenient core parser this one range-checks,
// because it guards data entering the store.
func ParseWindowSpec(s string) (TimeWindow, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeWindow{}, fmt.Errorf("%w: empty window", ErrTimeFormat)
	}
	sep := "–"
	if strings.Contains(s, "-") && !strings.Contains(s, "–") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return TimeWindow{}, fmt.Errorf("%w: expected HH:MM-HH:MM, got %q", ErrTimeFormat, s)
	}
	startM, err := parseStrictHHMM(parts[0])
	if err != nil {
		return TimeWindow{}, fmt.Errorf("start: %w", err)
	}
	endM, err := parseStrictHHMM(parts[1])
	if err != nil {
		return TimeWindow{}, fmt.Errorf("end: %w", err)
	}
	return TimeWindow{
		Start: MinutesToTimeString(startM),
		End:   MinutesToTimeString(endM),
	}, nil
}

// NormalizeTimeOfDay validates user-entered "HH:MM" or "HH:MM:SS" and
// returns the canonical "HH:MM:SS" form. Seconds are accepted but zeroed;
// the system works at minute granularity.
func NormalizeTimeOfDay(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return "", fmt.Errorf("%w: invalid second in %q", ErrTimeFormat, s)
		}
		parts = parts[:2]
	}
	mins, err := parseStrictHHMM(strings.Join(parts, ":"))
	if err != nil {
		return "", err
	}
	return MinutesToTimeString(mins) + ":00", nil
}

// ValidateTZ checks that tz is a valid IANA location and returns its
// canonical name.
func ValidateTZ(tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}
