package domain

import "time"

// TimeWindow is a recurring daily time-of-day interval. End earlier than
// Start (in raw minutes since midnight) means the window spans past
// midnight into the next calendar day.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LogicalDayStart returns the instant the user's current logical day began:
// current_logical_date at daily_reset_time, in the context's timezone.
// Unparsable fields degrade: bad reset time acts as midnight, bad date as
// today, bad timezone as UTC.
func LogicalDayStart(uc UserContext) time.Time {
	loc := uc.location()
	day, err := time.ParseInLocation("2006-01-02", uc.CurrentLogicalDate, loc)
	if err != nil {
		now := time.Now().In(loc)
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}
	resetM, err := ParseTimeToMinutes(uc.DailyResetTime)
	if err != nil {
		resetM = 0
	}
	// time.Date normalizes the minute overflow in the location's frame,
	// which keeps DST transitions correct.
	return time.Date(day.Year(), day.Month(), day.Day(), resetM/60, resetM%60, 0, 0, loc)
}

// LogicalDayEnd returns the last millisecond of the current logical day.
func LogicalDayEnd(uc UserContext) time.Time {
	return LogicalDayStart(uc).Add(24*time.Hour - time.Millisecond)
}

// reproject shifts a window from the calendar-midnight frame onto the
// logical-day timeline, which starts at daily_reset_time. Returned offsets
// are minutes since the logical day start; a negative raw offset means the
// time-of-day lands on the next calendar day relative to the reset point.
func reproject(w TimeWindow, uc UserContext) (adjStart, adjEnd int, err error) {
	startM, err := ParseTimeToMinutes(w.Start)
	if err != nil {
		return 0, 0, err
	}
	endM, err := ParseTimeToMinutes(w.End)
	if err != nil {
		return 0, 0, err
	}
	resetM, err := ParseTimeToMinutes(uc.DailyResetTime)
	if err != nil {
		resetM = 0
	}
	adjStart = startM - resetM
	if adjStart < 0 {
		adjStart += minutesPerDay
	}
	adjEnd = endM - resetM
	if adjEnd < 0 {
		adjEnd += minutesPerDay
	}
	return adjStart, adjEnd, nil
}

// nowOffset returns whole minutes elapsed between the logical day start and
// now. Callers supply now at or after the day start in normal use.
func nowOffset(uc UserContext, now time.Time) int {
	if now.IsZero() {
		now = time.Now()
	}
	return int(now.Sub(LogicalDayStart(uc)) / time.Minute)
}

// IsCurrentTimeInWindow reports whether now falls inside the window on the
// current logical day. Window bounds are inclusive. A window whose adjusted
// end precedes its adjusted start wraps past the logical-day boundary.
// Malformed window strings yield false. A zero now means time.Now().
func IsCurrentTimeInWindow(w TimeWindow, uc UserContext, now time.Time) bool {
	adjStart, adjEnd, err := reproject(w, uc)
	if err != nil {
		return false
	}
	offset := nowOffset(uc, now)
	if adjEnd >= adjStart {
		return offset >= adjStart && offset <= adjEnd
	}
	return offset >= adjStart || offset <= adjEnd
}

// IsWindowInPast reports whether the window's occurrence on the current
// logical day is already over: the offset has moved beyond the adjusted end
// without having wrapped back to before the adjusted start. Malformed window
// strings yield false. A zero now means time.Now().
func IsWindowInPast(w TimeWindow, uc UserContext, now time.Time) bool {
	adjStart, adjEnd, err := reproject(w, uc)
	if err != nil {
		return false
	}
	offset := nowOffset(uc, now)
	if adjEnd >= adjStart {
		return offset > adjEnd
	}
	return offset > adjEnd && offset < adjStart
}

// WindowMidpoint returns the instant halfway through the window's occurrence
// on the current logical day. For a wrapping window the span runs through
// the day boundary; a midpoint overflowing the day wraps modulo 24h. On a
// malformed window it falls back to the logical day start.
func WindowMidpoint(w TimeWindow, uc UserContext) time.Time {
	dayStart := LogicalDayStart(uc)
	adjStart, adjEnd, err := reproject(w, uc)
	if err != nil {
		return dayStart
	}
	var mid int
	if adjEnd >= adjStart {
		mid = (adjStart + adjEnd) / 2
	} else {
		span := (minutesPerDay - adjStart) + adjEnd
		mid = adjStart + span/2
		if mid >= minutesPerDay {
			mid -= minutesPerDay
		}
	}
	return dayStart.Add(time.Duration(mid) * time.Minute)
}

// CompletionTimestamp decides what completed_at to record for a completion
// logged right now. Inside the window's active hours the answer is nil: use
// wall-clock now. Outside them the true moment is unknowable, so the window
// midpoint is used — it keeps same-day completions chronologically ordered
// without overstating precision. A zero now means time.Now().
func CompletionTimestamp(w TimeWindow, uc UserContext, now time.Time) *time.Time {
	if IsCurrentTimeInWindow(w, uc, now) {
		return nil
	}
	if _, _, err := reproject(w, uc); err != nil {
		return nil
	}
	mid := WindowMidpoint(w, uc)
	return &mid
}
