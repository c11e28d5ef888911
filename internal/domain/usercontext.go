package domain

import "time"

// Defaults substituted by ResolveUserContext for absent fields.
const (
	DefaultTimezone            = "UTC"
	DefaultDailyResetTime      = "00:00:00"
	DefaultDailyTaskCutoffTime = "20:00:00"
)

// UserContext is one user's temporal frame of reference. It arrives as a
// JSON payload (see the /api/context endpoint) and every logical-day
// computation interprets wall-clock time through it.
type UserContext struct {
	Timezone            string `json:"timezone"`
	DailyResetTime      string `json:"daily_reset_time"`
	CurrentLogicalDate  string `json:"current_logical_date"`
	DailyTaskCutoffTime string `json:"daily_task_cutoff_time"`
}

// ResolveUserContext normalizes a possibly-partial context into a complete
// one. A nil raw yields full defaults; present fields are preserved. It
// never fails. A zero now means time.Now().
func ResolveUserContext(raw *UserContext, now time.Time) UserContext {
	if now.IsZero() {
		now = time.Now()
	}
	uc := UserContext{}
	if raw != nil {
		uc = *raw
	}
	if uc.Timezone == "" {
		uc.Timezone = DefaultTimezone
	}
	if uc.DailyResetTime == "" {
		uc.DailyResetTime = DefaultDailyResetTime
	}
	if uc.DailyTaskCutoffTime == "" {
		uc.DailyTaskCutoffTime = DefaultDailyTaskCutoffTime
	}
	if uc.CurrentLogicalDate == "" {
		uc.CurrentLogicalDate = now.In(uc.location()).Format("2006-01-02")
	}
	return uc
}

// location loads the context's timezone, falling back to UTC when the name
// does not resolve.
func (uc UserContext) location() *time.Location {
	loc, err := time.LoadLocation(uc.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CurrentLogicalDate returns the calendar date (YYYY-MM-DD, in tz) of the
// most recent daily-reset occurrence at or before now: before the reset time
// you are still on yesterday's logical date. Invalid tz falls back to UTC;
// an unparsable reset time falls back to midnight.
func CurrentLogicalDate(now time.Time, tz, resetTime string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	resetM, err := ParseTimeToMinutes(resetTime)
	if err != nil {
		resetM = 0
	}
	local := now.In(loc)
	if local.Hour()*60+local.Minute() < resetM {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format("2006-01-02")
}
