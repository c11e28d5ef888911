package domain

import "time"

// User holds per-chat settings that define the chat's temporal frame.
type User struct {
	ChatID              int64
	Enabled             bool
	Timezone            string
	DailyResetTime      string // HH:MM:SS
	DailyTaskCutoffTime string // HH:MM:SS
	LastCutoffNagAt     *time.Time
	CreatedAt           time.Time // UTC
}

// Context builds the user's resolved UserContext for the given instant,
// deriving current_logical_date from the reset time.
func (u *User) Context(now time.Time) UserContext {
	if now.IsZero() {
		now = time.Now()
	}
	return ResolveUserContext(&UserContext{
		Timezone:            u.Timezone,
		DailyResetTime:      u.DailyResetTime,
		CurrentLogicalDate:  CurrentLogicalDate(now, u.Timezone, u.DailyResetTime),
		DailyTaskCutoffTime: u.DailyTaskCutoffTime,
	}, now)
}
