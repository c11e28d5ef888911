package domain

import "time"

// Task is a recurring daily task with an active time-of-day window.
type Task struct {
	ID             string // uuid
	ChatID         int64
	Name           string
	Window         TimeWindow
	DueDate        string     // YYYY-MM-DD, empty when the task has no deadline
	LastNotifiedAt *time.Time // UTC, last window reminder
	CreatedAt      time.Time  // UTC
}

// TaskStatus is a task's relation to the current logical day, derived from
// the window evaluator and the completion log.
type TaskStatus string

const (
	StatusDone     TaskStatus = "done"
	StatusActive   TaskStatus = "active"
	StatusUpcoming TaskStatus = "upcoming"
	StatusMissed   TaskStatus = "missed"
)

// Evaluate classifies the task for the given instant. completedToday is
// whether a completion already exists inside the current logical day.
func (t *Task) Evaluate(uc UserContext, now time.Time, completedToday bool) TaskStatus {
	switch {
	case completedToday:
		return StatusDone
	case IsCurrentTimeInWindow(t.Window, uc, now):
		return StatusActive
	case IsWindowInPast(t.Window, uc, now):
		return StatusMissed
	default:
		return StatusUpcoming
	}
}
