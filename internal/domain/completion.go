package domain

import "time"

// Completion is one recorded completion of a task. CompletedAt follows the
// completion-timestamp policy: wall-clock time when logged inside the
// window, the window midpoint otherwise. RecordedAt is always wall-clock.
type Completion struct {
	ID          string // uuid
	TaskID      string
	CompletedAt time.Time // UTC
	RecordedAt  time.Time // UTC
}
