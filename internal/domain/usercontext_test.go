package domain

import (
	"testing"
	"time"
)

func TestResolveUserContextNil(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)
	uc := ResolveUserContext(nil, now)

	if uc.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", uc.Timezone)
	}
	if uc.DailyResetTime != "00:00:00" {
		t.Errorf("daily_reset_time = %q, want 00:00:00", uc.DailyResetTime)
	}
	if uc.DailyTaskCutoffTime != "20:00:00" {
		t.Errorf("daily_task_cutoff_time = %q, want 20:00:00", uc.DailyTaskCutoffTime)
	}
	if uc.CurrentLogicalDate != "2025-06-10" {
		t.Errorf("current_logical_date = %q, want 2025-06-10", uc.CurrentLogicalDate)
	}
}

func TestResolveUserContextPartial(t *testing.T) {
	// 01:00 UTC on June 11 is still June 10 in New York; the default
	// current date must be computed in the resolved timezone.
	now := time.Date(2025, time.June, 11, 1, 0, 0, 0, time.UTC)
	uc := ResolveUserContext(&UserContext{Timezone: "America/New_York"}, now)

	if uc.Timezone != "America/New_York" {
		t.Errorf("timezone = %q, want America/New_York", uc.Timezone)
	}
	if uc.DailyResetTime != "00:00:00" || uc.DailyTaskCutoffTime != "20:00:00" {
		t.Errorf("defaults not filled: %+v", uc)
	}
	if uc.CurrentLogicalDate != "2025-06-10" {
		t.Errorf("current_logical_date = %q, want 2025-06-10", uc.CurrentLogicalDate)
	}
}

func TestResolveUserContextPreservesFields(t *testing.T) {
	raw := &UserContext{
		Timezone:            "Europe/Moscow",
		DailyResetTime:      "05:00:00",
		CurrentLogicalDate:  "2025-01-02",
		DailyTaskCutoffTime: "21:30:00",
	}
	uc := ResolveUserContext(raw, time.Now())
	if uc != *raw {
		t.Errorf("resolve mutated a complete context: %+v", uc)
	}
}

func TestCurrentLogicalDate(t *testing.T) {
	// Reset at 05:00: 04:59 local is still yesterday's logical date.
	before := time.Date(2025, time.June, 10, 4, 59, 0, 0, time.UTC)
	if got := CurrentLogicalDate(before, "UTC", "05:00:00"); got != "2025-06-09" {
		t.Errorf("before reset: got %q, want 2025-06-09", got)
	}
	after := time.Date(2025, time.June, 10, 5, 0, 0, 0, time.UTC)
	if got := CurrentLogicalDate(after, "UTC", "05:00:00"); got != "2025-06-10" {
		t.Errorf("at reset: got %q, want 2025-06-10", got)
	}

	// Bad inputs degrade instead of failing.
	if got := CurrentLogicalDate(after, "Not/AZone", "garbage"); got != "2025-06-10" {
		t.Errorf("fallbacks: got %q, want 2025-06-10", got)
	}
}
