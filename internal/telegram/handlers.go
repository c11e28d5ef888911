package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gabrielhurley/tasktracker-bot/internal/domain"
	"github.com/gabrielhurley/tasktracker-bot/internal/store"
)

// ensureUser makes sure a user row exists; if not, creates it with defaults.
func (r *Router) ensureUser(ctx context.Context, chatID int64) (*domain.User, error) {
	u, err := r.repo.GetUser(ctx, chatID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	u = &domain.User{
		ChatID:              chatID,
		Enabled:             true,
		Timezone:            r.defaultTZ,
		DailyResetTime:      domain.DefaultDailyResetTime,
		DailyTaskCutoffTime: domain.DefaultDailyTaskCutoffTime,
		CreatedAt:           time.Now().UTC(),
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

// shortClock renders a stored HH:MM:SS time-of-day as HH:MM.
func shortClock(s string) string {
	mins, err := domain.ParseTimeToMinutes(s)
	if err != nil {
		return s
	}
	return domain.MinutesToTimeString(mins)
}

// localClock formats a UTC instant as HH:MM in the user's timezone.
func localClock(t time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("15:04")
}

// --- Core commands ---

func (r *Router) handleStart(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, "Profile initialization error. Please try again later.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, startText)
	msg.ReplyMarkup = mainMenuKeyboard(u.Enabled)
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleList(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, "Error reading your settings.")
		return
	}
	tasks, err := r.repo.ListTasks(ctx, chatID)
	if err != nil {
		r.log.Error("ListTasks failed", zap.Error(err))
		r.sendText(chatID, "Error reading your tasks.")
		return
	}
	if len(tasks) == 0 {
		r.sendText(chatID, listEmptyText)
		return
	}

	now := time.Now().UTC()
	uc := u.Context(now)
	dayStart := domain.LogicalDayStart(uc)

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 %s (day starts %s, %s)\n\n",
		uc.CurrentLogicalDate, shortClock(uc.DailyResetTime), uc.Timezone)
	for i := range tasks {
		t := &tasks[i]
		done := r.completedToday(ctx, t.ID, dayStart)
		status := t.Evaluate(uc, now, done)
		fmt.Fprintf(&b, "%s %s — %s–%s (%s)",
			statusIcon[string(status)], t.Name, t.Window.Start, t.Window.End, status)
		if t.DueDate != "" {
			fmt.Fprintf(&b, " · due: %s", dueLabel(domain.LogicalDayDifference(t.DueDate, uc)))
		}
		b.WriteString("\n")
	}
	r.sendText(chatID, b.String())
}

func (r *Router) completedToday(ctx context.Context, taskID string, dayStart time.Time) bool {
	_, err := r.repo.LatestCompletionSince(ctx, taskID, dayStart)
	return err == nil
}

func (r *Router) handleAdd(ctx context.Context, chatID int64, args string) {
	if _, err := r.ensureUser(ctx, chatID); err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, "Error reading your settings.")
		return
	}
	fields := strings.Fields(args)
	if len(fields) < 2 {
		r.sendText(chatID, "Usage: /add <name> <HH:MM-HH:MM>, e.g. /add meds 08:00-10:00")
		return
	}
	window, err := domain.ParseWindowSpec(fields[len(fields)-1])
	if err != nil {
		r.sendText(chatID, "Invalid window. Example: 08:00-10:00 (it may cross midnight: 22:00-02:00).")
		return
	}
	name := strings.Join(fields[:len(fields)-1], " ")

	task := &domain.Task{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Name:      name,
		Window:    window,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.repo.CreateTask(ctx, task); err != nil {
		r.log.Error("CreateTask failed", zap.Error(err), zap.String("task", name))
		r.sendText(chatID, "Could not add the task (is the name already taken?).")
		return
	}
	r.sendText(chatID, fmt.Sprintf("Added %q with window %s–%s.", name, window.Start, window.End))
}

func (r *Router) handleDone(ctx context.Context, chatID int64, args string) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, "Error reading your settings.")
		return
	}
	name := strings.TrimSpace(args)
	if name == "" {
		r.sendText(chatID, "Usage: /done <name>")
		return
	}
	task, err := r.repo.GetTaskByName(ctx, chatID, name)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, fmt.Sprintf("No task named %q. See /list.", name))
		return
	}
	if err != nil {
		r.log.Error("GetTaskByName failed", zap.Error(err))
		r.sendText(chatID, "Error looking up the task.")
		return
	}

	now := time.Now().UTC()
	uc := u.Context(now)

	// Inside the window the completion moment is now; outside it the true
	// moment is unknowable and the window midpoint is recorded instead.
	completedAt := now
	note := fmt.Sprintf("Done: %s ✅", task.Name)
	if ts := domain.CompletionTimestamp(task.Window, uc, now); ts != nil {
		completedAt = *ts
		note = fmt.Sprintf("Done: %s ✅ (logged at %s, the window midpoint)",
			task.Name, localClock(completedAt, uc.Timezone))
	}

	c := &domain.Completion{
		ID:          uuid.NewString(),
		TaskID:      task.ID,
		CompletedAt: completedAt,
		RecordedAt:  now,
	}
	if err := r.repo.AddCompletion(ctx, c); err != nil {
		r.log.Error("AddCompletion failed", zap.Error(err), zap.String("task", task.Name))
		r.sendText(chatID, "Could not record the completion.")
		return
	}
	r.sendText(chatID, note)
}

func (r *Router) handleDue(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		r.sendText(chatID, "Usage: /due <name> <YYYY-MM-DD>")
		return
	}
	dateStr := fields[len(fields)-1]
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		r.sendText(chatID, "Invalid date. Example: 2026-01-31")
		return
	}
	name := strings.Join(fields[:len(fields)-1], " ")
	task, err := r.repo.GetTaskByName(ctx, chatID, name)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, fmt.Sprintf("No task named %q. See /list.", name))
		return
	}
	if err != nil {
		r.log.Error("GetTaskByName failed", zap.Error(err))
		r.sendText(chatID, "Error looking up the task.")
		return
	}
	if err := r.repo.SetTaskDueDate(ctx, task.ID, dateStr); err != nil {
		r.log.Error("SetTaskDueDate failed", zap.Error(err))
		r.sendText(chatID, "Could not save the due date.")
		return
	}
	r.sendText(chatID, fmt.Sprintf("Due date for %q set to %s.", name, dateStr))
}

func (r *Router) handleRemove(ctx context.Context, chatID int64, args string) {
	name := strings.TrimSpace(args)
	if name == "" {
		r.sendText(chatID, "Usage: /remove <name>")
		return
	}
	task, err := r.repo.GetTaskByName(ctx, chatID, name)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, fmt.Sprintf("No task named %q.", name))
		return
	}
	if err != nil {
		r.log.Error("GetTaskByName failed", zap.Error(err))
		r.sendText(chatID, "Error looking up the task.")
		return
	}
	if err := r.repo.DeleteTask(ctx, task.ID); err != nil {
		r.log.Error("DeleteTask failed", zap.Error(err))
		r.sendText(chatID, "Could not remove the task.")
		return
	}
	r.sendText(chatID, fmt.Sprintf("Removed %q.", name))
}

func (r *Router) handleSettings(ctx context.Context, chatID int64) {
	u, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, "Error opening settings.")
		return
	}
	body := fmt.Sprintf("🧾 Current settings:\n• Timezone: %s\n• Daily reset: %s\n• Evening cutoff: %s\n\nWhat do you want to change?",
		u.Timezone, u.DailyResetTime, u.DailyTaskCutoffTime)
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ReplyMarkup = settingsInlineKeyboard()
	_, _ = r.bot.Send(msg)
}

// --- Free-form dispatcher (for all "Custom…" inputs) ---

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	switch r.getPending(chatID) {
	case pendingTZ:
		r.clearPending(chatID)
		tz, err := domain.ValidateTZ(text)
		if err != nil {
			r.sendText(chatID, "Invalid timezone. Example: America/New_York")
			return
		}
		r.updateTZ(ctx, chatID, tz)

	case pendingReset:
		r.clearPending(chatID)
		reset, err := domain.NormalizeTimeOfDay(text)
		if err != nil {
			r.sendText(chatID, "Invalid time. Example: 04:00")
			return
		}
		r.updateReset(ctx, chatID, reset)

	case pendingCutoff:
		r.clearPending(chatID)
		cutoff, err := domain.NormalizeTimeOfDay(text)
		if err != nil {
			r.sendText(chatID, "Invalid time. Example: 20:00")
			return
		}
		r.updateCutoff(ctx, chatID, cutoff)

	default:
		// No pending flow: ignore free-form message
	}
}

// --- Timezone flow ---

func (r *Router) askTZPresets(ctx context.Context, chatID int64, cbID string) {
	_ = r.answerCallback(cbID, "")
	msg := tgbotapi.NewMessage(chatID, "Choose a timezone or enter your own (Region/City):")
	msg.ReplyMarkup = tzPresetsKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleTZCallback(ctx context.Context, chatID int64, data string, cbID string) {
	_ = r.answerCallback(cbID, "")
	if data == "tz:custom" {
		r.sendText(chatID, "Enter timezone (e.g., America/New_York):")
		r.setPending(chatID, pendingTZ)
		return
	}
	tz, err := domain.ValidateTZ(strings.TrimPrefix(data, "tz:"))
	if err != nil {
		r.sendText(chatID, "Invalid timezone. Example: America/New_York")
		return
	}
	r.updateTZ(ctx, chatID, tz)
}

func (r *Router) updateTZ(ctx context.Context, chatID int64, tz string) {
	u, err := r.ensureUser(ctx, chatID)
	if err == nil {
		u.Timezone = tz
		err = r.repo.UpsertUser(ctx, u)
	}
	if err != nil {
		r.log.Error("updateTZ failed", zap.Error(err))
		r.sendText(chatID, "Could not save timezone.")
		return
	}
	r.sendText(chatID, "Timezone updated: "+tz)
}

// --- Daily reset flow ---

func (r *Router) askResetPresets(ctx context.Context, chatID int64, cbID string) {
	_ = r.answerCallback(cbID, "")
	msg := tgbotapi.NewMessage(chatID,
		"When does your day start? Tasks before this time count toward the previous day.")
	msg.ReplyMarkup = resetPresetsKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleResetCallback(ctx context.Context, chatID int64, data string, cbID string) {
	_ = r.answerCallback(cbID, "")
	if data == "reset:custom" {
		r.sendText(chatID, "Enter the daily reset time as HH:MM (e.g., 04:00):")
		r.setPending(chatID, pendingReset)
		return
	}
	reset, err := domain.NormalizeTimeOfDay(strings.TrimPrefix(data, "reset:"))
	if err != nil {
		r.sendText(chatID, "Invalid time. Example: 04:00")
		return
	}
	r.updateReset(ctx, chatID, reset)
}

func (r *Router) updateReset(ctx context.Context, chatID int64, reset string) {
	u, err := r.ensureUser(ctx, chatID)
	if err == nil {
		u.DailyResetTime = reset
		err = r.repo.UpsertUser(ctx, u)
	}
	if err != nil {
		r.log.Error("updateReset failed", zap.Error(err))
		r.sendText(chatID, "Could not save the reset time.")
		return
	}
	r.sendText(chatID, "Daily reset updated: "+reset)
}

// --- Cutoff flow ---

func (r *Router) askCutoffPresets(ctx context.Context, chatID int64, cbID string) {
	_ = r.answerCallback(cbID, "")
	msg := tgbotapi.NewMessage(chatID,
		"When should I summarize what's still open for the day?")
	msg.ReplyMarkup = cutoffPresetsKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleCutoffCallback(ctx context.Context, chatID int64, data string, cbID string) {
	_ = r.answerCallback(cbID, "")
	if data == "cutoff:custom" {
		r.sendText(chatID, "Enter the cutoff time as HH:MM (e.g., 20:00):")
		r.setPending(chatID, pendingCutoff)
		return
	}
	cutoff, err := domain.NormalizeTimeOfDay(strings.TrimPrefix(data, "cutoff:"))
	if err != nil {
		r.sendText(chatID, "Invalid time. Example: 20:00")
		return
	}
	r.updateCutoff(ctx, chatID, cutoff)
}

func (r *Router) updateCutoff(ctx context.Context, chatID int64, cutoff string) {
	u, err := r.ensureUser(ctx, chatID)
	if err == nil {
		u.DailyTaskCutoffTime = cutoff
		err = r.repo.UpsertUser(ctx, u)
	}
	if err != nil {
		r.log.Error("updateCutoff failed", zap.Error(err))
		r.sendText(chatID, "Could not save the cutoff time.")
		return
	}
	r.sendText(chatID, "Evening cutoff updated: "+cutoff)
}

// --- Pause / Resume ---

func (r *Router) handlePause(ctx context.Context, chatID int64) {
	if err := r.repo.SetEnabled(ctx, chatID, false); err != nil {
		r.log.Error("pause failed", zap.Error(err))
		r.sendText(chatID, "Failed to pause.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Reminders paused ⏸")
	msg.ReplyMarkup = mainMenuKeyboard(false)
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleResume(ctx context.Context, chatID int64) {
	if err := r.repo.SetEnabled(ctx, chatID, true); err != nil {
		r.log.Error("resume failed", zap.Error(err))
		r.sendText(chatID, "Failed to resume.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Reminders resumed ✅")
	msg.ReplyMarkup = mainMenuKeyboard(true)
	_, _ = r.bot.Send(msg)
}
