package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gabrielhurley/tasktracker-bot/internal/domain"
	"github.com/gabrielhurley/tasktracker-bot/internal/store"
)

// Sender is a minimal interface the scheduler needs to send a text message.
// telegram.Router implements this.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler periodically polls the store and dispatches window reminders and
// end-of-day summaries.
type Scheduler struct {
	repo     store.Repo
	log      *zap.Logger
	sender   Sender
	interval time.Duration
	now      func() time.Time
}

// New creates a new Scheduler polling at the given interval.
func New(repo store.Repo, log *zap.Logger, sender Sender, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		repo:     repo,
		log:      log,
		sender:   sender,
		interval: interval,
		now:      time.Now,
	}
}

// Run starts the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx, s.now().UTC())
		}
	}
}

// tick performs one cycle: for every enabled user, remind about tasks whose
// window just became active and, past the daily cutoff, summarize what is
// still open.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	users, err := s.repo.ListEnabledUsers(ctx)
	if err != nil {
		s.log.Error("ListEnabledUsers failed", zap.Error(err))
		return
	}

	for i := range users {
		u := &users[i]
		uc := u.Context(now)
		dayStart := domain.LogicalDayStart(uc)

		tasks, err := s.repo.ListTasks(ctx, u.ChatID)
		if err != nil {
			s.log.Error("ListTasks failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
			continue
		}

		var incomplete []domain.Task
		for j := range tasks {
			task := &tasks[j]
			done, err := s.completedToday(ctx, task.ID, dayStart)
			if err != nil {
				s.log.Error("completion lookup failed", zap.Error(err), zap.String("task", task.Name))
				continue
			}
			if !done {
				incomplete = append(incomplete, *task)
			}
			if done || !domain.IsCurrentTimeInWindow(task.Window, uc, now) {
				continue
			}
			// One reminder per task per logical day.
			if task.LastNotifiedAt != nil && !task.LastNotifiedAt.Before(dayStart) {
				continue
			}
			text := fmt.Sprintf("⏰ %s — the %s–%s window is open. Send /done %s when finished.",
				task.Name, task.Window.Start, task.Window.End, task.Name)
			if err := s.sender.SendMessage(u.ChatID, text); err != nil {
				s.log.Error("reminder send failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
				continue
			}
			if err := s.repo.SetTaskNotified(ctx, task.ID, now); err != nil {
				s.log.Error("SetTaskNotified failed", zap.Error(err), zap.String("task", task.Name))
			}
		}

		s.maybeCutoffNag(ctx, u, uc, now, dayStart, incomplete)
	}
}

func (s *Scheduler) completedToday(ctx context.Context, taskID string, dayStart time.Time) (bool, error) {
	_, err := s.repo.LatestCompletionSince(ctx, taskID, dayStart)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// maybeCutoffNag sends at most one end-of-day summary per logical day once
// the clock passes daily_task_cutoff_time.
func (s *Scheduler) maybeCutoffNag(ctx context.Context, u *domain.User, uc domain.UserContext, now, dayStart time.Time, incomplete []domain.Task) {
	if len(incomplete) == 0 {
		return
	}
	if !cutoffReached(uc, now, dayStart) {
		return
	}
	if u.LastCutoffNagAt != nil && !u.LastCutoffNagAt.Before(dayStart) {
		return
	}

	names := make([]string, 0, len(incomplete))
	for _, t := range incomplete {
		names = append(names, "• "+t.Name)
	}
	text := "🌙 Still open today:\n" + strings.Join(names, "\n")
	if err := s.sender.SendMessage(u.ChatID, text); err != nil {
		s.log.Error("cutoff summary send failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
		return
	}
	if err := s.repo.SetCutoffNagged(ctx, u.ChatID, now); err != nil {
		s.log.Error("SetCutoffNagged failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
	}
}

// cutoffReached reprojects the cutoff time onto the logical-day timeline,
// the same shift the window evaluator applies. An unparsable cutoff never
// fires.
func cutoffReached(uc domain.UserContext, now, dayStart time.Time) bool {
	cutoffM, err := domain.ParseTimeToMinutes(uc.DailyTaskCutoffTime)
	if err != nil {
		return false
	}
	resetM, err := domain.ParseTimeToMinutes(uc.DailyResetTime)
	if err != nil {
		resetM = 0
	}
	adj := cutoffM - resetM
	if adj < 0 {
		adj += 24 * 60
	}
	offset := int(now.Sub(dayStart) / time.Minute)
	return offset >= adj && offset < 24*60
}
