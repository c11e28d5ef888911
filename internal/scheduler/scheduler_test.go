package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gabrielhurley/tasktracker-bot/internal/domain"
	"github.com/gabrielhurley/tasktracker-bot/internal/store"
)

// fakeRepo is an in-memory store.Repo for scheduler tests.
type fakeRepo struct {
	users       map[int64]*domain.User
	tasks       map[string]*domain.Task
	completions []domain.Completion
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[int64]*domain.User),
		tasks: make(map[string]*domain.Task),
	}
}

func (f *fakeRepo) UpsertUser(_ context.Context, u *domain.User) error {
	cp := *u
	f.users[u.ChatID] = &cp
	return nil
}

func (f *fakeRepo) GetUser(_ context.Context, chatID int64) (*domain.User, error) {
	u, ok := f.users[chatID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) ListEnabledUsers(context.Context) ([]domain.User, error) {
	var res []domain.User
	for _, u := range f.users {
		if u.Enabled {
			res = append(res, *u)
		}
	}
	return res, nil
}

func (f *fakeRepo) SetEnabled(_ context.Context, chatID int64, enabled bool) error {
	f.users[chatID].Enabled = enabled
	return nil
}

func (f *fakeRepo) SetCutoffNagged(_ context.Context, chatID int64, at time.Time) error {
	t := at
	f.users[chatID].LastCutoffNagAt = &t
	return nil
}

func (f *fakeRepo) CreateTask(_ context.Context, t *domain.Task) error {
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetTaskByName(_ context.Context, chatID int64, name string) (*domain.Task, error) {
	for _, t := range f.tasks {
		if t.ChatID == chatID && t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRepo) ListTasks(_ context.Context, chatID int64) ([]domain.Task, error) {
	var res []domain.Task
	for _, t := range f.tasks {
		if t.ChatID == chatID {
			res = append(res, *t)
		}
	}
	return res, nil
}

func (f *fakeRepo) DeleteTask(_ context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeRepo) SetTaskDueDate(_ context.Context, id, dueDate string) error {
	f.tasks[id].DueDate = dueDate
	return nil
}

func (f *fakeRepo) SetTaskNotified(_ context.Context, id string, at time.Time) error {
	t := at
	f.tasks[id].LastNotifiedAt = &t
	return nil
}

func (f *fakeRepo) AddCompletion(_ context.Context, c *domain.Completion) error {
	f.completions = append(f.completions, *c)
	return nil
}

func (f *fakeRepo) LatestCompletionSince(_ context.Context, taskID string, since time.Time) (*domain.Completion, error) {
	for i := len(f.completions) - 1; i >= 0; i-- {
		c := f.completions[i]
		if c.TaskID == taskID && !c.CompletedAt.Before(since) {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRepo) Close() error { return nil }

// recorder collects sent messages.
type recorder struct {
	sent []string
}

func (r *recorder) SendMessage(_ int64, text string) error {
	r.sent = append(r.sent, text)
	return nil
}

func fixture(t *testing.T) (*fakeRepo, *recorder, *Scheduler) {
	t.Helper()
	repo := newFakeRepo()
	rec := &recorder{}
	s := New(repo, zap.NewNop(), rec, 30*time.Second)

	_ = repo.UpsertUser(context.Background(), &domain.User{
		ChatID:              1,
		Enabled:             true,
		Timezone:            "UTC",
		DailyResetTime:      "00:00:00",
		DailyTaskCutoffTime: "20:00:00",
		CreatedAt:           time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	_ = repo.CreateTask(context.Background(), &domain.Task{
		ID:     "t1",
		ChatID: 1,
		Name:   "meds",
		Window: domain.TimeWindow{Start: "09:00", End: "17:00"},
	})
	return repo, rec, s
}

func TestTickSendsOneReminderPerDay(t *testing.T) {
	repo, rec, s := fixture(t)
	ctx := context.Background()

	now := time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)
	s.tick(ctx, now)
	if len(rec.sent) != 1 || !strings.Contains(rec.sent[0], "meds") {
		t.Fatalf("want one reminder about meds, got %v", rec.sent)
	}
	if repo.tasks["t1"].LastNotifiedAt == nil {
		t.Fatal("reminder not stamped on the task")
	}

	// Later the same logical day: no duplicate.
	s.tick(ctx, now.Add(2*time.Hour))
	if len(rec.sent) != 1 {
		t.Fatalf("duplicate reminder sent: %v", rec.sent)
	}

	// Next logical day inside the window: reminded again.
	s.tick(ctx, now.Add(24*time.Hour))
	if len(rec.sent) != 2 {
		t.Fatalf("want a fresh reminder on the next day, got %v", rec.sent)
	}
}

func TestTickSkipsOutsideWindowAndCompleted(t *testing.T) {
	repo, rec, s := fixture(t)
	ctx := context.Background()

	// Before the window opens: nothing.
	s.tick(ctx, time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC))
	if len(rec.sent) != 0 {
		t.Fatalf("sent outside the window: %v", rec.sent)
	}

	// Completed inside the current logical day: nothing either.
	_ = repo.AddCompletion(ctx, &domain.Completion{
		ID:          "c1",
		TaskID:      "t1",
		CompletedAt: time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC),
		RecordedAt:  time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC),
	})
	s.tick(ctx, time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC))
	if len(rec.sent) != 0 {
		t.Fatalf("reminded about a completed task: %v", rec.sent)
	}
}

func TestTickCutoffSummaryOncePerDay(t *testing.T) {
	repo, rec, s := fixture(t)
	ctx := context.Background()

	// 21:00 is past the 20:00 cutoff and past the window, so the only send
	// should be the end-of-day summary.
	evening := time.Date(2025, time.June, 10, 21, 0, 0, 0, time.UTC)
	s.tick(ctx, evening)
	if len(rec.sent) != 1 || !strings.Contains(rec.sent[0], "Still open") {
		t.Fatalf("want one cutoff summary, got %v", rec.sent)
	}
	if repo.users[1].LastCutoffNagAt == nil {
		t.Fatal("cutoff nag not stamped on the user")
	}

	s.tick(ctx, evening.Add(30*time.Minute))
	if len(rec.sent) != 1 {
		t.Fatalf("duplicate cutoff summary: %v", rec.sent)
	}
}

func TestTickNoCutoffWhenAllDone(t *testing.T) {
	repo, rec, s := fixture(t)
	ctx := context.Background()

	_ = repo.AddCompletion(ctx, &domain.Completion{
		ID:          "c1",
		TaskID:      "t1",
		CompletedAt: time.Date(2025, time.June, 10, 13, 0, 0, 0, time.UTC),
		RecordedAt:  time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC),
	})
	s.tick(ctx, time.Date(2025, time.June, 10, 21, 0, 0, 0, time.UTC))
	if len(rec.sent) != 0 {
		t.Fatalf("cutoff summary sent with nothing open: %v", rec.sent)
	}
}
