package store

import (
	"context"
	"errors"
	"time"

	"github.com/gabrielhurley/tasktracker-bot/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repo defines storage operations for users, tasks and completions.
type Repo interface {
	UpsertUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, chatID int64) (*domain.User, error)
	ListEnabledUsers(ctx context.Context) ([]domain.User, error)
	SetEnabled(ctx context.Context, chatID int64, enabled bool) error
	SetCutoffNagged(ctx context.Context, chatID int64, at time.Time) error

	CreateTask(ctx context.Context, t *domain.Task) error
	GetTaskByName(ctx context.Context, chatID int64, name string) (*domain.Task, error)
	ListTasks(ctx context.Context, chatID int64) ([]domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	SetTaskDueDate(ctx context.Context, id, dueDate string) error
	SetTaskNotified(ctx context.Context, id string, at time.Time) error

	AddCompletion(ctx context.Context, c *domain.Completion) error
	LatestCompletionSince(ctx context.Context, taskID string, since time.Time) (*domain.Completion, error)

	Close() error
}
