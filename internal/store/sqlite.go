package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/gabrielhurley/tasktracker-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// --- users ---

// UpsertUser inserts or updates a user's settings. If the chat_id exists,
// settings are updated; otherwise a new row is inserted.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}

	created := u.CreatedAt.UTC().Unix()
	if u.CreatedAt.IsZero() {
		created = time.Now().UTC().Unix()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			chat_id, created_at, enabled, timezone,
			daily_reset_time, daily_cutoff_time, last_cutoff_nag_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			enabled            = excluded.enabled,
			timezone           = excluded.timezone,
			daily_reset_time   = excluded.daily_reset_time,
			daily_cutoff_time  = excluded.daily_cutoff_time,
			last_cutoff_nag_at = excluded.last_cutoff_nag_at`,
		u.ChatID, created, boolToInt(u.Enabled), u.Timezone,
		u.DailyResetTime, u.DailyTaskCutoffTime, toNullInt64(u.LastCutoffNagAt),
	)
	return err
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var (
		chatID     int64
		createdAt  int64
		enabledInt int
		tz         string
		resetTime  string
		cutoffTime string
		nagNS      sql.NullInt64
	)
	if err := row.Scan(&chatID, &createdAt, &enabledInt, &tz, &resetTime, &cutoffTime, &nagNS); err != nil {
		return nil, err
	}
	return &domain.User{
		ChatID:              chatID,
		Enabled:             enabledInt != 0,
		Timezone:            tz,
		DailyResetTime:      resetTime,
		DailyTaskCutoffTime: cutoffTime,
		LastCutoffNagAt:     fromNullInt64(nagNS),
		CreatedAt:           time.Unix(createdAt, 0).UTC(),
	}, nil
}

const userColumns = `chat_id, created_at, enabled, timezone,
	daily_reset_time, daily_cutoff_time, last_cutoff_nag_at`

// GetUser returns a user's settings by chatID or ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, chatID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE chat_id = ?`, chatID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// ListEnabledUsers returns all users with reminders enabled.
func (r *SQLiteRepo) ListEnabledUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE enabled = 1 ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, rows.Err()
}

// SetEnabled toggles the enabled flag for a user.
func (r *SQLiteRepo) SetEnabled(ctx context.Context, chatID int64, enabled bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET enabled = ? WHERE chat_id = ?`,
		boolToInt(enabled), chatID,
	)
	return err
}

// SetCutoffNagged stamps the last end-of-day summary instant for a user.
func (r *SQLiteRepo) SetCutoffNagged(ctx context.Context, chatID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_cutoff_nag_at = ? WHERE chat_id = ?`,
		at.UTC().Unix(), chatID,
	)
	return err
}

// --- tasks ---

// CreateTask inserts a new task. The (chat_id, name) pair is unique.
func (r *SQLiteRepo) CreateTask(ctx context.Context, t *domain.Task) error {
	if t == nil {
		return errors.New("nil task")
	}
	created := t.CreatedAt.UTC().Unix()
	if t.CreatedAt.IsZero() {
		created = time.Now().UTC().Unix()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, chat_id, name, window_start, window_end,
			due_date, last_notified_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ChatID, t.Name, t.Window.Start, t.Window.End,
		t.DueDate, toNullInt64(t.LastNotifiedAt), created,
	)
	return err
}

func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	var (
		id          string
		chatID      int64
		name        string
		windowStart string
		windowEnd   string
		dueDate     string
		notifiedNS  sql.NullInt64
		createdAt   int64
	)
	if err := row.Scan(&id, &chatID, &name, &windowStart, &windowEnd, &dueDate, &notifiedNS, &createdAt); err != nil {
		return nil, err
	}
	return &domain.Task{
		ID:             id,
		ChatID:         chatID,
		Name:           name,
		Window:         domain.TimeWindow{Start: windowStart, End: windowEnd},
		DueDate:        dueDate,
		LastNotifiedAt: fromNullInt64(notifiedNS),
		CreatedAt:      time.Unix(createdAt, 0).UTC(),
	}, nil
}

const taskColumns = `id, chat_id, name, window_start, window_end,
	due_date, last_notified_at, created_at`

// GetTaskByName returns a chat's task by its name or ErrNotFound.
func (r *SQLiteRepo) GetTaskByName(ctx context.Context, chatID int64, name string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE chat_id = ? AND name = ?`,
		chatID, name)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTasks returns a chat's tasks ordered by window start.
func (r *SQLiteRepo) ListTasks(ctx context.Context, chatID int64) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE chat_id = ? ORDER BY window_start, name`,
		chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *t)
	}
	return res, rows.Err()
}

// DeleteTask removes a task and, via the foreign key, its completions.
func (r *SQLiteRepo) DeleteTask(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// SetTaskDueDate updates a task's due date (empty string clears it).
func (r *SQLiteRepo) SetTaskDueDate(ctx context.Context, id, dueDate string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET due_date = ? WHERE id = ?`, dueDate, id)
	return err
}

// SetTaskNotified stamps the last reminder instant for a task.
func (r *SQLiteRepo) SetTaskNotified(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET last_notified_at = ? WHERE id = ?`,
		at.UTC().Unix(), id)
	return err
}

// --- completions ---

// AddCompletion records a completion for a task.
func (r *SQLiteRepo) AddCompletion(ctx context.Context, c *domain.Completion) error {
	if c == nil {
		return errors.New("nil completion")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completions (id, task_id, completed_at, recorded_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.TaskID, c.CompletedAt.UTC().Unix(), c.RecordedAt.UTC().Unix(),
	)
	return err
}

// LatestCompletionSince returns the most recent completion of a task with
// completed_at at or after since, or ErrNotFound. Callers pass the logical
// day start to ask "was this done today?".
func (r *SQLiteRepo) LatestCompletionSince(ctx context.Context, taskID string, since time.Time) (*domain.Completion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, task_id, completed_at, recorded_at
		FROM completions
		WHERE task_id = ? AND completed_at >= ?
		ORDER BY completed_at DESC
		LIMIT 1`,
		taskID, since.UTC().Unix(),
	)

	var (
		id          string
		tid         string
		completedAt int64
		recordedAt  int64
	)
	if err := row.Scan(&id, &tid, &completedAt, &recordedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &domain.Completion{
		ID:          id,
		TaskID:      tid,
		CompletedAt: time.Unix(completedAt, 0).UTC(),
		RecordedAt:  time.Unix(recordedAt, 0).UTC(),
	}, nil
}
