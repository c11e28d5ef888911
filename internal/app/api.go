package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gabrielhurley/tasktracker-bot/internal/domain"
	"github.com/gabrielhurley/tasktracker-bot/internal/store"
)

// taskView is the JSON shape of one task's state on the current logical day.
type taskView struct {
	Name           string            `json:"name"`
	Window         domain.TimeWindow `json:"window"`
	Status         string            `json:"status"`
	DueDate        string            `json:"due_date,omitempty"`
	DaysOverdue    int               `json:"days_overdue"`
	CompletedToday bool              `json:"completed_today"`
}

func (a *App) chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(r.URL.Query().Get("chat_id"), 10, 64)
	if err != nil {
		http.Error(w, "chat_id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return chatID, true
}

func (a *App) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warn("json encode failed", zap.Error(err))
	}
}

// handleContext returns a chat's resolved UserContext.
func (a *App) handleContext(w http.ResponseWriter, r *http.Request) {
	chatID, ok := a.chatIDParam(w, r)
	if !ok {
		return
	}
	u, err := a.repo.GetUser(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "unknown chat_id", http.StatusNotFound)
		return
	}
	if err != nil {
		a.log.Error("GetUser failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	a.writeJSON(w, u.Context(time.Now().UTC()))
}

// handleTasks returns a chat's tasks evaluated against the current instant.
func (a *App) handleTasks(w http.ResponseWriter, r *http.Request) {
	chatID, ok := a.chatIDParam(w, r)
	if !ok {
		return
	}
	u, err := a.repo.GetUser(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "unknown chat_id", http.StatusNotFound)
		return
	}
	if err != nil {
		a.log.Error("GetUser failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	tasks, err := a.repo.ListTasks(r.Context(), chatID)
	if err != nil {
		a.log.Error("ListTasks failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	uc := u.Context(now)
	dayStart := domain.LogicalDayStart(uc)

	views := make([]taskView, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		_, err := a.repo.LatestCompletionSince(r.Context(), t.ID, dayStart)
		done := err == nil
		views = append(views, taskView{
			Name:           t.Name,
			Window:         t.Window,
			Status:         string(t.Evaluate(uc, now, done)),
			DueDate:        t.DueDate,
			DaysOverdue:    domain.DaysOverdue(t.DueDate, uc),
			CompletedToday: done,
		})
	}
	a.writeJSON(w, views)
}
