package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/gabrielhurley/tasktracker-bot/internal/store"
)

// Pending state keys used in conversational flows.
const (
	pendingTZ     = "await_tz_text"
	pendingReset  = "await_reset_text"
	pendingCutoff = "await_cutoff_text"
)

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot       *tgbotapi.BotAPI
	log       *zap.Logger
	repo      store.Repo
	defaultTZ string
	state     map[int64]string // chatID -> pending state
	mu        sync.RWMutex
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, defaultTZ string) *Router {
	return &Router{
		bot:       bot,
		log:       log,
		repo:      repo,
		defaultTZ: defaultTZ,
		state:     make(map[int64]string),
	}
}

// setPending sets a pending state for a chat (non-persistent, in-memory).
func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

// getPending returns current pending state for a chat.
func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

// clearPending clears a pending state for a chat.
func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	// Text messages
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		cmd, args := splitCommand(text)
		switch cmd {
		case "/start":
			r.handleStart(ctx, chatID)
		case "/list":
			r.handleList(ctx, chatID)
		case "/add":
			r.handleAdd(ctx, chatID, args)
		case "/done":
			r.handleDone(ctx, chatID, args)
		case "/due":
			r.handleDue(ctx, chatID, args)
		case "/remove":
			r.handleRemove(ctx, chatID, args)
		case "/settings":
			r.handleSettings(ctx, chatID)
		case "/pause":
			r.handlePause(ctx, chatID)
		case "/resume":
			r.handleResume(ctx, chatID)
		default:
			// Free-form text used in "Custom…" flows (tz/reset/cutoff)
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	// Callback queries (inline buttons)
	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		data := cb.Data
		chatID := cb.Message.Chat.ID

		switch {
		case data == "set_tz":
			r.askTZPresets(ctx, chatID, cb.ID)
		case strings.HasPrefix(data, "tz:"):
			r.handleTZCallback(ctx, chatID, data, cb.ID)

		case data == "set_reset":
			r.askResetPresets(ctx, chatID, cb.ID)
		case strings.HasPrefix(data, "reset:"):
			r.handleResetCallback(ctx, chatID, data, cb.ID)

		case data == "set_cutoff":
			r.askCutoffPresets(ctx, chatID, cb.ID)
		case strings.HasPrefix(data, "cutoff:"):
			r.handleCutoffCallback(ctx, chatID, data, cb.ID)

		default:
			// Unknown callback — ignore silently
		}
		return
	}
}

// splitCommand separates "/cmd rest of line" into its command and argument
// string. Non-command text yields an empty command.
func splitCommand(text string) (cmd, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	cmd = parts[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return cmd, args
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
