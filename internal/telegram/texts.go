package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UI texts in English
const (
	startText = "👋 I track your recurring self-care tasks.\n\n" +
		"Each task has a daily time window; I remind you when it opens and " +
		"nag you once in the evening about anything still open.\n\n" +
		"• /add <name> <HH:MM-HH:MM> — add a task\n" +
		"• /done <name> — mark it complete\n" +
		"• /due <name> <YYYY-MM-DD> — set a deadline\n" +
		"• /remove <name> — delete a task\n" +
		"• /list — today's status\n" +
		"• /settings — timezone, daily reset, evening cutoff"

	listEmptyText = "No tasks yet. Add one with /add <name> <HH:MM-HH:MM>."
)

// statusIcon maps a task status to its list marker.
var statusIcon = map[string]string{
	"done":     "✅",
	"active":   "🟢",
	"upcoming": "⏳",
	"missed":   "❌",
}

// dueLabel renders a signed logical-day difference as the labels the list
// view shows next to a deadline.
func dueLabel(diff int) string {
	switch {
	case diff > 1:
		return fmt.Sprintf("%d days overdue", diff)
	case diff == 1:
		return "1 day overdue"
	case diff == 0:
		return "Today"
	case diff == -1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", -diff)
	}
}

// mainMenuKeyboard builds a reply keyboard with a single toggle button:
// if enabled is true -> "/pause", else -> "/resume".
func mainMenuKeyboard(enabled bool) tgbotapi.ReplyKeyboardMarkup {
	toggle := "/pause"
	if !enabled {
		toggle = "/resume"
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/list"),
			tgbotapi.NewKeyboardButton("/settings"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(toggle),
		),
	)
}

// Inline keyboards
func settingsInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Timezone", "set_tz"),
			tgbotapi.NewInlineKeyboardButtonData("🌅 Daily reset", "set_reset"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌙 Evening cutoff", "set_cutoff"),
		),
	)
}

func tzPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("UTC", "tz:UTC"),
			tgbotapi.NewInlineKeyboardButtonData("America/New_York", "tz:America/New_York"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("America/Los_Angeles", "tz:America/Los_Angeles"),
			tgbotapi.NewInlineKeyboardButtonData("Europe/London", "tz:Europe/London"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Custom…", "tz:custom"),
		),
	)
}

func resetPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("00:00", "reset:00:00"),
			tgbotapi.NewInlineKeyboardButtonData("04:00", "reset:04:00"),
			tgbotapi.NewInlineKeyboardButtonData("05:00", "reset:05:00"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Custom…", "reset:custom"),
		),
	)
}

func cutoffPresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("18:00", "cutoff:18:00"),
			tgbotapi.NewInlineKeyboardButtonData("20:00", "cutoff:20:00"),
			tgbotapi.NewInlineKeyboardButtonData("22:00", "cutoff:22:00"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Custom…", "cutoff:custom"),
		),
	)
}
