// internal/telegram/announcer.go
package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/commentwatch/internal/types"
)

const maxTelegramMessage = 4096

// maxEventRunes caps how much of a comment is quoted per announcement.
const maxEventRunes = 280

// Announcer posts newly extracted events to a Telegram chat.
type Announcer struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New creates a Telegram announcer for the given bot token and chat.
func New(token string, chatID int64) (*Announcer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Announcer{bot: bot, chatID: chatID}, nil
}

// Announce sends one message per 4096-character chunk describing the
// events a scan added. Runs that found nothing new are not announced.
func (a *Announcer) Announce(report *types.ScanReport) error {
	if len(report.NewEvents) == 0 {
		return nil
	}
	text := formatReport(report)
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(a.chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				return fmt.Errorf("send announcement: %w", err)
			}
		}
	}
	return nil
}

func formatReport(r *types.ScanReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d new event announcements*\n", len(r.NewEvents))
	for i, ev := range r.NewEvents {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, truncateText(ev.Text, maxEventRunes))
		fmt.Fprintf(&b, "   %s, %s\n", ev.Author, ev.PublishedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "\nStore: %d events", r.StoreSize)
	return b.String()
}

func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
