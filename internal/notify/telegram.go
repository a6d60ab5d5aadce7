// Package notify pushes a short summary to Telegram when a scrape run
// finishes. Notifications are optional; a nil *Notifier is a no-op.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier returns nil (notifications disabled) when no token is set.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// ScrapeFinished reports a completed run. Send failures are logged only;
// notification problems never touch scrape status.
func (n *Notifier) ScrapeFinished(keyword string, count int) {
	if n == nil {
		return
	}
	text := fmt.Sprintf(
		"🏁 <b>Scrape finished</b>\n🔍 %s\n📦 %d jobs collected",
		keyword, count,
	)
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "HTML"
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("⚠️ Failed to send Telegram notification: %v", err)
	}
}
