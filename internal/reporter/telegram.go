package reporter

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/models"
)

const maxCaption = 1024

// Sender is the subset of *tgbotapi.BotAPI the reporter needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramReporter posts a summary of every finished run and attaches the
// spreadsheet.
type TelegramReporter struct {
	bot    Sender
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return NewWithSender(bot, chatID), nil
}

func NewWithSender(bot Sender, chatID int64) *TelegramReporter {
	return &TelegramReporter{bot: bot, chatID: chatID}
}

func (t *TelegramReporter) NotifyDone(ctx context.Context, res *models.RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	summary := formatSummary(res)

	if res.Path != "" {
		if _, err := os.Stat(res.Path); err == nil {
			doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FilePath(res.Path))
			doc.Caption = truncate(summary, maxCaption)
			doc.ParseMode = tgbotapi.ModeHTML
			_, err := t.bot.Send(doc)
			if err == nil {
				log.Info().Str("path", res.Path).Msg("📨 Sent spreadsheet to Telegram")
				return nil
			}
			log.Warn().Err(err).Msg("⚠️ Could not upload spreadsheet, sending summary only")
		}
	}
	return t.SendMessage(summary)
}

func (t *TelegramReporter) NotifyFailed(ctx context.Context, q models.Query, runErr error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := fmt.Sprintf("⚠️ <b>Search failed</b>: %s in %s\n%s",
		html.EscapeString(q.Designation), html.EscapeString(q.City), html.EscapeString(fmt.Sprint(runErr)))
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML //use HTML for bold/italic
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func formatSummary(res *models.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ <b>%s</b> in <b>%s</b>: %d listings\n",
		html.EscapeString(res.Query.Designation), html.EscapeString(res.Query.City), len(res.Records))
	for _, c := range res.Counts {
		mark := ""
		if c.Failed {
			mark = " ⚠️"
		}
		fmt.Fprintf(&b, "• %s: %d%s\n", html.EscapeString(string(c.Source)), c.Count, mark)
	}
	if !res.FinishedAt.IsZero() && !res.StartedAt.IsZero() {
		fmt.Fprintf(&b, "⏱ %s\n", res.FinishedAt.Sub(res.StartedAt).Round(time.Second))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
