package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/middleware"
)

func (h *Handler) handleProgress(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID

	session, err := h.sessionService.ActiveForUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Сейчас нет активного скрининга. Начать: /test",
			})
			return
		}
		slog.Error("get active session", "error", err, "user_id", user.ID)
		return
	}

	stats := session.Statistics()
	progress := session.ProgressPercentage()

	var sb strings.Builder
	sb.WriteString("📊 *Прогресс скрининга*\n\n")
	sb.WriteString(fmt.Sprintf("%s %d%%\n\n", progressBar(progress), progress))
	sb.WriteString(fmt.Sprintf("Вопросов отвечено: %d\n", stats.TotalQuestions))
	sb.WriteString(fmt.Sprintf("— общих: %d, уточняющих: %d\n", stats.ScreeningQuestions, stats.StrategicQuestions))
	sb.WriteString(fmt.Sprintf("Отмечено симптомов: %d\n", stats.SymptomsFound))

	if len(stats.CategoriesExplored) > 0 {
		sb.WriteString("\nЗатронутые области:\n")
		for _, cat := range stats.CategoriesExplored {
			title := domain.CategoryTitles[cat]
			if title == "" {
				title = cat
			}
			sb.WriteString("• " + title + "\n")
		}
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      sb.String(),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
