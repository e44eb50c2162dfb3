package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/middleware"
)

// handleStat is admin-only: aggregate screening counters.
func (h *Handler) handleStat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil || !user.IsAdmin {
		return
	}

	chatID := update.Message.Chat.ID

	counts, err := h.sessionService.CountByStatus(ctx)
	if err != nil {
		slog.Error("count sessions by status", "error", err)
		return
	}
	diagnoses, err := h.diagnosisService.Count(ctx)
	if err != nil {
		slog.Error("count diagnoses", "error", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📈 *Статистика*\n\n")
	sb.WriteString(fmt.Sprintf("В процессе: %d\n", counts[domain.SessionInProgress]))
	sb.WriteString(fmt.Sprintf("Завершено: %d\n", counts[domain.SessionCompleted]))
	sb.WriteString(fmt.Sprintf("Прервано: %d\n", counts[domain.SessionAbandoned]))
	sb.WriteString(fmt.Sprintf("Диагнозов записано: %d\n", diagnoses))

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      sb.String(),
		ParseMode: models.ParseModeMarkdownV1,
	})
}
