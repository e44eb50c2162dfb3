package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/middleware"
)

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
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

	answered := session.TotalQuestionsAsked()

	if err := h.sessionService.Abandon(ctx, session, "user_cancelled"); err != nil {
		slog.Error("abandon session", "error", err, "session_id", session.ID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось прервать скрининг.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("🚫 Скрининг прерван (вопросов отвечено: %d). Начать заново: /test", answered),
	})
}
