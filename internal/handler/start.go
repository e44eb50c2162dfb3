package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindcheck/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	text := fmt.Sprintf(
		"👋 Привет, *%s*!\n\n"+
			"Я помогу пройти самопроверку психологического состояния: "+
			"задам несколько вопросов о самочувствии и покажу, на какое "+
			"состояние похожи ваши ответы.\n\n"+
			"📋 *Команды:*\n"+
			"/test — Начать скрининг\n"+
			"/progress — Прогресс текущего скрининга\n"+
			"/cancel — Прервать скрининг\n"+
			"/history — Прошлые скрининги\n\n"+
			"⚠️ Результат не является медицинским диагнозом. "+
			"За диагнозом обратитесь к специалисту.",
		user.FirstName,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}
