package handler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindcheck/internal/config"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/middleware"
	tg "github.com/set-night/mindcheck/internal/telegram"
)

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	h.sendHistoryPage(ctx, b, update.Message.Chat.ID, user, 0, false, 0)
}

func (h *Handler) handleHistoryPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	page, _ := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, "history_page_"))

	var chatID int64
	var messageID int
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		chatID = msg.Chat.ID
		messageID = msg.ID
	}

	h.sendHistoryPage(ctx, b, chatID, user, page, true, messageID)
}

func (h *Handler) sendHistoryPage(ctx context.Context, b *bot.Bot, chatID int64, user *domain.User, page int, edit bool, messageID int) {
	total, err := h.sessionService.CountByUser(ctx, user.ID)
	if err != nil {
		slog.Error("count sessions", "error", err)
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(config.SessionsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	sessions, err := h.sessionService.ListByUser(ctx, user.ID, config.SessionsPerPage, page*config.SessionsPerPage)
	if err != nil {
		slog.Error("list sessions", "error", err)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📂 *Скрининги* (%d шт.)\n\n", total))

	for _, s := range sessions {
		sb.WriteString(fmt.Sprintf("%s %s — %s\n",
			statusIcon(s.Status),
			s.CreatedAt.Format("02.01.2006 15:04"),
			h.sessionSummary(ctx, &s),
		))
	}

	if total == 0 {
		sb.WriteString("Пока пусто. Начать первый скрининг: /test")
	}

	var rows [][]models.InlineKeyboardButton
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, "history_page"))
	}

	text := sb.String()
	keyboard := tg.InlineKeyboard(rows...)

	if edit && messageID != 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
	} else {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
	}
}

// sessionSummary renders a one-line outcome for a session in the history.
func (h *Handler) sessionSummary(ctx context.Context, s *domain.ConsultationSession) string {
	switch s.Status {
	case domain.SessionCompleted:
		if s.FinalDiagnosisID == nil {
			return "завершён"
		}
		diagnosis, err := h.diagnosisService.GetByID(ctx, *s.FinalDiagnosisID)
		if err != nil || diagnosis.MentalDisorderID == nil {
			return "без совпадений"
		}
		disorder, err := h.catalogService.Disorder(*diagnosis.MentalDisorderID)
		if err != nil {
			return "завершён"
		}
		return fmt.Sprintf("%s (%s%%)", disorder.Name, diagnosis.ConfidenceLevel.StringFixed(0))
	case domain.SessionAbandoned:
		return fmt.Sprintf("прерван на вопросе %d", s.TotalQuestionsAsked())
	default:
		return "в процессе"
	}
}

func statusIcon(status domain.SessionStatus) string {
	switch status {
	case domain.SessionCompleted:
		return "✅"
	case domain.SessionAbandoned:
		return "🚫"
	default:
		return "▶️"
	}
}
