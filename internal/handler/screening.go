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
	tg "github.com/set-night/mindcheck/internal/telegram"
)

var severityLabels = []struct {
	Severity domain.Severity
	Label    string
}{
	{domain.SeverityNone, "Нет"},
	{domain.SeverityMild, "Слегка"},
	{domain.SeverityModerate, "Заметно"},
	{domain.SeveritySevere, "Сильно"},
}

func (h *Handler) handleTest(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID

	session, err := h.sessionService.StartNew(ctx, user.ID)
	if err != nil {
		slog.Error("start screening", "error", err, "user_id", user.ID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось начать скрининг. Попробуйте позже.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "🧭 Начинаем скрининг. Отвечайте, насколько каждое состояние " +
			"было свойственно вам в последние две недели.\n\n" +
			"Прервать можно в любой момент командой /cancel.",
	})

	h.askNextQuestion(ctx, b, chatID, session)
}

func (h *Handler) handleNewTest(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	var chatID int64
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		chatID = msg.Chat.ID
	}
	if chatID == 0 {
		return
	}

	session, err := h.sessionService.StartNew(ctx, user.ID)
	if err != nil {
		slog.Error("start screening", "error", err, "user_id", user.ID)
		return
	}
	h.askNextQuestion(ctx, b, chatID, session)
}

// askNextQuestion sends the next symptom question or finalizes the
// screening when the selection policy has nothing left to ask.
func (h *Handler) askNextQuestion(ctx context.Context, b *bot.Bot, chatID int64, session *domain.ConsultationSession) {
	question, ok := h.questionnaire.Next(session)
	if !ok {
		h.finalize(ctx, b, chatID, session)
		return
	}

	symptom, err := h.catalogService.Symptom(question.SymptomCode)
	if err != nil {
		slog.Error("resolve symptom", "error", err, "code", question.SymptomCode)
		h.finalize(ctx, b, chatID, session)
		return
	}

	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, opt := range severityLabels {
		row = append(row, tg.InlineButton(
			opt.Label,
			fmt.Sprintf("sev_%s_%s_%s", question.SymptomCode, opt.Severity, question.RuleCode),
		))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	text := fmt.Sprintf("❓ *Вопрос %d*\n\n%s?", session.TotalQuestionsAsked()+1, symptom.Description)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
}

func (h *Handler) handleSeverityAnswer(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	parts := strings.Split(update.CallbackQuery.Data, "_")
	if len(parts) != 4 {
		return
	}
	symptomCode, severity, ruleCode := parts[1], domain.Severity(parts[2]), parts[3]

	var chatID int64
	var messageID int
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		chatID = msg.Chat.ID
		messageID = msg.ID
	}
	if chatID == 0 {
		return
	}

	session, err := h.sessionService.ActiveForUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Скрининг уже завершён. Начать новый: /test",
			})
			return
		}
		slog.Error("get active session", "error", err, "user_id", user.ID)
		return
	}

	// Stale keyboard tap: the question was already answered.
	for _, code := range session.AskedSymptoms() {
		if code == symptomCode {
			return
		}
	}

	if _, err := h.sessionService.AddStep(ctx, session, domain.Step{
		Type:        domain.StepSymptomQuestion,
		SymptomCode: symptomCode,
		Severity:    severity,
		RuleCode:    ruleCode,
	}); err != nil {
		slog.Error("record answer", "error", err, "session_id", session.ID)
		return
	}

	// Freeze the answered question: drop its keyboard.
	if messageID != 0 {
		label := "?"
		for _, opt := range severityLabels {
			if opt.Severity == severity {
				label = opt.Label
			}
		}
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      fmt.Sprintf("%s\n\n— %s", update.CallbackQuery.Message.Message.Text, label),
		})
	}

	h.askNextQuestion(ctx, b, chatID, session)
}

// finalize runs the rule matcher over the accumulated answers, stores the
// diagnosis and renders the result.
func (h *Handler) finalize(ctx context.Context, b *bot.Bot, chatID int64, session *domain.ConsultationSession) {
	diagnosis, err := h.diagnosisService.Finalize(ctx, session)
	if err != nil {
		slog.Error("finalize screening", "error", err, "session_id", session.ID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось подвести итог скрининга.",
		})
		return
	}

	text := h.renderResult(session, diagnosis)
	if err := tg.SendLongMessage(ctx, b, chatID, text); err != nil {
		slog.Error("send result", "error", err, "session_id", session.ID)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Пройти ещё раз:",
		ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton("🔄 Новый скрининг", "new_test"))),
	})
}

func (h *Handler) renderResult(session *domain.ConsultationSession, diagnosis *domain.UserDiagnosis) string {
	var sb strings.Builder
	sb.WriteString("🧾 *Результат скрининга*\n\n")

	if diagnosis.MentalDisorderID != nil {
		disorder, err := h.catalogService.Disorder(*diagnosis.MentalDisorderID)
		if err == nil {
			sb.WriteString(fmt.Sprintf("Ваши ответы похожи на: *%s*\n", disorder.Name))
			sb.WriteString(fmt.Sprintf("Совпадение: %s%%\n\n", diagnosis.ConfidenceLevel.StringFixed(0)))
			if disorder.Description != "" {
				sb.WriteString(disorder.Description + "\n\n")
			}
		}
	}

	if len(diagnosis.SymptomsReported) > 0 {
		sb.WriteString("Отмеченные симптомы:\n")
		for _, code := range diagnosis.SymptomsReported {
			if symptom, err := h.catalogService.Symptom(code); err == nil {
				sb.WriteString("• " + symptom.Description + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("💡 " + diagnosis.Recommendation + "\n\n")
	sb.WriteString("⚠️ Это не медицинский диагноз. За постановкой диагноза обратитесь к специалисту.\n")
	sb.WriteString(fmt.Sprintf("_Номер скрининга: %s_", session.PublicID))
	return sb.String()
}
