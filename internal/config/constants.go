package config

import "time"

const (
	// Hard cap on symptom questions per screening
	MaxQuestions = 20

	// Sessions per page in /history
	SessionsPerPage = 5

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Stale screening sweep
	StaleSweepInterval = 10 * time.Minute
)

// ScreeningSymptomCodes are asked first in every screening, before any
// rule-driven question. The order is fixed.
var ScreeningSymptomCodes = []string{"G1", "G3", "G10", "G18", "G8"}

// NoMatchRecommendation is attached to a diagnosis when no rule reached the
// acceptance threshold.
const NoMatchRecommendation = "По вашим ответам не удалось выделить конкретное состояние. " +
	"Если неприятные ощущения сохраняются, обратитесь к психологу или психотерапевту."
