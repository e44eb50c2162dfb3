package service

import (
	"github.com/set-night/mindcheck/internal/config"
	"github.com/set-night/mindcheck/internal/domain"
)

// Question is the next symptom to ask, tagged with the rule that motivated
// it (or the screening sentinel during the triage phase).
type Question struct {
	SymptomCode string
	RuleCode    string
}

// NextQuestion picks the next symptom question for a session, or reports
// that the screening should be finalized. Two phases: the fixed screening
// list first, then rule-driven questions — candidate rules ordered by
// current confidence and path priority, asking their missing symptoms. This
// is deliberately not an inference engine; it only decides what to append.
func NextQuestion(session *domain.ConsultationSession, rules []domain.DiagnosisRule) (Question, bool) {
	if session.TotalQuestionsAsked() >= config.MaxQuestions {
		return Question{}, false
	}

	asked := make(map[string]bool)
	for _, code := range session.AskedSymptoms() {
		asked[code] = true
	}

	for _, code := range config.ScreeningSymptomCodes {
		if !asked[code] {
			return Question{SymptomCode: code, RuleCode: domain.ScreeningRuleCode}, true
		}
	}

	reported := session.ReportedSymptoms()
	evals := EvaluateRules(rules, reported)

	// Once a rule matches with every required symptom asked, there is
	// nothing left to clarify.
	if best := bestMatch(evals); best != nil && len(best.Missing) == 0 {
		return Question{}, false
	}

	for _, eval := range evals {
		// Only pursue rules with at least some evidence.
		if len(eval.Matched) == 0 {
			continue
		}
		for _, code := range eval.Missing {
			if !asked[code] {
				return Question{SymptomCode: code, RuleCode: eval.Rule.RuleCode}, true
			}
		}
	}
	return Question{}, false
}

// Questionnaire binds the selection policy to the live catalog.
type Questionnaire struct {
	catalog *CatalogService
}

func NewQuestionnaire(catalog *CatalogService) *Questionnaire {
	return &Questionnaire{catalog: catalog}
}

func (q *Questionnaire) Next(session *domain.ConsultationSession) (Question, bool) {
	return NextQuestion(session, q.catalog.Rules())
}
