package service

import (
	"testing"

	"github.com/set-night/mindcheck/internal/config"
	"github.com/set-night/mindcheck/internal/domain"
)

func answered(code string, severity domain.Severity, ruleCode string) domain.Step {
	return domain.Step{
		Type:        domain.StepSymptomQuestion,
		SymptomCode: code,
		Severity:    severity,
		RuleCode:    ruleCode,
	}
}

// screeningSteps answers the whole fixed screening list with the given
// severities, keyed by symptom code; unlisted codes are answered "none".
func screeningSteps(severities map[string]domain.Severity) []domain.Step {
	steps := make([]domain.Step, 0, len(config.ScreeningSymptomCodes))
	for _, code := range config.ScreeningSymptomCodes {
		severity := domain.SeverityNone
		if sev, ok := severities[code]; ok {
			severity = sev
		}
		steps = append(steps, answered(code, severity, domain.ScreeningRuleCode))
	}
	return steps
}

func TestNextQuestion_ScreeningFirst(t *testing.T) {
	session := &domain.ConsultationSession{Status: domain.SessionInProgress}

	q, ok := NextQuestion(session, nil)
	if !ok {
		t.Fatal("expected a question for a fresh session")
	}
	if q.SymptomCode != config.ScreeningSymptomCodes[0] || q.RuleCode != domain.ScreeningRuleCode {
		t.Errorf("first question = %+v, want first screening code", q)
	}

	// Answering part of the list advances through it in order.
	session.AddStep(answered(config.ScreeningSymptomCodes[0], domain.SeverityNone, domain.ScreeningRuleCode))
	session.AddStep(answered(config.ScreeningSymptomCodes[1], domain.SeverityMild, domain.ScreeningRuleCode))

	q, ok = NextQuestion(session, nil)
	if !ok || q.SymptomCode != config.ScreeningSymptomCodes[2] {
		t.Errorf("next question = %+v (%v), want %s", q, ok, config.ScreeningSymptomCodes[2])
	}
}

func TestNextQuestion_StrategicPhase(t *testing.T) {
	session := &domain.ConsultationSession{
		Status: domain.SessionInProgress,
		Flow: screeningSteps(map[string]domain.Severity{
			"G1":  domain.SeverityModerate,
			"G10": domain.SeverityMild,
		}),
	}
	rules := []domain.DiagnosisRule{
		rule("R1A", 1, "G1", "G2", "G7", "G10", "G11"), // 2/5 matched
		rule("R2A", 2, "G3", "G14", "G17", "G6", "G10"), // 1/5 matched
	}

	q, ok := NextQuestion(session, rules)
	if !ok {
		t.Fatal("expected a strategic question")
	}
	// The strongest rule's first unasked missing symptom, tagged with it.
	if q.SymptomCode != "G2" || q.RuleCode != "R1A" {
		t.Errorf("question = %+v, want G2 via R1A", q)
	}
}

func TestNextQuestion_SkipsRulesWithoutEvidence(t *testing.T) {
	session := &domain.ConsultationSession{
		Status: domain.SessionInProgress,
		Flow:   screeningSteps(nil), // everything answered "none"
	}
	rules := []domain.DiagnosisRule{
		rule("R1A", 1, "G1", "G2"),
		rule("R2A", 2, "G3", "G14"),
	}

	if q, ok := NextQuestion(session, rules); ok {
		t.Errorf("expected no question without any reported symptom, got %+v", q)
	}
}

func TestNextQuestion_StopsOnCompleteMatch(t *testing.T) {
	session := &domain.ConsultationSession{
		Status: domain.SessionInProgress,
		Flow: screeningSteps(map[string]domain.Severity{
			"G18": domain.SeveritySevere,
		}),
	}
	session.AddStep(answered("G13", domain.SeveritySevere, "R3A"))
	session.AddStep(answered("G5", domain.SeverityModerate, "R3A"))
	session.AddStep(answered("G15", domain.SeverityMild, "R3A"))

	rules := []domain.DiagnosisRule{
		rule("R3A", 3, "G18", "G13", "G5", "G15"),
		rule("R1A", 1, "G18", "G99"),
	}

	if q, ok := NextQuestion(session, rules); ok {
		t.Errorf("expected finalization once the best rule is fully covered, got %+v", q)
	}
}

func TestNextQuestion_QuestionCap(t *testing.T) {
	session := &domain.ConsultationSession{Status: domain.SessionInProgress}
	for i := 0; i < config.MaxQuestions; i++ {
		session.AddStep(domain.Step{
			Type:        domain.StepSymptomQuestion,
			SymptomCode: "X" + string(rune('A'+i)),
			Severity:    domain.SeveritySevere,
		})
	}

	rules := []domain.DiagnosisRule{rule("R1A", 1, "XA", "G2")}
	if q, ok := NextQuestion(session, rules); ok {
		t.Errorf("expected the question cap to stop the screening, got %+v", q)
	}
}
