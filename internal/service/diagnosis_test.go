package service

import (
	"testing"

	"github.com/set-night/mindcheck/internal/domain"
)

func rule(code string, disorderID int64, symptoms ...string) domain.DiagnosisRule {
	return domain.DiagnosisRule{RuleCode: code, MentalDisorderID: disorderID, SymptomCodes: symptoms}
}

func TestEvaluateRules_Ordering(t *testing.T) {
	rules := []domain.DiagnosisRule{
		rule("R2A", 2, "G3", "G14"),
		rule("R1A", 1, "G1", "G2"),
	}
	reported := []string{"G1", "G2", "G3"}

	evals := EvaluateRules(rules, reported)
	if len(evals) != 2 {
		t.Fatalf("got %d evaluations", len(evals))
	}
	// R1A fully covered (100), R2A half covered (50).
	if evals[0].Rule.RuleCode != "R1A" || evals[0].Confidence != 100 {
		t.Errorf("top = %s (%v), want R1A at 100", evals[0].Rule.RuleCode, evals[0].Confidence)
	}
	if evals[1].Rule.RuleCode != "R2A" || evals[1].Confidence != 50 {
		t.Errorf("second = %s (%v), want R2A at 50", evals[1].Rule.RuleCode, evals[1].Confidence)
	}
}

func TestEvaluateRules_TieBreakByPath(t *testing.T) {
	// Same symptom set under two paths of the same disorder: the primary
	// path must win the tie.
	rules := []domain.DiagnosisRule{
		rule("R9B", 9, "G1", "G2"),
		rule("R9A", 9, "G1", "G2"),
	}
	evals := EvaluateRules(rules, []string{"G1"})

	if evals[0].Confidence != evals[1].Confidence {
		t.Fatalf("expected equal confidence, got %v and %v", evals[0].Confidence, evals[1].Confidence)
	}
	if evals[0].Rule.RuleCode != "R9A" {
		t.Errorf("top = %s, want R9A", evals[0].Rule.RuleCode)
	}
}

func TestEvaluateRules_MatchedMissing(t *testing.T) {
	evals := EvaluateRules([]domain.DiagnosisRule{rule("R1A", 1, "G1", "G2", "G7")}, []string{"G1", "G7", "G99"})

	eval := evals[0]
	if len(eval.Matched) != 2 || eval.Matched[0] != "G1" || eval.Matched[1] != "G7" {
		t.Errorf("Matched = %v, want [G1 G7]", eval.Matched)
	}
	if len(eval.Missing) != 1 || eval.Missing[0] != "G2" {
		t.Errorf("Missing = %v, want [G2]", eval.Missing)
	}
	if eval.Priority != 1 {
		t.Errorf("Priority = %d, want 1", eval.Priority)
	}
}

func TestBestMatch_Threshold(t *testing.T) {
	ten := []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7", "G8", "G9", "G10"}

	if best := bestMatch(nil); best != nil {
		t.Error("bestMatch(nil) should be nil")
	}

	evals := EvaluateRules([]domain.DiagnosisRule{rule("R1A", 1, ten...)}, ten[:7])
	if best := bestMatch(evals); best == nil {
		t.Error("70% confidence should match")
	}

	evals = EvaluateRules([]domain.DiagnosisRule{rule("R1A", 1, ten...)}, ten[:6])
	if best := bestMatch(evals); best != nil {
		t.Errorf("60%% confidence should not match, got %s", best.Rule.RuleCode)
	}
}
