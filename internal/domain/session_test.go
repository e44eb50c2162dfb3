package domain

import "testing"

func question(code string, severity Severity, ruleCode string) Step {
	return Step{
		Type:        StepSymptomQuestion,
		SymptomCode: code,
		Severity:    severity,
		RuleCode:    ruleCode,
	}
}

func TestAddStep_Numbering(t *testing.T) {
	var s ConsultationSession

	if got := s.AddStep(question("G1", SeverityMild, ScreeningRuleCode)); got != 1 {
		t.Fatalf("AddStep returned %d, want 1", got)
	}
	if got := s.AddStep(question("G2", SeverityNone, "R1A")); got != 2 {
		t.Fatalf("AddStep returned %d, want 2", got)
	}

	for i, st := range s.Flow {
		if st.StepNumber != i+1 {
			t.Errorf("step %d numbered %d", i, st.StepNumber)
		}
		if st.CreatedAt.IsZero() || st.Timestamp.IsZero() {
			t.Errorf("step %d missing timestamps", i)
		}
	}
}

func TestComplete(t *testing.T) {
	s := ConsultationSession{Status: SessionInProgress}
	s.Complete(42)

	if s.Status != SessionCompleted {
		t.Errorf("status = %s, want completed", s.Status)
	}
	if s.FinalDiagnosisID == nil || *s.FinalDiagnosisID != 42 {
		t.Errorf("FinalDiagnosisID = %v, want 42", s.FinalDiagnosisID)
	}
	if s.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestAbandon_SnapshotStep(t *testing.T) {
	s := ConsultationSession{Status: SessionInProgress}
	s.AddStep(question("G1", SeveritySevere, ScreeningRuleCode))
	s.AddStep(question("G2", SeverityNone, ScreeningRuleCode))

	s.Abandon("user_cancelled")

	if s.Status != SessionAbandoned {
		t.Errorf("status = %s, want abandoned", s.Status)
	}
	if s.AbandonedAt == nil {
		t.Error("AbandonedAt not set")
	}
	if len(s.Flow) != 3 {
		t.Fatalf("flow has %d steps, want 3", len(s.Flow))
	}

	last := s.Flow[2]
	if last.Type != StepAbandonment {
		t.Fatalf("last step type = %s, want abandonment", last.Type)
	}
	if last.Reason != "user_cancelled" {
		t.Errorf("reason = %q", last.Reason)
	}
	// Counters snapshot the flow before the abandonment step itself.
	if last.QuestionsAsked == nil || *last.QuestionsAsked != 2 {
		t.Errorf("QuestionsAsked = %v, want 2", last.QuestionsAsked)
	}
	if last.SymptomsFound == nil || *last.SymptomsFound != 1 {
		t.Errorf("SymptomsFound = %v, want 1", last.SymptomsFound)
	}
	if last.StepNumber != 3 {
		t.Errorf("StepNumber = %d, want 3", last.StepNumber)
	}
}
