package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestReportedSymptoms(t *testing.T) {
	s := ConsultationSession{Flow: []Step{
		question("G1", SeveritySevere, ScreeningRuleCode),
		question("G2", SeverityNone, ScreeningRuleCode),
		{Type: StepSymptomQuestion, SymptomCode: "G3", Answer: boolPtr(true)},
		{Type: StepSymptomQuestion, SymptomCode: "G4", Answer: boolPtr(false)},
		question("G1", SeverityMild, "R1A"), // repeat, must not duplicate
		{Type: StepAbandonment, Reason: "timeout"},
	}}

	got := s.ReportedSymptoms()
	want := []string{"G1", "G3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReportedSymptoms = %v, want %v", got, want)
	}
}

func TestReportedSymptomsWithSeverity(t *testing.T) {
	s := ConsultationSession{Flow: []Step{
		question("G1", SeverityMild, ScreeningRuleCode),
		{Type: StepSymptomQuestion, SymptomCode: "G3", Answer: boolPtr(true)},
		question("G1", SeveritySevere, "R1A"), // later severity wins
	}}

	got := s.ReportedSymptomsWithSeverity()
	if got["G1"] != SeveritySevere {
		t.Errorf("G1 severity = %s, want severe", got["G1"])
	}
	if got["G3"] != SeverityModerate {
		t.Errorf("legacy G3 severity = %s, want moderate", got["G3"])
	}
	if len(got) != 2 {
		t.Errorf("got %d symptoms, want 2", len(got))
	}
}

func TestAskedSymptoms_IncludesSelected(t *testing.T) {
	s := ConsultationSession{Flow: []Step{
		question("G1", SeverityNone, ScreeningRuleCode),
		{Type: StepSymptomQuestion, SymptomCode: "G2", Severity: SeverityMild, SelectedSymptoms: []string{"G3", "G1"}},
	}}

	got := s.AskedSymptoms()
	want := []string{"G1", "G2", "G3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AskedSymptoms = %v, want %v", got, want)
	}
}

func TestQuestionCounters(t *testing.T) {
	s := ConsultationSession{Flow: []Step{
		question("G1", SeverityNone, ScreeningRuleCode),
		question("G2", SeverityMild, ScreeningRuleCode),
		question("G7", SeverityMild, "R1A"),
		question("G11", SeverityNone, "R1A"),
		{Type: StepAbandonment, Reason: "timeout"},
	}}

	if got := s.TotalQuestionsAsked(); got != 4 {
		t.Errorf("TotalQuestionsAsked = %d, want 4", got)
	}
	if got := s.StrategicQuestionsAsked(); got != 2 {
		t.Errorf("StrategicQuestionsAsked = %d, want 2", got)
	}
}

func TestProgressPercentage(t *testing.T) {
	completed := ConsultationSession{Status: SessionCompleted}
	if got := completed.ProgressPercentage(); got != 100 {
		t.Errorf("completed progress = %d, want 100", got)
	}

	empty := ConsultationSession{Status: SessionInProgress}
	if got := empty.ProgressPercentage(); got != 5 {
		t.Errorf("empty progress = %d, want 5", got)
	}

	// 10 questions, 4 reported: 20 + 15 + 10.
	mid := ConsultationSession{Status: SessionInProgress}
	for i := 0; i < 10; i++ {
		severity := SeverityNone
		if i < 4 {
			severity = SeverityModerate
		}
		mid.AddStep(question(symptomCode(i), severity, ScreeningRuleCode))
	}
	if got := mid.ProgressPercentage(); got != 45 {
		t.Errorf("mid progress = %d, want 45", got)
	}

	// Saturated terms clamp at 95 while still in progress.
	full := ConsultationSession{Status: SessionInProgress}
	for i := 0; i < 20; i++ {
		full.AddStep(question(symptomCode(i), SeveritySevere, ScreeningRuleCode))
	}
	if got := full.ProgressPercentage(); got != 95 {
		t.Errorf("saturated progress = %d, want 95", got)
	}
}

func symptomCode(i int) string {
	return "G" + string(rune('A'+i))
}

func TestValidateFlow(t *testing.T) {
	clean := ConsultationSession{Flow: []Step{
		question("G1", SeverityNone, ScreeningRuleCode),
		question("G2", SeverityMild, ScreeningRuleCode),
	}}
	if v := clean.ValidateFlow(); !v.IsValid || v.DuplicateCount != 0 || v.TotalSteps != 2 {
		t.Errorf("clean flow validation = %+v", v)
	}

	broken := ConsultationSession{Flow: []Step{
		question("G1", SeverityNone, ScreeningRuleCode),
		question("G1", SeverityMild, "R1A"),
		question("G1", SeverityMild, "R1B"),
		{SymptomCode: "G2"}, // missing type
	}}
	v := broken.ValidateFlow()
	if v.IsValid {
		t.Error("expected broken flow to be invalid")
	}
	if v.DuplicateCount != 2 {
		t.Errorf("DuplicateCount = %d, want 2", v.DuplicateCount)
	}
	if len(v.Errors) != 3 {
		t.Errorf("Errors = %v, want 3 entries", v.Errors)
	}
}

func TestCategoriesExplored(t *testing.T) {
	s := ConsultationSession{Flow: []Step{
		question("G10", SeverityNone, ScreeningRuleCode),
		question("G1", SeverityMild, ScreeningRuleCode),
		question("G19", SeverityNone, "R4A"),
	}}

	got := s.CategoriesExplored()
	want := []string{"mood_emotional", "physical", "trauma_related"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoriesExplored = %v, want %v", got, want)
	}
}

func TestStatistics(t *testing.T) {
	s := ConsultationSession{Flow: []Step{
		question("G1", SeveritySevere, ScreeningRuleCode),
		question("G2", SeverityNone, ScreeningRuleCode),
		question("G7", SeverityMild, "R1A"),
		question("G11", SeverityNone, "R1A"),
	}}

	stats := s.Statistics()
	if stats.TotalQuestions != 4 || stats.ScreeningQuestions != 2 || stats.StrategicQuestions != 2 {
		t.Errorf("question split = %d/%d/%d", stats.TotalQuestions, stats.ScreeningQuestions, stats.StrategicQuestions)
	}
	if stats.SymptomsFound != 2 || stats.SymptomsAsked != 4 {
		t.Errorf("symptoms = %d found / %d asked", stats.SymptomsFound, stats.SymptomsAsked)
	}
	if stats.CoveragePercent != 50 {
		t.Errorf("CoveragePercent = %v, want 50", stats.CoveragePercent)
	}
}

func TestEfficiencyMetrics(t *testing.T) {
	var empty ConsultationSession
	if m := empty.EfficiencyMetrics(); m.Efficiency != 0 || m.QuestionsPerSymptom != 0 {
		t.Errorf("empty metrics = %+v, want zeroes", m)
	}

	s := ConsultationSession{Flow: []Step{
		question("G1", SeveritySevere, ScreeningRuleCode),
		question("G2", SeverityNone, ScreeningRuleCode),
		question("G3", SeverityMild, ScreeningRuleCode),
		question("G4", SeverityNone, ScreeningRuleCode),
	}}
	m := s.EfficiencyMetrics()
	if m.Efficiency != 0.5 {
		t.Errorf("Efficiency = %v, want 0.5", m.Efficiency)
	}
	if m.QuestionsPerSymptom != 2 {
		t.Errorf("QuestionsPerSymptom = %v, want 2", m.QuestionsPerSymptom)
	}
}

func TestStepUnmarshal_LegacyAnswer(t *testing.T) {
	var st Step
	if err := json.Unmarshal([]byte(`{"type":"symptom_question","symptom_code":"G1","answer":true,"step_number":1}`), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.Severity != SeverityModerate {
		t.Errorf("severity = %s, want moderate", st.Severity)
	}

	if err := json.Unmarshal([]byte(`{"type":"symptom_question","symptom_code":"G2","answer":false,"step_number":2}`), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.Severity != SeverityNone {
		t.Errorf("severity = %s, want none", st.Severity)
	}

	// An explicit severity is never overridden by the legacy answer.
	if err := json.Unmarshal([]byte(`{"type":"symptom_question","symptom_code":"G3","answer":false,"symptom_severity":"severe","step_number":3}`), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.Severity != SeveritySevere {
		t.Errorf("severity = %s, want severe", st.Severity)
	}
}
