package domain

import (
	"fmt"
	"math"
)

// FlowValidation is the result of an integrity scan over the flow. Defects
// are reported as data, never as errors: a session with a broken flow stays
// usable.
type FlowValidation struct {
	IsValid        bool
	Errors         []string
	DuplicateCount int
	TotalSteps     int
}

// SessionStatistics are read-only counters derived from the flow.
type SessionStatistics struct {
	TotalQuestions     int
	ScreeningQuestions int
	StrategicQuestions int
	SymptomsFound      int
	SymptomsAsked      int
	CoveragePercent    float64
	CategoriesExplored []string
}

// EfficiencyMetrics describe how much signal the questioning produced.
type EfficiencyMetrics struct {
	Efficiency          float64
	QuestionsPerSymptom float64
}

// ReportedSymptoms returns the de-duplicated symptom codes the user actually
// reported: severity present and not "none", or a legacy positive answer.
func (s *ConsultationSession) ReportedSymptoms() []string {
	var codes []string
	seen := make(map[string]bool)
	for _, st := range s.Flow {
		if !st.reported() || seen[st.SymptomCode] {
			continue
		}
		seen[st.SymptomCode] = true
		codes = append(codes, st.SymptomCode)
	}
	return codes
}

// ReportedSymptomsWithSeverity returns reported symptoms with their recorded
// severity. Legacy positive answers default to moderate. A symptom reported
// twice keeps the later severity.
func (s *ConsultationSession) ReportedSymptomsWithSeverity() map[string]Severity {
	out := make(map[string]Severity)
	for _, st := range s.Flow {
		if st.reported() {
			out[st.SymptomCode] = st.reportedSeverity()
		}
	}
	return out
}

// AskedSymptoms returns every symptom that appeared in the flow at all,
// whether as a question subject or inside a multi-select step.
func (s *ConsultationSession) AskedSymptoms() []string {
	var codes []string
	seen := make(map[string]bool)
	add := func(code string) {
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	}
	for _, st := range s.Flow {
		add(st.SymptomCode)
		for _, code := range st.SelectedSymptoms {
			add(code)
		}
	}
	return codes
}

func (s *ConsultationSession) TotalQuestionsAsked() int {
	n := 0
	for _, st := range s.Flow {
		if st.Type == StepSymptomQuestion {
			n++
		}
	}
	return n
}

// StrategicQuestionsAsked counts symptom questions tied to a concrete
// diagnosis rule rather than the screening phase.
func (s *ConsultationSession) StrategicQuestionsAsked() int {
	n := 0
	for _, st := range s.Flow {
		if st.Type == StepSymptomQuestion && st.RuleCode != "" && st.RuleCode != ScreeningRuleCode {
			n++
		}
	}
	return n
}

// ProgressPercentage is a rough heuristic for the progress bar: three capped
// terms over questions asked and symptoms found, clamped to [5,95] so the bar
// never looks empty or done while the screening is running. A completed
// session is always 100.
func (s *ConsultationSession) ProgressPercentage() int {
	if s.Status == SessionCompleted {
		return 100
	}
	q := float64(s.TotalQuestionsAsked())
	r := float64(len(s.ReportedSymptoms()))

	questionTerm := math.Min(80, q/20*40)
	symptomTerm := math.Min(30, r/8*30)
	strategicTerm := math.Min(30, math.Max(0, q-5)/15*30)

	total := questionTerm + symptomTerm + strategicTerm
	if total < 5 {
		total = 5
	}
	if total > 95 {
		total = 95
	}
	return int(math.Round(total))
}

// ValidateFlow scans the flow for integrity defects: the same symptom asked
// in more than one step, and steps missing a type tag.
func (s *ConsultationSession) ValidateFlow() FlowValidation {
	v := FlowValidation{TotalSteps: len(s.Flow)}
	seen := make(map[string]int)
	for i, st := range s.Flow {
		if st.Type == "" {
			v.Errors = append(v.Errors, fmt.Sprintf("step %d: missing type", i+1))
		}
		if st.SymptomCode == "" {
			continue
		}
		seen[st.SymptomCode]++
		if seen[st.SymptomCode] > 1 {
			v.DuplicateCount++
			v.Errors = append(v.Errors, fmt.Sprintf("step %d: symptom %s already asked", i+1, st.SymptomCode))
		}
	}
	v.IsValid = len(v.Errors) == 0
	return v
}

// CategoriesExplored returns the symptom categories touched by the questions
// asked so far, in the catalog's fixed order.
func (s *ConsultationSession) CategoriesExplored() []string {
	asked := make(map[string]bool)
	for _, code := range s.AskedSymptoms() {
		asked[code] = true
	}
	var out []string
	for _, cat := range CategoryOrder {
		for _, code := range SymptomCategories[cat] {
			if asked[code] {
				out = append(out, cat)
				break
			}
		}
	}
	return out
}

// Statistics aggregates the flow into display counters.
func (s *ConsultationSession) Statistics() SessionStatistics {
	total := s.TotalQuestionsAsked()
	strategic := s.StrategicQuestionsAsked()
	reported := len(s.ReportedSymptoms())
	asked := len(s.AskedSymptoms())

	coverage := 0.0
	if asked > 0 {
		coverage = float64(reported) / float64(asked) * 100
	}

	return SessionStatistics{
		TotalQuestions:     total,
		ScreeningQuestions: total - strategic,
		StrategicQuestions: strategic,
		SymptomsFound:      reported,
		SymptomsAsked:      asked,
		CoveragePercent:    coverage,
		CategoriesExplored: s.CategoriesExplored(),
	}
}

// EfficiencyMetrics derives signal-per-question ratios from the flow.
func (s *ConsultationSession) EfficiencyMetrics() EfficiencyMetrics {
	total := s.TotalQuestionsAsked()
	reported := len(s.ReportedSymptoms())

	var m EfficiencyMetrics
	if total > 0 {
		m.Efficiency = float64(reported) / float64(total)
	}
	if reported > 0 {
		m.QuestionsPerSymptom = float64(total) / float64(reported)
	}
	return m
}
