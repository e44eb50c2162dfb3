package domain

import (
	"encoding/json"
	"time"
)

type StepType string

const (
	StepSymptomQuestion StepType = "symptom_question"
	StepAbandonment     StepType = "abandonment"
)

// ScreeningRuleCode tags symptom questions that belong to the broad triage
// phase rather than to a specific diagnosis rule.
const ScreeningRuleCode = "SCREENING"

type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Step is one recorded event in a screening flow. Fields other than Type,
// StepNumber and the timestamps are variant-specific: symptom questions carry
// SymptomCode/Severity/RuleCode, abandonment records carry Reason and the
// snapshot counters. Answer is the legacy boolean form kept for old rows.
type Step struct {
	Type             StepType `json:"type"`
	SymptomCode      string   `json:"symptom_code,omitempty"`
	Severity         Severity `json:"symptom_severity,omitempty"`
	Answer           *bool    `json:"answer,omitempty"`
	SelectedSymptoms []string `json:"selected_symptoms,omitempty"`
	RuleCode         string   `json:"rule_code,omitempty"`

	Reason         string `json:"reason,omitempty"`
	QuestionsAsked *int   `json:"questions_asked,omitempty"`
	SymptomsFound  *int   `json:"symptoms_found,omitempty"`

	StepNumber int       `json:"step_number"`
	CreatedAt  time.Time `json:"created_at"`
	Timestamp  time.Time `json:"timestamp"`
}

// UnmarshalJSON decodes stored steps, folding the legacy boolean answer into
// the severity representation: answer=true becomes moderate, answer=false
// becomes none. New rows always carry symptom_severity.
func (st *Step) UnmarshalJSON(data []byte) error {
	type alias Step
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*st = Step(a)
	if st.Severity == "" && st.Answer != nil {
		if *st.Answer {
			st.Severity = SeverityModerate
		} else {
			st.Severity = SeverityNone
		}
	}
	return nil
}

// reported tells whether this step contributes its symptom to the reported
// set: an explicit severity other than "none", or a legacy positive answer.
func (st Step) reported() bool {
	if st.Type != StepSymptomQuestion || st.SymptomCode == "" {
		return false
	}
	if st.Severity != "" {
		return st.Severity != SeverityNone
	}
	return st.Answer != nil && *st.Answer
}

// reportedSeverity returns the severity to record for a reporting step.
// Legacy positive answers default to moderate.
func (st Step) reportedSeverity() Severity {
	if st.Severity != "" {
		return st.Severity
	}
	return SeverityModerate
}
