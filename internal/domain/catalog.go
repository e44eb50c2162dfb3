package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Symptom and MentalDisorder are pure reference data seeded by migration.

type Symptom struct {
	ID          int64
	Code        string
	Description string
}

type MentalDisorder struct {
	ID             int64
	Code           string
	Name           string
	Description    string
	Recommendation string
}

// DiagnosisRule binds a disorder to the set of symptoms required to suggest
// it. The trailing letter of RuleCode encodes the diagnostic path rank:
// A is the primary path, B, C, ... are secondary.
type DiagnosisRule struct {
	ID               int64
	RuleCode         string
	MentalDisorderID int64
	SymptomCodes     []string
}

// UserDiagnosis is the finalized outcome of a screening: the chosen disorder
// (nil when nothing matched), a snapshot of reported symptoms at decision
// time and the confidence level in percent.
type UserDiagnosis struct {
	ID               int64
	UserID           int64
	SessionID        int64
	SymptomsReported []string
	MentalDisorderID *int64
	Recommendation   string
	ConfidenceLevel  decimal.Decimal
	CreatedAt        time.Time
}
