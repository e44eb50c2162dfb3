package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// ConsultationSession is one screening attempt: an append-only flow of steps
// plus its lifecycle state. Completed and abandoned are terminal; a new
// attempt is always a new session.
type ConsultationSession struct {
	ID               int64
	PublicID         uuid.UUID
	UserID           int64
	Flow             []Step
	Status           SessionStatus
	FinalDiagnosisID *int64
	CompletedAt      *time.Time
	AbandonedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AddStep appends a step to the flow, numbering it by its 1-based position
// and stamping creation time. Returns the new flow length.
func (s *ConsultationSession) AddStep(step Step) int {
	step.StepNumber = len(s.Flow) + 1
	now := time.Now()
	if step.CreatedAt.IsZero() {
		step.CreatedAt = now
	}
	if step.Timestamp.IsZero() {
		step.Timestamp = step.CreatedAt
	}
	s.Flow = append(s.Flow, step)
	return len(s.Flow)
}

// Complete marks the session completed and attaches the final diagnosis.
func (s *ConsultationSession) Complete(diagnosisID int64) {
	now := time.Now()
	s.Status = SessionCompleted
	s.FinalDiagnosisID = &diagnosisID
	s.CompletedAt = &now
}

// Abandon appends a single abandonment step snapshotting how far the
// screening got, then marks the session abandoned. The counters are taken
// before the abandonment step itself is appended.
func (s *ConsultationSession) Abandon(reason string) {
	questions := s.TotalQuestionsAsked()
	symptoms := len(s.ReportedSymptoms())
	s.AddStep(Step{
		Type:           StepAbandonment,
		Reason:         reason,
		QuestionsAsked: &questions,
		SymptomsFound:  &symptoms,
	})
	now := time.Now()
	s.Status = SessionAbandoned
	s.AbandonedAt = &now
}
