package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/repository"
)

type SessionService struct {
	db       *pgxpool.Pool
	sessions *repository.SessionRepo
}

func NewSessionService(db *pgxpool.Pool, sessions *repository.SessionRepo) *SessionService {
	return &SessionService{db: db, sessions: sessions}
}

// StartNew abandons any in-progress screening the user has and creates a
// fresh session. Atomic per user: see SessionRepo.StartNew.
func (s *SessionService) StartNew(ctx context.Context, userID int64) (*domain.ConsultationSession, error) {
	return s.sessions.StartNew(ctx, userID)
}

// ActiveForUser returns the user's in-progress session, or
// domain.ErrNoActiveSession.
func (s *SessionService) ActiveForUser(ctx context.Context, userID int64) (*domain.ConsultationSession, error) {
	return s.sessions.GetActiveForUser(ctx, userID)
}

func (s *SessionService) GetByID(ctx context.Context, id int64) (*domain.ConsultationSession, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *SessionService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.ConsultationSession, error) {
	return s.sessions.GetByPublicID(ctx, publicID)
}

// AddStep appends a step to the session's flow and persists it. Returns the
// new flow length. The current status is not checked: historical data shows
// steps appended after completion and the behavior is preserved.
func (s *SessionService) AddStep(ctx context.Context, session *domain.ConsultationSession, step domain.Step) (int, error) {
	n := session.AddStep(step)
	if err := s.sessions.UpdateFlow(ctx, session.ID, session.Flow); err != nil {
		return 0, fmt.Errorf("persist step: %w", err)
	}
	return n, nil
}

// Complete finalizes the session with the given diagnosis.
func (s *SessionService) Complete(ctx context.Context, session *domain.ConsultationSession, diagnosisID int64) error {
	session.Complete(diagnosisID)
	if err := s.sessions.Complete(ctx, session.ID, diagnosisID, *session.CompletedAt); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}
	return nil
}

// Abandon records the abandonment step and marks the session abandoned.
func (s *SessionService) Abandon(ctx context.Context, session *domain.ConsultationSession, reason string) error {
	session.Abandon(reason)
	if err := s.sessions.MarkAbandoned(ctx, session.ID, session.Flow, *session.AbandonedAt); err != nil {
		return fmt.Errorf("persist abandonment: %w", err)
	}
	return nil
}

func (s *SessionService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ConsultationSession, error) {
	return s.sessions.ListByUser(ctx, userID, limit, offset)
}

func (s *SessionService) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.sessions.CountByUser(ctx, userID)
}

func (s *SessionService) CountByStatus(ctx context.Context) (map[domain.SessionStatus]int64, error) {
	return s.sessions.CountByStatus(ctx)
}

// AbandonStale abandons in-progress sessions untouched for longer than
// maxAge. Returns how many were closed.
func (s *SessionService) AbandonStale(ctx context.Context, maxAge time.Duration) (int, error) {
	stale, err := s.sessions.ListStaleInProgress(ctx, maxAge)
	if err != nil {
		return 0, err
	}
	closed := 0
	for i := range stale {
		if err := s.Abandon(ctx, &stale[i], "timeout"); err != nil {
			return closed, fmt.Errorf("abandon stale session %d: %w", stale[i].ID, err)
		}
		closed++
	}
	return closed, nil
}
