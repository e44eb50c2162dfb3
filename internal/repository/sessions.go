package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindcheck/internal/domain"
)

type SessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepo(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionColumns = `id, public_id, user_id, flow, status, final_diagnosis_id, completed_at, abandoned_at, created_at, updated_at`

// StartNew abandons every in-progress session the user has and inserts a
// fresh one, in a single transaction. Together with the partial unique index
// on (user_id) WHERE status='in_progress' this keeps the single-active
// invariant under concurrent calls.
func (r *SessionRepo) StartNew(ctx context.Context, userID int64) (*domain.ConsultationSession, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE consultation_sessions
		 SET status = $1, abandoned_at = now(), updated_at = now()
		 WHERE user_id = $2 AND status = $3`,
		domain.SessionAbandoned, userID, domain.SessionInProgress)
	if err != nil {
		return nil, fmt.Errorf("abandon previous sessions: %w", err)
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO consultation_sessions (public_id, user_id, flow, status)
		 VALUES ($1, $2, '[]', $3)
		 RETURNING `+sessionColumns,
		uuid.New(), userID, domain.SessionInProgress)
	s, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s, nil
}

// GetActiveForUser returns the most recently created in-progress session.
func (r *SessionRepo) GetActiveForUser(ctx context.Context, userID int64) (*domain.ConsultationSession, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM consultation_sessions
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, domain.SessionInProgress)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return s, nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id int64) (*domain.ConsultationSession, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM consultation_sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *SessionRepo) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.ConsultationSession, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM consultation_sessions WHERE public_id = $1`, publicID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session by public id: %w", err)
	}
	return s, nil
}

// UpdateFlow persists the current flow of a session.
func (r *SessionRepo) UpdateFlow(ctx context.Context, id int64, flow []domain.Step) error {
	flowJSON, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("marshal flow: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`UPDATE consultation_sessions SET flow = $2, updated_at = now() WHERE id = $1`,
		id, flowJSON)
	if err != nil {
		return fmt.Errorf("update flow: %w", err)
	}
	return nil
}

func (r *SessionRepo) Complete(ctx context.Context, id, diagnosisID int64, completedAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE consultation_sessions
		 SET status = $2, final_diagnosis_id = $3, completed_at = $4, updated_at = now()
		 WHERE id = $1`,
		id, domain.SessionCompleted, diagnosisID, completedAt)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return nil
}

// MarkAbandoned persists the final flow (including the abandonment step) and
// the terminal status in one statement.
func (r *SessionRepo) MarkAbandoned(ctx context.Context, id int64, flow []domain.Step, abandonedAt time.Time) error {
	flowJSON, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("marshal flow: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`UPDATE consultation_sessions
		 SET flow = $2, status = $3, abandoned_at = $4, updated_at = now()
		 WHERE id = $1`,
		id, flowJSON, domain.SessionAbandoned, abandonedAt)
	if err != nil {
		return fmt.Errorf("mark abandoned: %w", err)
	}
	return nil
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ConsultationSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM consultation_sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ConsultationSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM consultation_sessions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// ListStaleInProgress returns in-progress sessions untouched for longer than
// maxAge, for the timeout sweeper.
func (r *SessionRepo) ListStaleInProgress(ctx context.Context, maxAge time.Duration) ([]domain.ConsultationSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM consultation_sessions
		 WHERE status = $1 AND updated_at < now() - $2::interval`,
		domain.SessionInProgress, fmt.Sprintf("%d seconds", int(maxAge.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("list stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ConsultationSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepo) CountByStatus(ctx context.Context) (map[domain.SessionStatus]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, count(*) FROM consultation_sessions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count sessions by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SessionStatus]int64)
	for rows.Next() {
		var status domain.SessionStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanSession(row pgx.Row) (*domain.ConsultationSession, error) {
	var s domain.ConsultationSession
	var flowJSON []byte
	err := row.Scan(
		&s.ID,
		&s.PublicID,
		&s.UserID,
		&flowJSON,
		&s.Status,
		&s.FinalDiagnosisID,
		&s.CompletedAt,
		&s.AbandonedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(flowJSON) > 0 {
		if err := json.Unmarshal(flowJSON, &s.Flow); err != nil {
			return nil, fmt.Errorf("unmarshal flow: %w", err)
		}
	}
	return &s, nil
}
