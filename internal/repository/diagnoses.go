package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/shopspring/decimal"
)

type DiagnosisRepo struct {
	db *pgxpool.Pool
}

func NewDiagnosisRepo(db *pgxpool.Pool) *DiagnosisRepo {
	return &DiagnosisRepo{db: db}
}

const diagnosisColumns = `id, user_id, session_id, symptoms_reported, mental_disorder_id, recommendation, confidence_level::text, created_at`

func (r *DiagnosisRepo) Create(ctx context.Context, d *domain.UserDiagnosis) (*domain.UserDiagnosis, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO user_diagnoses (user_id, session_id, symptoms_reported, mental_disorder_id, recommendation, confidence_level)
		 VALUES ($1, $2, $3, $4, $5, $6::numeric)
		 RETURNING `+diagnosisColumns,
		d.UserID, d.SessionID, d.SymptomsReported, d.MentalDisorderID, d.Recommendation, d.ConfidenceLevel.StringFixed(2))
	created, err := scanDiagnosis(row)
	if err != nil {
		return nil, fmt.Errorf("create diagnosis: %w", err)
	}
	return created, nil
}

func (r *DiagnosisRepo) GetByID(ctx context.Context, id int64) (*domain.UserDiagnosis, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+diagnosisColumns+` FROM user_diagnoses WHERE id = $1`, id)
	d, err := scanDiagnosis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDiagnosisNotFound
		}
		return nil, fmt.Errorf("get diagnosis: %w", err)
	}
	return d, nil
}

func (r *DiagnosisRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.UserDiagnosis, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+diagnosisColumns+`
		 FROM user_diagnoses
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	defer rows.Close()

	var diagnoses []domain.UserDiagnosis
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan diagnosis: %w", err)
		}
		diagnoses = append(diagnoses, *d)
	}
	return diagnoses, rows.Err()
}

func (r *DiagnosisRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM user_diagnoses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count diagnoses: %w", err)
	}
	return count, nil
}

func scanDiagnosis(row pgx.Row) (*domain.UserDiagnosis, error) {
	var d domain.UserDiagnosis
	var confidence string
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.SessionID,
		&d.SymptomsReported,
		&d.MentalDisorderID,
		&d.Recommendation,
		&confidence,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.ConfidenceLevel, err = decimal.NewFromString(confidence)
	if err != nil {
		return nil, fmt.Errorf("parse confidence level: %w", err)
	}
	return &d, nil
}
