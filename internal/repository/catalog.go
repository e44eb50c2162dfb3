package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindcheck/internal/domain"
)

type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListSymptoms(ctx context.Context) ([]domain.Symptom, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code, description FROM symptoms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list symptoms: %w", err)
	}
	defer rows.Close()

	var symptoms []domain.Symptom
	for rows.Next() {
		var s domain.Symptom
		if err := rows.Scan(&s.ID, &s.Code, &s.Description); err != nil {
			return nil, fmt.Errorf("scan symptom: %w", err)
		}
		symptoms = append(symptoms, s)
	}
	return symptoms, rows.Err()
}

func (r *CatalogRepo) ListDisorders(ctx context.Context) ([]domain.MentalDisorder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code, name, description, recommendation FROM mental_disorders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list disorders: %w", err)
	}
	defer rows.Close()

	var disorders []domain.MentalDisorder
	for rows.Next() {
		var d domain.MentalDisorder
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.Recommendation); err != nil {
			return nil, fmt.Errorf("scan disorder: %w", err)
		}
		disorders = append(disorders, d)
	}
	return disorders, rows.Err()
}

func (r *CatalogRepo) ListRules(ctx context.Context) ([]domain.DiagnosisRule, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, rule_code, mental_disorder_id, symptom_codes FROM diagnosis_rules ORDER BY rule_code`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.DiagnosisRule
	for rows.Next() {
		var rule domain.DiagnosisRule
		if err := rows.Scan(&rule.ID, &rule.RuleCode, &rule.MentalDisorderID, &rule.SymptomCodes); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *CatalogRepo) CreateRule(ctx context.Context, ruleCode string, disorderID int64, symptomCodes []string) (*domain.DiagnosisRule, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO diagnosis_rules (rule_code, mental_disorder_id, symptom_codes)
		 VALUES ($1, $2, $3)
		 RETURNING id, rule_code, mental_disorder_id, symptom_codes`,
		ruleCode, disorderID, symptomCodes)
	var rule domain.DiagnosisRule
	if err := row.Scan(&rule.ID, &rule.RuleCode, &rule.MentalDisorderID, &rule.SymptomCodes); err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}
	return &rule, nil
}

func (r *CatalogRepo) GetDisorderByID(ctx context.Context, id int64) (*domain.MentalDisorder, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, code, name, description, recommendation FROM mental_disorders WHERE id = $1`, id)
	var d domain.MentalDisorder
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.Recommendation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDisorderNotFound
		}
		return nil, fmt.Errorf("get disorder: %w", err)
	}
	return &d, nil
}
