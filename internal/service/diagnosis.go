package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/set-night/mindcheck/internal/config"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/matcher"
	"github.com/set-night/mindcheck/internal/repository"
	"github.com/shopspring/decimal"
)

// RuleEvaluation is one rule scored against a reported-symptom set.
type RuleEvaluation struct {
	Rule       domain.DiagnosisRule
	Confidence float64
	Priority   int
	Matched    []string
	Missing    []string
}

// EvaluateRules scores every rule against the reported symptoms and returns
// them in deterministic order: confidence descending, then path priority
// (primary path first), then rule code.
func EvaluateRules(rules []domain.DiagnosisRule, reported []string) []RuleEvaluation {
	evals := make([]RuleEvaluation, 0, len(rules))
	for _, rule := range rules {
		priority, _ := matcher.PathPriority(rule.RuleCode)
		evals = append(evals, RuleEvaluation{
			Rule:       rule,
			Confidence: matcher.Confidence(rule.SymptomCodes, reported),
			Priority:   priority,
			Matched:    matcher.Matched(rule.SymptomCodes, reported),
			Missing:    matcher.Missing(rule.SymptomCodes, reported),
		})
	}
	sort.SliceStable(evals, func(i, j int) bool {
		if evals[i].Confidence != evals[j].Confidence {
			return evals[i].Confidence > evals[j].Confidence
		}
		if evals[i].Priority != evals[j].Priority {
			return evals[i].Priority < evals[j].Priority
		}
		return evals[i].Rule.RuleCode < evals[j].Rule.RuleCode
	})
	return evals
}

// bestMatch returns the top evaluation that reaches the acceptance
// threshold, or nil.
func bestMatch(evals []RuleEvaluation) *RuleEvaluation {
	if len(evals) == 0 || evals[0].Confidence < matcher.MatchThreshold {
		return nil
	}
	return &evals[0]
}

type DiagnosisService struct {
	catalog   *CatalogService
	diagnoses *repository.DiagnosisRepo
	sessions  *SessionService
}

func NewDiagnosisService(catalog *CatalogService, diagnoses *repository.DiagnosisRepo, sessions *SessionService) *DiagnosisService {
	return &DiagnosisService{catalog: catalog, diagnoses: diagnoses, sessions: sessions}
}

// Finalize evaluates the accumulated symptoms against the rule table, writes
// the diagnosis record and completes the session. Called exactly once per
// screening; abandonment bypasses it.
func (s *DiagnosisService) Finalize(ctx context.Context, session *domain.ConsultationSession) (*domain.UserDiagnosis, error) {
	reported := session.ReportedSymptoms()
	evals := EvaluateRules(s.catalog.Rules(), reported)

	diagnosis := &domain.UserDiagnosis{
		UserID:           session.UserID,
		SessionID:        session.ID,
		SymptomsReported: reported,
		Recommendation:   config.NoMatchRecommendation,
		ConfidenceLevel:  decimal.Zero,
	}

	if best := bestMatch(evals); best != nil {
		disorder, err := s.catalog.Disorder(best.Rule.MentalDisorderID)
		if err != nil {
			return nil, fmt.Errorf("resolve disorder for rule %s: %w", best.Rule.RuleCode, err)
		}
		id := disorder.ID
		diagnosis.MentalDisorderID = &id
		diagnosis.Recommendation = disorder.Recommendation
		diagnosis.ConfidenceLevel = decimal.NewFromFloat(best.Confidence)
	}

	created, err := s.diagnoses.Create(ctx, diagnosis)
	if err != nil {
		return nil, fmt.Errorf("store diagnosis: %w", err)
	}

	if err := s.sessions.Complete(ctx, session, created.ID); err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	return created, nil
}

func (s *DiagnosisService) GetByID(ctx context.Context, id int64) (*domain.UserDiagnosis, error) {
	return s.diagnoses.GetByID(ctx, id)
}

func (s *DiagnosisService) Count(ctx context.Context) (int64, error) {
	return s.diagnoses.Count(ctx)
}
