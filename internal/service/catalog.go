package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/matcher"
	"github.com/set-night/mindcheck/internal/repository"
)

// CatalogService serves the symptom/disorder/rule reference data. The
// catalog is read-only at runtime and small, so it is loaded once and kept
// in memory.
type CatalogService struct {
	repo *repository.CatalogRepo

	mu        sync.RWMutex
	loaded    bool
	symptoms  map[string]domain.Symptom
	order     []string
	disorders map[int64]domain.MentalDisorder
	rules     []domain.DiagnosisRule
}

func NewCatalogService(repo *repository.CatalogRepo) *CatalogService {
	return &CatalogService{repo: repo}
}

// Warm loads the catalog. Called at startup; later reads hit memory only.
func (s *CatalogService) Warm(ctx context.Context) error {
	symptoms, err := s.repo.ListSymptoms(ctx)
	if err != nil {
		return fmt.Errorf("load symptoms: %w", err)
	}
	disorders, err := s.repo.ListDisorders(ctx)
	if err != nil {
		return fmt.Errorf("load disorders: %w", err)
	}
	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	symptomMap := make(map[string]domain.Symptom, len(symptoms))
	order := make([]string, 0, len(symptoms))
	for _, sym := range symptoms {
		symptomMap[sym.Code] = sym
		order = append(order, sym.Code)
	}
	disorderMap := make(map[int64]domain.MentalDisorder, len(disorders))
	for _, d := range disorders {
		disorderMap[d.ID] = d
	}

	// Rules with a malformed code have no defined path priority; they are
	// kept out of matching entirely.
	valid := rules[:0]
	for _, rule := range rules {
		if !matcher.ValidRuleCode(rule.RuleCode) {
			slog.Warn("skipping rule with invalid code", "rule_code", rule.RuleCode)
			continue
		}
		valid = append(valid, rule)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.symptoms = symptomMap
	s.order = order
	s.disorders = disorderMap
	s.rules = valid
	s.loaded = true

	slog.Info("catalog loaded", "symptoms", len(symptomMap), "disorders", len(disorderMap), "rules", len(valid))
	return nil
}

func (s *CatalogService) Symptom(code string) (domain.Symptom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sym, ok := s.symptoms[code]
	if !ok {
		return domain.Symptom{}, domain.ErrSymptomNotFound
	}
	return sym, nil
}

func (s *CatalogService) Disorder(id int64) (domain.MentalDisorder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.disorders[id]
	if !ok {
		return domain.MentalDisorder{}, domain.ErrDisorderNotFound
	}
	return d, nil
}

func (s *CatalogService) Rules() []domain.DiagnosisRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DiagnosisRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// CreateRule validates and inserts a new diagnosis rule. Codes whose
// trailing character is not an uppercase letter are rejected here, at
// creation time, rather than producing an undefined path rank later.
func (s *CatalogService) CreateRule(ctx context.Context, ruleCode string, disorderID int64, symptomCodes []string) (*domain.DiagnosisRule, error) {
	if !matcher.ValidRuleCode(ruleCode) {
		return nil, domain.ErrInvalidRuleCode
	}
	rule, err := s.repo.CreateRule(ctx, ruleCode, disorderID, symptomCodes)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.rules = append(s.rules, *rule)
	s.mu.Unlock()
	return rule, nil
}
