// Package matcher implements the rule-matching confidence engine: pure
// set comparisons between a rule's required symptoms and a user's reported
// symptoms. Deterministic, no I/O, no mutation of inputs.
package matcher

import (
	"math"

	"github.com/set-night/mindcheck/internal/domain"
)

// MatchThreshold is the fixed acceptance threshold: a rule matches when its
// confidence reaches this percentage. Not configurable per rule.
const MatchThreshold = 70.0

// fullCoverageBonus is added when every required symptom was reported.
const fullCoverageBonus = 10.0

var severityWeights = map[domain.Severity]int{
	domain.SeverityNone:     0,
	domain.SeverityMild:     1,
	domain.SeverityModerate: 2,
	domain.SeveritySevere:   3,
}

// Confidence scores reported symptoms against a rule's required set as a
// percentage overlap, with a flat bonus for full coverage, capped at 100 and
// rounded to two decimals. An empty required set scores 0: such a rule is a
// data defect, not an error.
func Confidence(required, reported []string) float64 {
	req := dedupe(required)
	if len(req) == 0 {
		return 0
	}
	matched := intersect(req, reported)
	score := float64(len(matched)) / float64(len(req)) * 100
	if len(matched) >= len(req) {
		score += fullCoverageBonus
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*100) / 100
}

// Matches reports whether the confidence reaches the acceptance threshold.
func Matches(required, reported []string) bool {
	return Confidence(required, reported) >= MatchThreshold
}

// Matched returns the required symptoms present in the reported set, in
// required order.
func Matched(required, reported []string) []string {
	return intersect(dedupe(required), reported)
}

// Missing returns the required symptoms absent from the reported set, in
// required order.
func Missing(required, reported []string) []string {
	have := toSet(reported)
	var out []string
	for _, code := range dedupe(required) {
		if !have[code] {
			out = append(out, code)
		}
	}
	return out
}

// IsCriticalPath reports whether the rule code marks the disorder's primary
// diagnostic path (trailing 'A').
func IsCriticalPath(ruleCode string) bool {
	p, ok := PathPriority(ruleCode)
	return ok && p == 1
}

// PathPriority derives the numeric path rank from the rule code's trailing
// letter: A→1, B→2, and so on. Returns ok=false for codes that do not end in
// an uppercase letter; such codes are rejected at rule creation.
func PathPriority(ruleCode string) (int, bool) {
	if !ValidRuleCode(ruleCode) {
		return 0, false
	}
	c := ruleCode[len(ruleCode)-1]
	return int(c-'A') + 1, true
}

// ValidRuleCode reports whether the code's trailing byte is an uppercase
// letter, the only suffix PathPriority is defined for.
func ValidRuleCode(ruleCode string) bool {
	if ruleCode == "" {
		return false
	}
	c := ruleCode[len(ruleCode)-1]
	return c >= 'A' && c <= 'Z'
}

// WeightedScore sums severity weights over a reported-with-severity map.
// A secondary signal only; rule acceptance is decided by Matches.
func WeightedScore(reported map[string]domain.Severity) int {
	total := 0
	for _, sev := range reported {
		total += severityWeights[sev]
	}
	return total
}

func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	var out []string
	for _, code := range codes {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

func intersect(required, reported []string) []string {
	have := toSet(reported)
	var out []string
	for _, code := range required {
		if have[code] {
			out = append(out, code)
		}
	}
	return out
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}
