package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNoActiveSession   = errors.New("no active session")
	ErrSymptomNotFound   = errors.New("symptom not found")
	ErrDisorderNotFound  = errors.New("disorder not found")
	ErrRuleNotFound      = errors.New("rule not found")
	ErrDiagnosisNotFound = errors.New("diagnosis not found")
	ErrInvalidRuleCode   = errors.New("rule code must end with an uppercase letter")
)
