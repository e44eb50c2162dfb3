package domain

import "time"

type User struct {
	ID              int64
	TelegramID      int64
	IsAdmin         bool
	FirstName       string
	Username        string
	LastInteraction time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
