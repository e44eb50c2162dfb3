package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindcheck/internal/domain"
	"github.com/set-night/mindcheck/internal/repository"
)

type UserService struct {
	db    *pgxpool.Pool
	users *repository.UserRepo
}

func NewUserService(db *pgxpool.Pool, users *repository.UserRepo) *UserService {
	return &UserService{db: db, users: users}
}

// FindOrCreate returns the user for a Telegram identity, creating it on
// first contact. The second return value reports whether the user is new.
func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	user, err = s.users.Create(ctx, telegramID, firstName, username, isAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}

func (s *UserService) UpdateInfo(ctx context.Context, userID int64, firstName, username string) error {
	return s.users.UpdateInfo(ctx, userID, firstName, username)
}

func (s *UserService) UpdateLastInteraction(ctx context.Context, userID int64) error {
	return s.users.UpdateLastInteraction(ctx, userID)
}
