package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindcheck/internal/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, telegram_id, is_admin, first_name, username, last_interaction, created_at, updated_at`

func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (telegram_id, first_name, username, is_admin)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		telegramID, firstName, username, isAdmin)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) UpdateInfo(ctx context.Context, userID int64, firstName, username string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET first_name = $2, username = $3, updated_at = now() WHERE id = $1`,
		userID, firstName, username)
	if err != nil {
		return fmt.Errorf("update user info: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateLastInteraction(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_interaction = now() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("update last interaction: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.TelegramID,
		&u.IsAdmin,
		&u.FirstName,
		&u.Username,
		&u.LastInteraction,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
