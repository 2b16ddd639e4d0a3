package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"live_portal/internal/domain"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	CountByRole(ctx context.Context, role string) (int, error)
	Count(ctx context.Context) (int, error)
	RecentLogins(ctx context.Context, limit int) ([]*domain.User, error)
}

type userRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewUserRepository(db *pgxpool.Pool, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

const userColumns = `id, username, email, password_hash, role, is_active, last_login_at, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.Role, user.IsActive, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.log.Warn("User already exists (unique violation)", "username", user.Username, "constraint", pgErr.ConstraintName)
			return apperrors.ErrUserAlreadyExists
		}
		r.log.Error("Failed to create user", "error", err, "username", user.Username)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(ctx, query, username)
}

func (r *userRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.LastLoginAt, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get user", "error", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list users", "error", err)
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.Role, &user.IsActive, &user.LastLoginAt, &user.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan user", "error", err)
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		r.log.Error("Failed to update last login", "error", err, "user_id", id)
	}
	return err
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		r.log.Error("Failed to update role", "error", err, "user_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count users by role", "error", err, "role", role)
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count users", "error", err)
		return 0, err
	}
	return count, nil
}

func (r *userRepository) RecentLogins(ctx context.Context, limit int) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE last_login_at IS NOT NULL
		ORDER BY last_login_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to get recent logins", "error", err)
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.Role, &user.IsActive, &user.LastLoginAt, &user.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan user", "error", err)
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
