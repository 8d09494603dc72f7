package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
)

// UserRepository stores staff accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateUser inserts u and fills in its id and creation time.
func (r *UserRepository) CreateUser(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Email, u.Username, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return translate(err, "insert user")
	}
	return nil
}

// FindUser returns the first user whose email equals email or
// whose username equals username. Empty arguments never match.
func (r *UserRepository) FindUser(ctx context.Context, email, username string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, username, password, created_at
		FROM users
		WHERE email = NULLIF($1, '') OR username = NULLIF($2, '')
		ORDER BY id
		LIMIT 1
	`, email, username).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}
