// Package repository wraps all SQL used by the API over a pgx pool.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no row matches a lookup key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Unique constraint names used by callers to tell duplicates apart.
const (
	ConstraintUserEmail    = "users_email_key"
	ConstraintUserUsername = "users_username_key"
	ConstraintFileNumber   = "uploads_file_number_key"
)

// DuplicateError carries the violated constraint. It matches ErrDuplicate
// under errors.Is.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicate, e.Constraint)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// IsDuplicateOf reports whether err is a duplicate on constraint.
func IsDuplicateOf(err error, constraint string) bool {
	var dup *DuplicateError
	return errors.As(err, &dup) && dup.Constraint == constraint
}

// translate maps driver errors onto the package sentinels.
func translate(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return &DuplicateError{Constraint: pgErr.ConstraintName}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Store bundles the repositories over one pool so a single value can be
// handed to every consumer.
type Store struct {
	*UserRepository
	*UploadRepository
	*FormRepository
	pool *pgxpool.Pool
}

// NewStore builds all repositories over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		UserRepository:   NewUserRepository(pool),
		UploadRepository: NewUploadRepository(pool),
		FormRepository:   NewFormRepository(pool),
		pool:             pool,
	}
}

// Ping checks the pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
