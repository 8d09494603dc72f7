// Package auth registers staff accounts and exchanges credentials for
// session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/repository"
	"github.com/dharsanguruparan/dbzmanager/internal/signing"
)

// HashCost is the bcrypt work factor for stored passwords.
const HashCost = 10

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the persistence the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindUser(ctx context.Context, email, username string) (*model.User, error)
}

// Service implements signup and login.
type Service struct {
	users  UserStore
	signer *signing.Signer
}

// NewService wires a Service.
func NewService(users UserStore, signer *signing.Signer) *Service {
	return &Service{users: users, signer: signer}
}

type RegisterInput struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidationError carries the message shown to the client. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// Register creates an account. Email and username must both be unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" || in.ConfirmPassword == "" {
		return model.User{}, validation("Please fill out all fields")
	}
	if in.Password != in.ConfirmPassword {
		return model.User{}, validation("Passwords do not match")
	}

	_, err := s.users.FindUser(ctx, email, username)
	switch {
	case err == nil:
		return model.User{}, ErrConflict
	case !errors.Is(err, repository.ErrNotFound):
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), HashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{Email: email, Username: username, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		// Lost a race with a concurrent signup for the same name.
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrConflict
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks the password of the user identified by email or
// username and returns a signed token. Unknown users and wrong passwords
// both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (string, model.User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" && username == "" {
		return "", model.User{}, validation("Email or Username is required.")
	}
	if in.Password == "" {
		return "", model.User{}, validation("Password is required.")
	}

	u, err := s.users.FindUser(ctx, email, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", model.User{}, ErrInvalidCredentials
		}
		return "", model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return "", model.User{}, ErrInvalidCredentials
	}

	token, err := s.signer.Issue(signing.Identity{ID: u.ID, Email: u.Email, Username: u.Username})
	if err != nil {
		return "", model.User{}, err
	}
	return token, *u, nil
}
