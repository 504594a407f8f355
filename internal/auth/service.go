package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
)

// ErrNotFound is returned by repositories when a user does not exist.
var ErrNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	CreateUser(ctx context.Context, user *User) error
}

type Service struct {
	repo   Repository
	tokens *TokenManager
}

func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Actor       Actor
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Unauthenticated("invalid email or password")
		}

		return nil, apperr.Internal("looking up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if !user.Active {
		return nil, apperr.Unauthenticated("account is inactive")
	}

	token, expiresAt, err := s.tokens.Issue(user.Actor())
	if err != nil {
		return nil, apperr.Internal("issuing token", err)
	}

	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, Actor: user.Actor()}, nil
}

// Authenticate resolves a bearer token to an actor.
func (s *Service) Authenticate(token string) (Actor, error) {
	actor, err := s.tokens.Parse(token)
	if err != nil {
		return Actor{}, apperr.Unauthenticated("%v", err)
	}

	return actor, nil
}

// ActorByEmail resolves a stored, active account. The console uses it to act as a configured operator.
func (s *Service) ActorByEmail(ctx context.Context, email string) (Actor, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Actor{}, apperr.NotFound("no user with email %s", email)
		}

		return Actor{}, apperr.Internal("looking up user", err)
	}

	if !user.Active {
		return Actor{}, apperr.Forbidden("account is inactive")
	}

	return user.Actor(), nil
}

type CreateUserParams struct {
	Email    string
	Name     string
	Password string
	Role     Role
}

func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("invalid email %q", params.Email)
	}

	if len(params.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	if !params.Role.Valid() {
		return nil, apperr.Validation("invalid role %q", params.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}

	user := &User{
		Email:        email,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: string(hash),
		Role:         params.Role,
		Active:       true,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("email %s is already registered", email)
		}

		return nil, apperr.Internal("creating user", err)
	}

	return user, nil
}
