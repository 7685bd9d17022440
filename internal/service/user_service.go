package service

import (
	"context"
	"errors"
	"strings"

	"inputdash/internal/auth"
	dom "inputdash/internal/domain"
	"inputdash/internal/repo"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailTaken = errors.New("email already registered")

// UserService handles user auth logic.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Authenticate checks email and password; returns user if valid.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dom.User{}, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, err
}
