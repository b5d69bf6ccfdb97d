package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 12

type UserService struct {
	repo output.UserRepository
	cost int
}

func NewUserService(repo output.UserRepository) *UserService {
	return &UserService{repo: repo, cost: PasswordCost}
}

// CreateSuperuser stores a new active superuser. It returns
// domain.ErrUserExists when the username is taken.
func (s *UserService) CreateSuperuser(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}
	if password == "" {
		return nil, domain.ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		IsSuperuser:  true,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username/password pair against an active user.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
