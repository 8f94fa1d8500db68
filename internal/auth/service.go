package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/shared"
)

// Service wraps registration and authentication business rules.
type Service struct {
	repo  Repository
	codec *TokenCodec
}

// NewService constructs a new Service.
func NewService(repo Repository, codec *TokenCodec) *Service {
	return &Service{repo: repo, codec: codec}
}

// Register hashes the password and persists a new user. A duplicate email
// always surfaces as shared.ErrAlreadyRegistered, including when two
// registrations race on the same address.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, shared.ErrAlreadyRegistered
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login validates credentials and issues an access token. Unknown email and
// wrong password collapse into the same shared.ErrInvalidCredentials; the
// caller must not be able to tell them apart.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", shared.ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return "", shared.ErrInvalidCredentials
	}

	token, err := s.codec.Encode(user.Email, 0)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
