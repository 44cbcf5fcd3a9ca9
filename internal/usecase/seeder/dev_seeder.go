package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// DevSessionKey is the fixed api key of the development user
var DevSessionKey = uuid.MustParse("3f1c2b9e-8a4d-4c6e-9f0a-1b2c3d4e5f60")

// Sessions is the part of the session service the seeder needs
type Sessions interface {
	Authenticate(ctx context.Context, key string) (int64, error)
	Issue(ctx context.Context, userID int64, key uuid.UUID) error
}

// DevSeeder makes sure a development user and its session exist, so a local
// instance can be used without a login flow
type DevSeeder struct {
	UserRepo domain.UserRepository
	Sessions Sessions
}

// NewDevSeeder creates a new DevSeeder instance
func NewDevSeeder(userRepo domain.UserRepository, sessions Sessions) *DevSeeder {
	return &DevSeeder{
		UserRepo: userRepo,
		Sessions: sessions,
	}
}

// Seed returns the ID of the development user, creating user and session when
// the session key is not known yet
func (s *DevSeeder) Seed(ctx context.Context) (int64, error) {
	userID, err := s.Sessions.Authenticate(ctx, DevSessionKey.String())
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, domain.ErrInvalidSession) {
		return 0, fmt.Errorf("failed to look up development session: %w", err)
	}

	userID, err = s.UserRepo.Create(ctx, &domain.User{
		Email: "dev@localhost",
		Name:  "Development User",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create development user: %w", err)
	}

	if err := s.Sessions.Issue(ctx, userID, DevSessionKey); err != nil {
		return 0, fmt.Errorf("failed to create development session: %w", err)
	}

	return userID, nil
}
