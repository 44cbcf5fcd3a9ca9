package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// SessionService validates api keys and manages the one session a user holds
type SessionService struct {
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository

	now func() time.Time
}

// NewSessionService creates a new SessionService instance
func NewSessionService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository) *SessionService {
	return &SessionService{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// ParseKey accepts only version 4 UUIDs
func ParseKey(key string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(key))
	if err != nil || id.Version() != 4 {
		return uuid.Nil, domain.ErrInvalidSession
	}
	return id, nil
}

// Authenticate resolves an api key to the owning user's ID
func (s *SessionService) Authenticate(ctx context.Context, key string) (int64, error) {
	id, err := ParseKey(key)
	if err != nil {
		return 0, err
	}

	session, err := s.SessionRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSession) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to get session: %w", err)
	}

	return session.UserID, nil
}

// UserInfo returns the user owning the api key
func (s *SessionService) UserInfo(ctx context.Context, key string) (*domain.User, error) {
	userID, err := s.Authenticate(ctx, key)
	if err != nil {
		return nil, err
	}

	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Logout invalidates the api key. Unknown keys are ignored.
func (s *SessionService) Logout(ctx context.Context, key string) error {
	id, err := ParseKey(key)
	if err != nil {
		return err
	}

	if err := s.SessionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Issue stores key as the user's session, ending any previous one.
// Only version 4 keys are accepted (ErrInvalidSession otherwise).
func (s *SessionService) Issue(ctx context.Context, userID int64, key uuid.UUID) error {
	if key.Version() != 4 {
		return domain.ErrInvalidSession
	}

	session := &domain.Session{
		Key:     key,
		UserID:  userID,
		Created: s.now().UTC(),
	}

	if err := s.SessionRepo.Replace(ctx, session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
