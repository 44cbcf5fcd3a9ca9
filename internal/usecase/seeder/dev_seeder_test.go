package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/simaogato/fondfolio-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessions is a mock implementation of Sessions
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Authenticate(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessions) Issue(ctx context.Context, userID int64, key uuid.UUID) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

func TestDevSessionKeyIsVersion4(t *testing.T) {
	assert.Equal(t, uuid.Version(4), DevSessionKey.Version())
}

func TestDevSeeder_Seed_Missing(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessions)
	seeder := NewDevSeeder(mockUsers, mockSessions)

	mockSessions.On("Authenticate", ctx, DevSessionKey.String()).Return(int64(0), domain.ErrInvalidSession)
	mockUsers.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(int64(42), nil)
	mockSessions.On("Issue", ctx, int64(42), DevSessionKey).Return(nil)

	userID, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	mockUsers.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}

func TestDevSeeder_Seed_AlreadySeeded(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessions)
	seeder := NewDevSeeder(mockUsers, mockSessions)

	mockSessions.On("Authenticate", ctx, DevSessionKey.String()).Return(int64(3), nil)

	userID, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), userID)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockSessions.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestDevSeeder_Seed_Errors(t *testing.T) {
	dbErr := errors.New("database unavailable")

	tests := []struct {
		name      string
		authErr   error
		createErr error
		issueErr  error
		wantMsg   string
	}{
		{name: "Session lookup fails", authErr: dbErr, wantMsg: "failed to look up development session"},
		{name: "User creation fails", authErr: domain.ErrInvalidSession, createErr: dbErr, wantMsg: "failed to create development user"},
		{name: "Session creation fails", authErr: domain.ErrInvalidSession, issueErr: dbErr, wantMsg: "failed to create development session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockUsers := new(MockUserRepository)
			mockSessions := new(MockSessions)
			seeder := NewDevSeeder(mockUsers, mockSessions)

			mockSessions.On("Authenticate", ctx, DevSessionKey.String()).Return(int64(0), tt.authErr)
			mockUsers.On("Create", ctx, mock.Anything).Return(int64(42), tt.createErr)
			mockSessions.On("Issue", ctx, int64(42), DevSessionKey).Return(tt.issueErr)

			_, err := seeder.Seed(ctx)

			assert.ErrorIs(t, err, dbErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
