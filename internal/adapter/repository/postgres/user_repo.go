package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// userRepository implements domain.UserRepository on the users.user_data column
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domain.UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by its ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, user_data FROM users WHERE id = $1`

	var (
		user domain.User
		raw  []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &user.Data); err != nil {
			return nil, fmt.Errorf("failed to decode user_data: %w", err)
		}
	}
	if email, ok := user.Data["email"].(string); ok {
		user.Email = email
	}
	if name, ok := user.Data["name"].(string); ok {
		user.Name = name
	}

	return &user, nil
}

// Create inserts a user and returns the generated ID
func (r *userRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	data := make(map[string]any, len(user.Data)+2)
	for k, v := range user.Data {
		data[k] = v
	}
	if user.Email != "" {
		data["email"] = user.Email
	}
	if user.Name != "" {
		data["name"] = user.Name
	}

	userData, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("failed to encode user_data: %w", err)
	}

	// portfolio stays NULL until the first save and reads back as empty
	query := `INSERT INTO users (user_data) VALUES ($1) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, userData).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	return id, nil
}
