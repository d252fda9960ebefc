package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateUser inserts a new user record.
func (s *SQLiteStore) CreateUser(ctx context.Context, user User) error {
	query := `
		INSERT INTO users (id, email, username, hashed_password, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.HashedPassword, user.IsActive, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser fetches a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername fetches a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}
