package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateDeck inserts a new deck record.
func (s *SQLiteStore) CreateDeck(ctx context.Context, deck Deck) error {
	query := `
		INSERT INTO decks (id, name, description, is_public, school, course, professor, year, created_at, updated_at)
		VALUES (:id, :name, :description, :is_public, :school, :course, :professor, :year, :created_at, :updated_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, deck); err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

// GetDeck fetches a deck by ID.
func (s *SQLiteStore) GetDeck(ctx context.Context, id string) (Deck, error) {
	var deck Deck
	err := s.db.GetContext(ctx, &deck, `SELECT * FROM decks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Deck{}, ErrDeckNotFound
	}
	if err != nil {
		return Deck{}, fmt.Errorf("failed to get deck: %w", err)
	}
	return deck, nil
}

// ListPublicDecks returns all decks marked public, newest first.
func (s *SQLiteStore) ListPublicDecks(ctx context.Context) ([]Deck, error) {
	decks := []Deck{}
	err := s.db.SelectContext(ctx, &decks,
		`SELECT * FROM decks WHERE is_public = true ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list public decks: %w", err)
	}
	return decks, nil
}

// ListDecksForUser returns all decks the user owns or follows.
func (s *SQLiteStore) ListDecksForUser(ctx context.Context, userID string) ([]Deck, error) {
	decks := []Deck{}
	query := `
		SELECT d.* FROM decks d
		JOIN user_decks ud ON ud.deck_id = d.id
		WHERE ud.user_id = ?
		ORDER BY ud.added_at DESC
	`
	if err := s.db.SelectContext(ctx, &decks, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list decks for user: %w", err)
	}
	return decks, nil
}

// DeleteDeck removes a deck; cards and study logs cascade.
func (s *SQLiteStore) DeleteDeck(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrDeckNotFound
	}
	return nil
}

// AddUserDeck links a user to a deck.
func (s *SQLiteStore) AddUserDeck(ctx context.Context, link UserDeck) error {
	query := `
		INSERT INTO user_decks (user_id, deck_id, is_owner, is_favorite, added_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		link.UserID, link.DeckID, link.IsOwner, link.IsFavorite, link.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add user deck link: %w", err)
	}
	return nil
}

// GetUserDeck fetches the link between a user and a deck.
func (s *SQLiteStore) GetUserDeck(ctx context.Context, userID, deckID string) (UserDeck, error) {
	var link UserDeck
	err := s.db.GetContext(ctx, &link,
		`SELECT * FROM user_decks WHERE user_id = ? AND deck_id = ?`, userID, deckID)
	if errors.Is(err, sql.ErrNoRows) {
		return UserDeck{}, ErrDeckNotFound
	}
	if err != nil {
		return UserDeck{}, fmt.Errorf("failed to get user deck link: %w", err)
	}
	return link, nil
}
